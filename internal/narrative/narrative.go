// Package narrative turns a finished metrics report into an executive summary
// and a short list of recommendations.
package narrative

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gyeh/claimstats/internal/model"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 3

// Generator produces narrative text from a materialized report.
type Generator interface {
	Summary(ctx context.Context, m *model.AllMetrics) (string, error)
	Recommendations(ctx context.Context, m *model.AllMetrics) ([]string, error)
}

// Narrative is the generated text for one report.
type Narrative struct {
	Summary         string
	Recommendations []string
	UsedFallback    bool // true if either part came from Fallback
	Duration        time.Duration
}

// Generate runs the summary and recommendation calls concurrently. A failing
// or empty result from gen is replaced by the Fallback output, so Generate
// itself only fails when ctx is cancelled.
func Generate(ctx context.Context, log zerolog.Logger, gen Generator, m *model.AllMetrics) (*Narrative, error) {
	start := time.Now()
	fallbackOnly := gen == nil
	if fallbackOnly {
		gen = Fallback{}
	}

	var (
		n               Narrative
		summaryFallback bool
		recsFallback    bool
		fb              Fallback
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := gen.Summary(gctx, m)
		if err != nil || s == "" {
			log.Warn().Err(err).Msg("summary generation failed, using fallback")
			s, _ = fb.Summary(gctx, m)
			summaryFallback = true
		}
		n.Summary = s
		return nil
	})
	g.Go(func() error {
		recs, err := gen.Recommendations(gctx, m)
		if err != nil || len(recs) == 0 {
			log.Warn().Err(err).Msg("recommendation generation failed, using fallback")
			recs, _ = fb.Recommendations(gctx, m)
			recsFallback = true
		}
		if len(recs) > MaxRecommendations {
			recs = recs[:MaxRecommendations]
		}
		n.Recommendations = recs
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n.UsedFallback = fallbackOnly || summaryFallback || recsFallback
	n.Duration = time.Since(start)
	return &n, nil
}

// printer formats numbers the en-US way: grouped thousands, at most three
// fraction digits, no trailing zeros.
var printer = message.NewPrinter(language.English)

func num(v float64) string {
	return printer.Sprintf("%v", number.Decimal(v))
}

func count(v int) string {
	return printer.Sprintf("%v", number.Decimal(v))
}
