// Package ingest runs one analysis end to end: preflight, parse, compute,
// narrate, deliver and record.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/delivery"
	"github.com/gyeh/claimstats/internal/metrics"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/narrative"
)

// Recorder persists the aggregates of a finished run.
type Recorder interface {
	Record(ctx context.Context, run *model.RunSummary, email string) error
}

// Deps are the optional collaborators of a run. A nil Narrator means the
// rule-based fallback; a nil Sender or Recorder skips that phase.
type Deps struct {
	Narrator narrative.Generator
	Sender   delivery.Sender
	Recorder Recorder
}

// Run executes the full analysis pipeline: preflight → parse → compute →
// narrate → deliver → record. Failures in the first four phases abort the
// run; delivery and record failures are logged and reported on the summary.
func Run(ctx context.Context, log zerolog.Logger, cfg *config.Config, deps Deps) (*model.RunSummary, error) {
	totalStart := time.Now()
	summary := &model.RunSummary{
		AnalysisID: uuid.New(),
		FilePath:   cfg.FilePath,
	}
	log = log.With().Str("analysis_id", summary.AnalysisID.String()).Logger()

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Msg("starting preflight")
	pf, err := Preflight(log, cfg.FilePath, cfg.MaxFileBytes())
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, Err: err}
	}
	summary.FileSHA256 = pf.FileSHA256
	summary.Format = pf.Format

	// Phase 2: Parse
	parsed, err := Parse(log, pf, cfg.ColumnAliases)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseParse, Err: err}
	}
	minClaims := cfg.MinClaims
	if minClaims <= 0 {
		minClaims = config.DefaultMinClaims
	}
	if len(parsed.Claims) < minClaims {
		return nil, &PipelineError{Phase: PhaseParse, Err: fmt.Errorf("%w: found %d, need at least %d",
			ErrTooFewClaims, len(parsed.Claims), minClaims)}
	}
	summary.RowsRead = parsed.RowsRead
	summary.ClaimsParsed = int64(len(parsed.Claims))
	summary.RowsRejected = parsed.RowsRejected
	summary.Warnings = parsed.Warnings
	summary.DurationParse = parsed.Duration

	// Phase 3: Compute
	computeStart := time.Now()
	asOf := cfg.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	summary.Metrics = metrics.ComputeReportAt(parsed.Claims, asOf)
	summary.DurationCompute = time.Since(computeStart)
	log.Info().
		Float64("denial_rate", summary.Metrics.DenialRate.OverallRate).
		Float64("days_in_ar", summary.Metrics.DaysInAR.OverallAvgDays).
		Float64("clean_claim_rate", summary.Metrics.CleanClaimRate.OverallRate).
		Float64("collection_rate", summary.Metrics.CollectionRate.OverallRate).
		Int("anomalies", len(summary.Metrics.Anomalies)).
		Dur("duration", summary.DurationCompute).
		Msg("metrics computed")

	// Phase 4: Narrate
	story, err := narrative.Generate(ctx, log, deps.Narrator, summary.Metrics)
	if err != nil {
		return nil, &PipelineError{Phase: PhaseNarrate, Err: err}
	}
	summary.ExecutiveSummary = story.Summary
	summary.Recommendations = story.Recommendations
	summary.UsedFallback = story.UsedFallback
	summary.DurationNarrate = story.Duration

	// Phase 5: Deliver
	if deps.Sender != nil {
		deliverStart := time.Now()
		if err := deliver(ctx, deps.Sender, cfg, summary); err != nil {
			summary.DeliveryErr = &PipelineError{Phase: PhaseDeliver, Err: err}
			log.Warn().Err(err).Msg("report delivery failed (non-fatal)")
		} else {
			summary.Delivered = true
		}
		summary.DurationDeliver = time.Since(deliverStart)
	}

	// Phase 6: Record aggregates
	if deps.Recorder != nil {
		if err := deps.Recorder.Record(ctx, summary, cfg.Email); err != nil {
			summary.RecordErr = &PipelineError{Phase: PhaseRecord, Err: err}
			log.Warn().Err(err).Msg("recording analysis failed (non-fatal)")
		} else {
			summary.Recorded = true
		}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("claims", summary.ClaimsParsed).
		Int64("rows_rejected", summary.RowsRejected).
		Bool("delivered", summary.Delivered).
		Bool("recorded", summary.Recorded).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("analysis pipeline complete")

	return summary, nil
}

func deliver(ctx context.Context, sender delivery.Sender, cfg *config.Config, summary *model.RunSummary) error {
	msg, err := delivery.Render(cfg.Email, delivery.Content{
		ExecutiveSummary: summary.ExecutiveSummary,
		Recommendations:  summary.Recommendations,
		Metrics:          summary.Metrics,
		ConsultationURL:  cfg.ConsultationURL,
	})
	if err != nil {
		return err
	}
	return sender.Send(ctx, msg)
}
