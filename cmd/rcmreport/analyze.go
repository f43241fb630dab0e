package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/model"
)

var asOf string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute metrics for a claims file and deliver the report",
	RunE:  runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to .xlsx or .parquet claims file (required)")
	f.StringVar(&cfg.Email, "email", "", "Report recipient")
	f.StringVar(&cfg.OutDir, "out", "", "Write report.txt, report.html and metrics.json here instead of mailing")
	f.StringVar(&asOf, "as-of", "", "Evaluation date for pending claim aging (YYYY-MM-DD, default today)")
	f.BoolVar(&cfg.JSON, "json", false, "Print the metrics JSON to stdout")
	_ = analyzeCmd.MarkFlagRequired("file")
	addDeliveryFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateEmail(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			log.Error().Err(err).Str("as_of", asOf).Msg("invalid --as-of")
			os.Exit(exitcode.UsageError)
		}
		cfg.AsOf = t
	}

	deps, _, cleanup := buildDeps(ctx, log, cfg.Email != "")
	defer cleanup()

	summary, err := ingest.Run(ctx, log, &cfg, deps)
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("analysis failed")
			switch pe.Phase {
			case ingest.PhasePreflight, ingest.PhaseParse:
				os.Exit(exitcode.ValidationError)
			default:
				os.Exit(exitcode.ComputeError)
			}
		}
		log.Error().Err(err).Msg("analysis failed")
		os.Exit(exitcode.ComputeError)
	}

	if cfg.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary.Metrics); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	} else {
		printSummary(summary)
	}

	switch {
	case summary.DeliveryErr != nil && cfg.OutDir != "":
		// --out was the only requested output.
		os.Exit(exitcode.DeliveryError)
	case summary.Partial():
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printSummary(s *model.RunSummary) {
	m := s.Metrics
	fmt.Printf("Analysis %s complete: %d claims (%d rows skipped, %.1fs)\n",
		s.AnalysisID, s.ClaimsParsed, s.RowsRejected, s.DurationTotal.Seconds())
	fmt.Printf("  Date range:       %s to %s\n", m.Summary.DateRange.Start, m.Summary.DateRange.End)
	fmt.Printf("  Denial rate:      %.1f%%\n", m.DenialRate.OverallRate)
	fmt.Printf("  Days in A/R:      %.1f\n", m.DaysInAR.OverallAvgDays)
	fmt.Printf("  Clean claim rate: %.1f%%\n", m.CleanClaimRate.OverallRate)
	fmt.Printf("  Collection rate:  %.1f%%\n", m.CollectionRate.OverallRate)
	fmt.Printf("  Anomalies:        %d\n", len(m.Anomalies))
	for _, a := range m.Anomalies {
		fmt.Printf("    [%s] %s\n", a.Severity, a.Description)
	}
	if s.Delivered {
		fmt.Println("Report delivered.")
	}
	if s.Recorded {
		fmt.Println("Aggregates recorded.")
	}
}
