package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/model"
)

const planWarningLimit = 10

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no compute, no delivery)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to .xlsx or .parquet claims file (required)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := setup()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pf, err := ingest.Preflight(log, cfg.FilePath, cfg.MaxFileBytes())
	if err != nil {
		log.Error().Err(err).Msg("preflight failed")
		os.Exit(exitcode.ValidationError)
	}

	parsed, err := ingest.Parse(log, pf, cfg.ColumnAliases)
	if err != nil && !errors.Is(err, ingest.ErrNoClaims) {
		log.Error().Err(err).Msg("parse failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== rcmreport plan ===")
	fmt.Printf("File:       %s\n", pf.FilePath)
	fmt.Printf("Format:     %s\n", pf.Format)
	fmt.Printf("SHA-256:    %s\n", pf.FileSHA256)
	fmt.Printf("Size:       %d bytes\n", pf.FileSize)
	fmt.Printf("Rows read:  %d\n", parsed.RowsRead)
	fmt.Printf("Claims:     %d\n", len(parsed.Claims))
	fmt.Printf("Skipped:    %d\n", parsed.RowsRejected)
	if start, end, ok := serviceRange(parsed.Claims); ok {
		fmt.Printf("Date range: %s to %s\n", start, end)
	}
	fmt.Println()
	fmt.Println("Column mapping:")
	for _, col := range model.AllColumns {
		if src, ok := parsed.Columns[col.Name]; ok {
			fmt.Printf("  %-16s ← %q\n", col.Name, src)
		} else if col.Required {
			fmt.Printf("  %-16s (missing)\n", col.Name)
		}
	}
	if len(parsed.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(parsed.Warnings))
		for i, w := range parsed.Warnings {
			if i == planWarningLimit {
				fmt.Printf("  ... %d more\n", len(parsed.Warnings)-planWarningLimit)
				break
			}
			fmt.Printf("  %s\n", w)
		}
	}

	minClaims := cfg.MinClaims
	if len(parsed.Claims) < minClaims {
		fmt.Printf("\nNot enough claims for analysis: found %d, need at least %d\n", len(parsed.Claims), minClaims)
		os.Exit(exitcode.ValidationError)
	}
	fmt.Println("\nValidation: OK")
	return nil
}

func serviceRange(claims []model.ClaimRecord) (string, string, bool) {
	if len(claims) == 0 {
		return "", "", false
	}
	dates := make([]string, len(claims))
	for i := range claims {
		dates[i] = claims[i].ServiceDate.Format("2006-01-02")
	}
	sort.Strings(dates)
	return dates[0], dates[len(dates)-1], true
}
