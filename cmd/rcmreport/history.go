package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/exitcode"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses recorded for an email",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&cfg.Email, "email", "", "Recipient email (required)")
	f.IntVar(&historyLimit, "limit", 10, "Maximum analyses to list")
	_ = historyCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	if err := cfg.ValidateDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	rows, err := db.NewStore(pool, log).RecentAnalyses(ctx, cfg.Email, historyLimit)
	if err != nil {
		log.Error().Err(err).Msg("history query failed")
		os.Exit(exitcode.DBConnError)
	}
	if len(rows) == 0 {
		fmt.Printf("No analyses recorded for %s\n", cfg.Email)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFILE\tCLAIMS\tDENIAL%\tDAYS A/R\tCLEAN%\tCOLLECTION%")
	for _, h := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\t%.1f\n",
			h.CreatedAt.Format("2006-01-02 15:04"), h.SourceFileName, h.ClaimCount,
			h.DenialRate, h.DaysInAR, h.CleanClaimRate, h.CollectionRate)
	}
	return tw.Flush()
}
