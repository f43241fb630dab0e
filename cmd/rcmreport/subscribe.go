package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/exitcode"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Add or refresh a newsletter subscriber",
	RunE:  runSubscribe,
}

func init() {
	subscribeCmd.Flags().StringVar(&cfg.Email, "email", "", "Subscriber email (required)")
	_ = subscribeCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(subscribeCmd)
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx := context.Background()

	if err := cfg.ValidateEmail(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
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

	n, err := db.NewStore(pool, log).SaveSubscriber(ctx, cfg.Email, db.SourceSubscribe)
	if err != nil {
		log.Error().Err(err).Msg("subscribe failed")
		os.Exit(exitcode.DBConnError)
	}
	fmt.Printf("Subscribed %s (analysis count %d)\n", cfg.Email, n)
	return nil
}
