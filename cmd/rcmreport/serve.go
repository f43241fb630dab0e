package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/server"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the upload and subscribe API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", ":8080", "Listen address")
	addDeliveryFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Every upload names its own recipient.
	deps, store, cleanup := buildDeps(ctx, log, true)
	defer cleanup()

	analyze := func(ctx context.Context, c *config.Config) (*model.RunSummary, error) {
		return ingest.Run(ctx, log, c, deps)
	}
	var subs server.SubscriberStore
	if store != nil {
		subs = store
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.New(log, cfg, analyze, subs).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("smtp", cfg.DeliveryConfigured()).Bool("storage", store != nil).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(exitcode.UsageError)
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
	return nil
}
