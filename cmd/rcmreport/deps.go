package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimstats/internal/db"
	"github.com/gyeh/claimstats/internal/delivery"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/ingest"
	"github.com/gyeh/claimstats/internal/narrative"
)

var narratorCmd string

// buildDeps wires the narrator, sender and store from flags. The returned
// store is nil without a DSN. cleanup releases the pool.
func buildDeps(ctx context.Context, log zerolog.Logger, mail bool) (deps ingest.Deps, store *db.Store, cleanup func()) {
	cleanup = func() {}

	if narratorCmd != "" {
		gen, err := narrative.ParseCommand(narratorCmd)
		if err != nil {
			log.Error().Err(err).Msg("invalid --narrator-cmd")
			os.Exit(exitcode.UsageError)
		}
		deps.Narrator = gen
	}

	deps.Sender = chooseSender(log, mail)

	if cfg.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		store = db.NewStore(pool, log)
		deps.Recorder = store
		cleanup = pool.Close
	}
	return deps, store, cleanup
}

// chooseSender picks where the report goes: a directory when --out is set,
// SMTP when configured, otherwise a logging no-op. Nothing is sent when
// there is neither a directory nor a recipient.
func chooseSender(log zerolog.Logger, mail bool) delivery.Sender {
	switch {
	case cfg.OutDir != "":
		return delivery.DirSender{Dir: cfg.OutDir}
	case !mail:
		return nil
	case cfg.DeliveryConfigured():
		return delivery.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	default:
		return delivery.NopSender{Log: log}
	}
}
