package main

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimstats/internal/config"
	"github.com/gyeh/claimstats/internal/exitcode"
	"github.com/gyeh/claimstats/internal/logging"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "rcmreport",
	Short:        "Claims export → RCM metrics, anomalies and report",
	Long:         "Reads a practice's claims export (.xlsx or .parquet), computes revenue-cycle metrics and anomalies, and delivers a narrative report.",
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("RCM_DB_URL"), "Postgres connection string (or set RCM_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML config (column aliases, limits, smtp)")
}

// addDeliveryFlags registers the SMTP and report flags shared by analyze and serve.
func addDeliveryFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	port, _ := strconv.Atoi(os.Getenv("RCM_SMTP_PORT"))
	f.StringVar(&cfg.SMTP.Host, "smtp-host", os.Getenv("RCM_SMTP_HOST"), "SMTP host (or set RCM_SMTP_HOST)")
	f.IntVar(&cfg.SMTP.Port, "smtp-port", port, "SMTP port (or set RCM_SMTP_PORT, default 587)")
	f.StringVar(&cfg.SMTP.Username, "smtp-user", os.Getenv("RCM_SMTP_USER"), "SMTP username (or set RCM_SMTP_USER)")
	f.StringVar(&cfg.SMTP.From, "smtp-from", os.Getenv("RCM_SMTP_FROM"), "Sender address (or set RCM_SMTP_FROM)")
	f.StringVar(&cfg.ConsultationURL, "consultation-url", os.Getenv("RCM_CONSULTATION_URL"), "Booking link placed in the report")
	f.StringVar(&narratorCmd, "narrator-cmd", os.Getenv("RCM_NARRATOR_CMD"), "Command that turns a prompt on stdin into text (default: rule-based narrative)")
	cfg.SMTP.Password = os.Getenv("RCM_SMTP_PASSWORD")
}

// setup builds the logger and merges the config file. It exits on a bad
// config file.
func setup() zerolog.Logger {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	if cfg.ConfigPath != "" {
		if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
			log.Error().Err(err).Str("config", cfg.ConfigPath).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	} else {
		cfg.ApplyDefaults()
	}
	return log
}
