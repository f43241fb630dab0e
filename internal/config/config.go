package config

import (
	"fmt"
	"net/mail"
	"os"
	"time"

	"github.com/gyeh/claimstats/internal/model"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither flags nor the config file set a value.
const (
	DefaultMinClaims = 10
	DefaultMaxFileMB = 10
)

// SMTP holds outbound mail settings. Host empty means delivery is not configured.
type SMTP struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"-"`
	From     string `yaml:"from"`
}

// Config holds all runtime configuration for an rcmreport run.
type Config struct {
	DSN        string
	FilePath   string
	ConfigPath string
	Email      string
	OutDir     string // when set, the report is written here instead of mailed
	LogFormat  string // "text" or "json"
	LogLevel   string
	AsOf       time.Time // zero means now
	JSON       bool      // print metrics JSON to stdout
	Addr       string    // serve listen address

	ConsultationURL string
	SMTP            SMTP

	MinClaims     int
	MaxFileMB     int
	ColumnAliases map[string][]string // canonical column -> extra header spellings
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	MinClaims       int                 `yaml:"min_claims"`
	MaxFileMB       int                 `yaml:"max_file_mb"`
	ColumnAliases   map[string][]string `yaml:"column_aliases"`
	ConsultationURL string              `yaml:"consultation_url"`
	SMTP            *SMTP               `yaml:"smtp"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set by flags are kept for SMTP and the consultation URL.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.MinClaims = yc.MinClaims
	c.MaxFileMB = yc.MaxFileMB
	c.ColumnAliases = yc.ColumnAliases
	if c.ConsultationURL == "" {
		c.ConsultationURL = yc.ConsultationURL
	}
	if yc.SMTP != nil && c.SMTP.Host == "" {
		pw := c.SMTP.Password
		c.SMTP = *yc.SMTP
		c.SMTP.Password = pw
	}
	if err := c.validateAliases(); err != nil {
		return err
	}
	c.ApplyDefaults()
	return nil
}

// ApplyDefaults fills unset limits.
func (c *Config) ApplyDefaults() {
	if c.MinClaims <= 0 {
		c.MinClaims = DefaultMinClaims
	}
	if c.MaxFileMB <= 0 {
		c.MaxFileMB = DefaultMaxFileMB
	}
	if c.SMTP.Host != "" && c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
}

// MaxFileBytes returns the upload size limit in bytes.
func (c *Config) MaxFileBytes() int64 {
	mb := c.MaxFileMB
	if mb <= 0 {
		mb = DefaultMaxFileMB
	}
	return int64(mb) << 20
}

// validateAliases checks that every alias key is a known canonical column.
func (c *Config) validateAliases() error {
	for name, aliases := range c.ColumnAliases {
		if _, ok := model.ColumnByName(name); !ok {
			return fmt.Errorf("unknown column %q in column_aliases", name)
		}
		for _, a := range aliases {
			if a == "" {
				return fmt.Errorf("empty alias for column %q", name)
			}
		}
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// ValidateDSN checks that a database connection string is set.
func (c *Config) ValidateDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or RCM_DB_URL is required")
	}
	return nil
}

// ValidateEmail checks the recipient address when one is given.
func (c *Config) ValidateEmail() error {
	if c.Email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return fmt.Errorf("invalid email address %q", c.Email)
	}
	return nil
}

// DeliveryConfigured reports whether SMTP settings are present.
func (c *Config) DeliveryConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.From != ""
}
