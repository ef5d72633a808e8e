// Package config loads sleeplog settings from a YAML file and the
// environment, and validates them against an embedded CUE schema.
//
// Precedence, lowest first: defaults, config file, environment, flags.
// Flags are applied by the CLI after Load.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sleeplog/internal/store"
)

//go:embed schema.cue
var schemaCUE string

// Delivery modes for observer snapshots.
const (
	DeliveryAsync = "async"
	DeliverySync  = "sync"
)

// Environment variables read by ApplyEnv. They match the env tags on Config.
const (
	EnvDatabase     = "SLEEPLOG_DB"
	EnvLogLevel     = "SLEEPLOG_LOG_LEVEL"
	EnvDelivery     = "SLEEPLOG_DELIVERY"
	EnvPollInterval = "SLEEPLOG_POLL_INTERVAL"
)

// Config holds sleeplog settings.
type Config struct {
	// Database is the SQLite file path, or ":memory:".
	Database string `yaml:"database" json:"database" env:"SLEEPLOG_DB"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" env:"SLEEPLOG_LOG_LEVEL"`

	// Delivery selects how observers are notified: async or sync.
	Delivery string `yaml:"delivery" json:"delivery" env:"SLEEPLOG_DELIVERY"`

	// PollInterval is a Go duration ("2s"); "0" disables polling for
	// changes made by other processes.
	PollInterval string `yaml:"poll_interval" json:"poll_interval" env:"SLEEPLOG_POLL_INTERVAL"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:     "sleeplog.db",
		LogLevel:     "info",
		Delivery:     DeliveryAsync,
		PollInterval: "0",
	}
}

// ValidationError lists every schema violation found in a config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Load reads the YAML file at path over the defaults, applies the
// environment, and validates the result. An empty path skips the file.
//
// Unknown keys in the file are rejected (catches typos like "databse:").
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnv(nil); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from the SLEEPLOG_* variables in environ, or in
// the process environment when environ is nil. Empty variables are ignored.
func (c *Config) ApplyEnv(environ map[string]string) error {
	if err := env.ParseWithOptions(c, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.Delivery = strings.ToLower(c.Delivery)
	return nil
}

// Validate checks c against the #Config schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		ve := &ValidationError{}
		for _, e := range cueerrors.Errors(err) {
			ve.Problems = append(ve.Problems, e.Error())
		}
		return ve
	}

	// The schema only checks the shape; ParseDuration has the last word.
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return &ValidationError{Problems: []string{fmt.Sprintf("poll_interval: %v", err)}}
	}
	return nil
}

// Poll returns PollInterval as a duration. Invalid values read as 0.
func (c Config) Poll() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0
	}
	return d
}

// SlogLevel maps LogLevel to a slog.Level. Unknown levels read as info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreOptions translates the config into store options.
func (c Config) StoreOptions(logger *slog.Logger) []store.Option {
	opts := []store.Option{store.WithLogger(logger)}
	if c.Delivery == DeliverySync {
		opts = append(opts, store.WithSyncDelivery())
	}
	if d := c.Poll(); d > 0 {
		opts = append(opts, store.WithPollInterval(d))
	}
	return opts
}
