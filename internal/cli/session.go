package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sleeplog/internal/config"
	"github.com/roach88/sleeplog/internal/store"
	"github.com/roach88/sleeplog/internal/tracker"
)

// session is everything one command invocation needs: resolved config,
// logger, open store and a tracker over it.
type session struct {
	cfg     config.Config
	logger  *slog.Logger
	out     *OutputFormatter
	store   *store.Store
	tracker *tracker.Tracker
	clock   tracker.Clock
	loc     *time.Location
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// openSession resolves config (file, then environment, then flags), sets up
// logging and opens the store. Each override runs on the resolved config
// before the store is opened.
//
// Failures are reported through the formatter; the returned error is an
// *ExitError ready to hand back to cobra.
func openSession(cmd *cobra.Command, opts *RootOptions, overrides ...func(*config.Config)) (*session, error) {
	out := newFormatter(cmd, opts)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		var details interface{}
		var validationErr *config.ValidationError
		if errors.As(err, &validationErr) {
			details = validationErr.Problems
		}
		_ = out.Error(ErrCodeConfig, fmt.Sprintf("invalid configuration: %v", err), details)
		return nil, WrapExitError(ExitCommandError, ErrCodeConfig+": invalid configuration", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	for _, override := range overrides {
		override(&cfg)
	}

	// Setup logging
	logLevel := cfg.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	logger.Debug("opening database", "path", cfg.Database, "delivery", cfg.Delivery, "poll_interval", cfg.PollInterval)
	st, err := store.Open(cfg.Database, cfg.StoreOptions(logger)...)
	if err != nil {
		return nil, out.Fail("failed to open database", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = tracker.SystemClock{}
	}
	loc := time.Local
	if opts.UTC {
		loc = time.UTC
	}

	return &session{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		store:   st,
		tracker: tracker.New(st, tracker.WithClock(clock), tracker.WithLogger(logger)),
		clock:   clock,
		loc:     loc,
	}, nil
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// cutoff returns the start of the window covering the last days days,
// or the zero time when days is not positive.
func (s *session) cutoff(days int) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return s.clock.Now().AddDate(0, 0, -days)
}
