package store

import (
	"log/slog"
	"time"
)

type options struct {
	syncDelivery bool
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Store at Open.
type Option func(*options)

// WithSyncDelivery delivers observer snapshots on the mutating goroutine,
// before Insert, Update or Clear returns. Tests use it for deterministic
// ordering; the default hands snapshots to a dispatcher goroutine instead.
func WithSyncDelivery() Option {
	return func(o *options) {
		o.syncDelivery = true
	}
}

// WithPollInterval makes the store check PRAGMA data_version every d and
// refresh observers when another connection (usually another process) has
// committed. Zero disables polling.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithLogger sets the logger for subscription and dispatch events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
