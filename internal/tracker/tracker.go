// Package tracker implements the sleep tracking workflow on top of a night
// store: start a night, stop it in the morning, rate it.
//
// The tracker keeps no state of its own. The night being tracked is always
// the store's latest night while that night is open, so a restarted process
// resumes where the previous one stopped.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/sleeplog/internal/sleep"
)

var (
	// ErrAlreadyTracking is returned by Start while the latest night is open.
	ErrAlreadyTracking = errors.New("tracker: a night is already being tracked")

	// ErrNotTracking is returned by Stop when no night is open.
	ErrNotTracking = errors.New("tracker: no night is being tracked")

	// ErrNightNotFound is returned by Rate for an unknown night id.
	ErrNightNotFound = errors.New("tracker: night not found")

	// ErrInvalidQuality is returned by Rate for a rating outside 0..5.
	ErrInvalidQuality = errors.New("tracker: invalid quality")
)

// NightStore is the persistence the tracker needs. *store.Store satisfies it.
type NightStore interface {
	Insert(ctx context.Context, n sleep.Night) (int64, error)
	Update(ctx context.Context, n sleep.Night) error
	Get(ctx context.Context, id int64) (sleep.Night, bool, error)
	GetLatest(ctx context.Context) (sleep.Night, bool, error)
	Clear(ctx context.Context) error
}

// Clock supplies wall time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Tracker runs the tracking workflow against a NightStore.
type Tracker struct {
	store  NightStore
	clock  Clock
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the system clock (for testing).
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithLogger sets the tracker's logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// New creates a tracker over store.
func New(store NightStore, opts ...Option) *Tracker {
	t := &Tracker{
		store:  store,
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tonight returns the night currently being tracked, if any.
func (t *Tracker) Tonight(ctx context.Context) (sleep.Night, bool, error) {
	latest, found, err := t.store.GetLatest(ctx)
	if err != nil {
		return sleep.Night{}, false, fmt.Errorf("tonight: %w", err)
	}
	if !found || !latest.IsOpen() {
		return sleep.Night{}, false, nil
	}
	return latest, true, nil
}

// Start opens a new night at the current time.
// Fails with ErrAlreadyTracking if a night is still open.
func (t *Tracker) Start(ctx context.Context) (sleep.Night, error) {
	open, tracking, err := t.Tonight(ctx)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("start: %w", err)
	}
	if tracking {
		return sleep.Night{}, fmt.Errorf("start: %w (night %d)", ErrAlreadyTracking, open.ID)
	}

	night := sleep.New(t.clock.Now())
	id, err := t.store.Insert(ctx, night)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("start: %w", err)
	}
	night.ID = id

	t.logger.Info("tracking started", "night", id, "start", night.StartTime())
	return night, nil
}

// Stop closes the open night at the current time.
// Fails with ErrNotTracking if no night is open.
//
// A clock that has not moved past the start (or moved backwards) still
// closes the night, one millisecond after it started.
func (t *Tracker) Stop(ctx context.Context) (sleep.Night, error) {
	night, tracking, err := t.Tonight(ctx)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("stop: %w", err)
	}
	if !tracking {
		return sleep.Night{}, fmt.Errorf("stop: %w", ErrNotTracking)
	}

	end := t.clock.Now()
	if end.UnixMilli() <= night.StartTimeMilli {
		end = night.StartTime().Add(time.Millisecond)
	}
	night = night.Close(end)

	if err := t.store.Update(ctx, night); err != nil {
		return sleep.Night{}, fmt.Errorf("stop: %w", err)
	}

	t.logger.Info("tracking stopped", "night", night.ID, "slept", night.Duration())
	return night, nil
}

// Rate sets the quality of night id.
func (t *Tracker) Rate(ctx context.Context, id int64, q sleep.Quality) (sleep.Night, error) {
	if !q.Valid() {
		return sleep.Night{}, fmt.Errorf("rate: %w: %d", ErrInvalidQuality, int(q))
	}

	night, found, err := t.store.Get(ctx, id)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("rate: %w", err)
	}
	if !found {
		return sleep.Night{}, fmt.Errorf("rate: %w: %d", ErrNightNotFound, id)
	}

	night = night.Rate(q)
	if err := t.store.Update(ctx, night); err != nil {
		return sleep.Night{}, fmt.Errorf("rate: %w", err)
	}

	t.logger.Info("night rated", "night", id, "quality", q.String())
	return night, nil
}

// RateLatest rates the most recent night, open or not.
func (t *Tracker) RateLatest(ctx context.Context, q sleep.Quality) (sleep.Night, error) {
	latest, found, err := t.store.GetLatest(ctx)
	if err != nil {
		return sleep.Night{}, fmt.Errorf("rate: %w", err)
	}
	if !found {
		return sleep.Night{}, fmt.Errorf("rate: %w: store is empty", ErrNightNotFound)
	}
	return t.Rate(ctx, latest.ID, q)
}

// Clear deletes every night.
func (t *Tracker) Clear(ctx context.Context) error {
	if err := t.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	t.logger.Info("all nights cleared")
	return nil
}
