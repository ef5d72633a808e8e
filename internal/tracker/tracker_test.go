package tracker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sleeplog/internal/sleep"
	"github.com/roach88/sleeplog/internal/store"
	"github.com/roach88/sleeplog/internal/testutil"
)

var bedtime = time.Date(2026, 5, 1, 22, 15, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, *store.Store, *testutil.FakeClock) {
	t.Helper()
	st, err := store.OpenMemory(store.WithSyncDelivery())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewFakeClock(bedtime)
	tr := New(st,
		WithClock(clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	return tr, st, clock
}

func TestStartStopRate_RoundTrip(t *testing.T) {
	tr, st, clock := newTestTracker(t)
	ctx := context.Background()

	started, err := tr.Start(ctx)
	require.NoError(t, err)
	assert.NotZero(t, started.ID)
	assert.True(t, started.IsOpen())
	assert.Equal(t, bedtime, started.StartTime())

	tonight, tracking, err := tr.Tonight(ctx)
	require.NoError(t, err)
	require.True(t, tracking)
	assert.Equal(t, started, tonight)

	clock.Advance(7*time.Hour + 50*time.Minute)
	stopped, err := tr.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, started.ID, stopped.ID)
	assert.False(t, stopped.IsOpen())
	assert.Equal(t, "7 hours, 50 minutes", stopped.HoursSummary())

	rated, err := tr.Rate(ctx, stopped.ID, sleep.QualityPrettyGood)
	require.NoError(t, err)
	assert.Equal(t, sleep.QualityPrettyGood, rated.Quality)

	stored, found, err := st.Get(ctx, started.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rated, stored)

	_, tracking, err = tr.Tonight(ctx)
	require.NoError(t, err)
	assert.False(t, tracking)
}

func TestStart_AlreadyTracking(t *testing.T) {
	tr, st, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Start(ctx)
	require.NoError(t, err)

	_, err = tr.Start(ctx)
	assert.ErrorIs(t, err, ErrAlreadyTracking)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStart_AfterStop(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	ctx := context.Background()

	first, err := tr.Start(ctx)
	require.NoError(t, err)
	clock.Advance(8 * time.Hour)
	_, err = tr.Stop(ctx)
	require.NoError(t, err)

	clock.Advance(16 * time.Hour)
	second, err := tr.Start(ctx)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestStop_NotTracking(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Stop(ctx)
	assert.ErrorIs(t, err, ErrNotTracking)

	_, err = tr.Start(ctx)
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = tr.Stop(ctx)
	require.NoError(t, err)

	_, err = tr.Stop(ctx)
	assert.ErrorIs(t, err, ErrNotTracking)
}

func TestStop_ClockDidNotMove(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()

	started, err := tr.Start(ctx)
	require.NoError(t, err)

	stopped, err := tr.Stop(ctx)
	require.NoError(t, err)
	assert.False(t, stopped.IsOpen(), "a stopped night must not read as open")
	assert.Equal(t, started.StartTimeMilli+1, stopped.EndTimeMilli)
}

func TestRate_InvalidQuality(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()

	night, err := tr.Start(ctx)
	require.NoError(t, err)

	for _, q := range []sleep.Quality{sleep.QualityUnrated, 6, 100} {
		_, err := tr.Rate(ctx, night.ID, q)
		assert.ErrorIs(t, err, ErrInvalidQuality, "quality %d", q)
	}
}

func TestRate_NotFound(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	_, err := tr.Rate(context.Background(), 404, sleep.QualityOK)
	assert.ErrorIs(t, err, ErrNightNotFound)
}

func TestRateLatest(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.RateLatest(ctx, sleep.QualityOK)
	assert.ErrorIs(t, err, ErrNightNotFound)

	night, err := tr.Start(ctx)
	require.NoError(t, err)

	rated, err := tr.RateLatest(ctx, sleep.QualitySoSo)
	require.NoError(t, err)
	assert.Equal(t, night.ID, rated.ID)
	assert.Equal(t, sleep.QualitySoSo, rated.Quality)
	assert.True(t, rated.IsOpen(), "rating must not close the night")
}

func TestClear(t *testing.T) {
	tr, st, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tr.Start(ctx)
	require.NoError(t, err)
	require.NoError(t, tr.Clear(ctx))

	_, found, err := st.GetLatest(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTracker_ObserversSeeWorkflow(t *testing.T) {
	tr, st, clock := newTestTracker(t)
	ctx := context.Background()

	sub, err := st.Observe(ctx)
	require.NoError(t, err)
	defer sub.Close()

	_, err = tr.Start(ctx)
	require.NoError(t, err)
	require.Len(t, sub.Latest().Nights, 1)
	assert.True(t, sub.Latest().Nights[0].IsOpen())

	clock.Advance(6 * time.Hour)
	_, err = tr.Stop(ctx)
	require.NoError(t, err)
	assert.False(t, sub.Latest().Nights[0].IsOpen())
}

func TestTracker_StoreErrorsPropagate(t *testing.T) {
	tr, st, _ := newTestTracker(t)
	require.NoError(t, st.Close())

	_, err := tr.Start(context.Background())
	assert.True(t, errors.Is(err, store.ErrClosed), "got %v", err)
}
