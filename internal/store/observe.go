package store

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/sleeplog/internal/sleep"
)

// Snapshot is the full list of nights at one point in time, newest first.
type Snapshot struct {
	// Version increases with every mutation that changed the table.
	Version uint64

	Nights []sleep.Night
}

// Subscription is one observer of the store's night list.
//
// C delivers snapshots. The channel holds only the newest one: a reader that
// falls behind skips intermediate states but never sees a snapshot older than
// one it already received. C is closed when the subscription ends; Err then
// tells why.
type Subscription struct {
	id    string
	store *Store
	ch    chan Snapshot

	mu        sync.Mutex
	latest    Snapshot
	delivered bool
	ended     bool
	err       error
	stopCtx   func() bool
}

// Observe attaches a new subscriber. The current snapshot is already
// buffered in C when Observe returns.
//
// Cancelling ctx detaches the subscriber, as does Close.
func (s *Store) Observe(ctx context.Context) (*Subscription, error) {
	sub := &Subscription{
		id:    uuid.Must(uuid.NewV7()).String(),
		store: s,
		ch:    make(chan Snapshot, 1),
	}

	s.subsMu.Lock()
	s.subs[sub] = struct{}{}
	s.subsMu.Unlock()

	snap, err := s.snapshot(ctx)
	if err != nil {
		s.detach(sub)
		sub.end(err)
		return nil, err
	}
	sub.deliver(snap)

	sub.mu.Lock()
	if !sub.ended {
		sub.stopCtx = context.AfterFunc(ctx, sub.Close)
	}
	sub.mu.Unlock()

	s.logger.Debug("subscription attached", "subscription", sub.id, "version", snap.Version, "nights", len(snap.Nights))
	return sub, nil
}

// ID identifies the subscription in logs.
func (sub *Subscription) ID() string {
	return sub.id
}

// C returns the snapshot channel.
func (sub *Subscription) C() <-chan Snapshot {
	return sub.ch
}

// Latest returns the newest snapshot delivered so far.
func (sub *Subscription) Latest() Snapshot {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return Snapshot{Version: sub.latest.Version, Nights: slices.Clone(sub.latest.Nights)}
}

// Err returns why the subscription ended: ErrClosed when the store closed,
// a *StorageError when a snapshot could not be loaded, nil after Close or
// while still active.
func (sub *Subscription) Err() error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	return sub.err
}

// Close detaches the subscriber and closes C. It is safe to call more than
// once and after the store has closed.
func (sub *Subscription) Close() {
	sub.store.detach(sub)
	if sub.end(nil) {
		sub.store.logger.Debug("subscription detached", "subscription", sub.id)
	}
}

// deliver replaces any buffered snapshot with snap, unless snap is not newer
// than what the subscriber already has.
func (sub *Subscription) deliver(snap Snapshot) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.ended || (sub.delivered && snap.Version <= sub.latest.Version) {
		return
	}
	sub.latest = snap
	sub.delivered = true

	select {
	case <-sub.ch:
	default:
	}
	// Only deliver sends, and it holds mu: the slot just drained is free.
	select {
	case sub.ch <- Snapshot{Version: snap.Version, Nights: slices.Clone(snap.Nights)}:
	default:
	}
}

// end closes the channel with err as the terminal cause.
// Returns false if the subscription had already ended.
func (sub *Subscription) end(err error) bool {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if sub.ended {
		return false
	}
	sub.ended = true
	sub.err = err
	close(sub.ch)
	if sub.stopCtx != nil {
		sub.stopCtx()
	}
	return true
}

func (s *Store) detach(sub *Subscription) {
	s.subsMu.Lock()
	delete(s.subs, sub)
	s.subsMu.Unlock()
}

// broadcast hands snap to every attached subscriber. Never blocks on readers.
func (s *Store) broadcast(snap Snapshot) {
	s.subsMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.deliver(snap)
	}
}

// endSubscriptions detaches every subscriber and ends it with err.
func (s *Store) endSubscriptions(err error) {
	s.subsMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	clear(s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.end(err)
	}
}

// snapshot loads the current version and rows together.
func (s *Store) snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.readLocked(func() error {
		var err error
		snap, err = s.loadSnapshot(ctx)
		return err
	})
	return snap, err
}

// loadSnapshot reads the rows at the current version. Caller holds mu.
func (s *Store) loadSnapshot(ctx context.Context) (Snapshot, error) {
	nights, err := s.listNights(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Version: s.version, Nights: nights}, nil
}

// wake schedules a dispatcher refresh (non-blocking; a pending wake-up
// already covers this mutation).
func (s *Store) wake() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// dispatch is the dispatcher goroutine: it refreshes observers after local
// mutations and, when polling is enabled, after commits from other
// connections.
//
// lastDataVersion is the data_version read at Open, or -1 when unknown.
func (s *Store) dispatch(lastDataVersion int64) {
	defer s.wg.Done()

	var tick <-chan time.Time
	if s.opts.pollInterval > 0 {
		ticker := time.NewTicker(s.opts.pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-s.done:
			return
		case <-s.signal:
			s.refresh()
		case <-tick:
			dv, err := s.dataVersion()
			if err != nil {
				if !errors.Is(err, ErrClosed) {
					s.logger.Warn("data_version poll failed", "error", err)
				}
				continue
			}
			if lastDataVersion >= 0 && dv != lastDataVersion {
				s.markExternalChange()
				s.refresh()
			}
			lastDataVersion = dv
		}
	}
}

// refresh loads a snapshot and broadcasts it. A failed load ends every
// subscription with the storage error.
func (s *Store) refresh() {
	snap, err := s.snapshot(context.Background())
	if err != nil {
		if errors.Is(err, ErrClosed) {
			return
		}
		s.logger.Warn("snapshot load failed", "error", err)
		s.endSubscriptions(err)
		return
	}
	s.broadcast(snap)
}

// dataVersion reads PRAGMA data_version, which changes when another
// connection commits to the same database file.
func (s *Store) dataVersion() (int64, error) {
	var dv int64
	err := s.readLocked(func() error {
		err := s.db.QueryRow("PRAGMA data_version").Scan(&dv)
		return storageErr("data version", err)
	})
	return dv, err
}

// markExternalChange bumps the version for a commit made outside this store.
func (s *Store) markExternalChange() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}
