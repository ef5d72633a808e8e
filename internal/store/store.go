package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Empty database
// 1 - daily_sleep_quality table
const currentSchemaVersion = 1

// memoryPath is the sqlite3 DSN for a private in-memory database.
const memoryPath = ":memory:"

// Store is the sleep log. It owns one SQLite connection and the set of
// live subscriptions over it.
type Store struct {
	db     *sql.DB
	opts   options
	logger *slog.Logger

	// mu serializes mutations (Lock) against snapshot loads and reads (RLock),
	// so a snapshot's version always matches its rows.
	mu      sync.RWMutex
	closed  bool
	version uint64

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}

	// signal wakes the dispatcher (buffered, size 1; coalesces bursts).
	signal chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times on one path,
// as long as earlier stores were closed.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storageErr("open", fmt.Errorf("failed to open database: %w", err))
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storageErr("open", fmt.Errorf("failed to connect to database: %w", err))
	}

	// One connection: a single writer, and an in-memory database only lives
	// as long as the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, storageErr("open", fmt.Errorf("failed to apply pragmas: %w", err))
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, storageErr("open", fmt.Errorf("failed to apply schema: %w", err))
	}

	s := &Store{
		db:     db,
		opts:   buildOptions(opts),
		subs:   make(map[*Subscription]struct{}),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.logger = s.opts.logger.With("component", "store")

	if !s.opts.syncDelivery || s.opts.pollInterval > 0 {
		baseline := int64(-1)
		if s.opts.pollInterval > 0 {
			if dv, err := s.dataVersion(); err == nil {
				baseline = dv
			}
		}
		s.wg.Add(1)
		go s.dispatch(baseline)
	}

	s.logger.Debug("store opened", "path", path, "sync_delivery", s.opts.syncDelivery, "poll_interval", s.opts.pollInterval)
	return s, nil
}

// OpenMemory opens a store over a fresh in-memory database. Its contents
// disappear on Close.
func OpenMemory(opts ...Option) (*Store, error) {
	return Open(memoryPath, opts...)
}

// Close ends every subscription with ErrClosed, stops the dispatcher and
// closes the database. Operations after Close return ErrClosed.
// Calling Close more than once is safe.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()

	s.endSubscriptions(ErrClosed)

	if err := s.db.Close(); err != nil {
		return storageErr("close", err)
	}
	s.logger.Debug("store closed")
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table if it doesn't exist and records the
// schema version. This function is idempotent.
func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// readLocked runs fn under the read lock, failing with ErrClosed once the
// store is closed.
func (s *Store) readLocked(fn func() error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn()
}

// mutate runs fn under the write lock. fn reports whether the table changed;
// a change bumps the snapshot version and notifies observers.
func (s *Store) mutate(ctx context.Context, fn func(ctx context.Context) (changed bool, err error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}

	changed, err := fn(ctx)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.version++

	if !s.opts.syncDelivery {
		s.mu.Unlock()
		s.wake()
		return nil
	}

	// The mutation already committed; a cancelled caller must not keep
	// observers on a stale snapshot.
	snap, loadErr := s.loadSnapshot(context.WithoutCancel(ctx))
	s.mu.Unlock()

	if loadErr != nil {
		s.logger.Warn("snapshot load failed", "error", loadErr)
		s.endSubscriptions(loadErr)
		return nil
	}
	s.broadcast(snap)
	return nil
}
