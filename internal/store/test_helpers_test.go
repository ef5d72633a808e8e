package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/sleeplog/internal/sleep"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createMemoryStore creates a new in-memory store for testing.
func createMemoryStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := OpenMemory(opts...)
	if err != nil {
		t.Fatalf("OpenMemory() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testNight creates an open, unrated night starting at startMilli.
func testNight(startMilli int64) sleep.Night {
	return sleep.New(time.UnixMilli(startMilli))
}

// waitFor reads snapshots from sub until match accepts one, or fails the
// test after two seconds.
func waitFor(t *testing.T, sub *Subscription, match func(Snapshot) bool) Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap, ok := <-sub.C():
			if !ok {
				t.Fatalf("subscription closed while waiting: %v", sub.Err())
			}
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting for snapshot; latest has %d nights", len(sub.Latest().Nights))
		}
	}
}

// waitClosed waits for sub's channel to close.
func waitClosed(t *testing.T, sub *Subscription) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-sub.C():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for subscription to close")
		}
	}
}

func ids(nights []sleep.Night) []int64 {
	out := make([]int64, len(nights))
	for i, n := range nights {
		out[i] = n.ID
	}
	return out
}
