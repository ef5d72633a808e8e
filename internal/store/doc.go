// Package store provides SQLite-backed durable storage for the sleep log.
//
// The store keeps a single table of nights and exposes:
//   - Insert, Update, Get, GetLatest, List, Count, Clear
//   - Observe: a live, multi-subscriber view of every night, newest first
//
// # Rules
//
// Identity
//   - night_id is INTEGER PRIMARY KEY AUTOINCREMENT; ids are never reused,
//     not even after Clear
//   - Insert always assigns the id; a caller-supplied Night.ID is ignored
//
// Missing rows are not errors
//   - Get and GetLatest report absence through their bool result
//   - Update of an unknown id affects zero rows and returns nil
//
// Ordering
//   - List and every Snapshot are ORDER BY night_id DESC
//
// Writers
//   - Insert, Update and Clear are serialized by one write lock
//   - Every mutation that changes the table bumps the snapshot version
//
// # Observers
//
// Observe registers a Subscription and delivers the current snapshot before
// returning. Later snapshots are pushed after each table-changing mutation:
// by a dispatcher goroutine by default, or inline before the mutating call
// returns when the store is opened WithSyncDelivery. Each subscriber channel
// holds only the newest snapshot, so slow readers see coalesced updates and
// never block writers.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Opening two stores over the same file in one process is the caller's
// problem to avoid; the store owns its medium exclusively.
package store
