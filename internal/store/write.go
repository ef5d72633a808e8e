package store

import (
	"context"

	"github.com/roach88/sleeplog/internal/sleep"
)

// Insert adds a night and returns the id the store assigned to it.
// n.ID is ignored: ids always come from AUTOINCREMENT.
//
// Observers are notified of the new row.
func (s *Store) Insert(ctx context.Context, n sleep.Night) (int64, error) {
	var id int64
	err := s.mutate(ctx, func(ctx context.Context) (bool, error) {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO daily_sleep_quality
			(start_time_milli, end_time_milli, quality_rating)
			VALUES (?, ?, ?)
		`,
			n.StartTimeMilli,
			n.EndTimeMilli,
			int(n.Quality),
		)
		if err != nil {
			return false, opErr(ctx, "insert", err)
		}

		id, err = result.LastInsertId()
		if err != nil {
			return false, opErr(ctx, "insert: last insert id", err)
		}
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update replaces every field of the night with id n.ID.
//
// Updating an id that does not exist affects zero rows and returns nil; it
// never inserts. Observers are notified only when a row changed.
func (s *Store) Update(ctx context.Context, n sleep.Night) error {
	return s.mutate(ctx, func(ctx context.Context) (bool, error) {
		result, err := s.db.ExecContext(ctx, `
			UPDATE daily_sleep_quality
			SET start_time_milli = ?, end_time_milli = ?, quality_rating = ?
			WHERE night_id = ?
		`,
			n.StartTimeMilli,
			n.EndTimeMilli,
			int(n.Quality),
			n.ID,
		)
		if err != nil {
			return false, opErr(ctx, "update", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return false, opErr(ctx, "update: rows affected", err)
		}
		return rowsAffected > 0, nil
	})
}

// Clear deletes every night. Clearing an empty store is a no-op.
// Observers receive an empty snapshot when rows were removed.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context) (bool, error) {
		result, err := s.db.ExecContext(ctx, `DELETE FROM daily_sleep_quality`)
		if err != nil {
			return false, opErr(ctx, "clear", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return false, opErr(ctx, "clear: rows affected", err)
		}
		return rowsAffected > 0, nil
	})
}
