package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sleeplog/internal/sleep"
)

const selectNight = `
	SELECT night_id, start_time_milli, end_time_milli, quality_rating
	FROM daily_sleep_quality
`

// Get returns the night with the given id.
// found is false (with a nil error) when no such night exists.
func (s *Store) Get(ctx context.Context, id int64) (n sleep.Night, found bool, err error) {
	err = s.readLocked(func() error {
		row := s.db.QueryRowContext(ctx, selectNight+`WHERE night_id = ?`, id)
		n, found, err = scanOptionalNight(row)
		return opErr(ctx, "get", err)
	})
	return n, found, err
}

// GetLatest returns the most recently inserted night (the highest id).
// found is false (with a nil error) when the store is empty.
//
// Callers use it to resume a night that is still being tracked.
func (s *Store) GetLatest(ctx context.Context) (n sleep.Night, found bool, err error) {
	err = s.readLocked(func() error {
		row := s.db.QueryRowContext(ctx, selectNight+`ORDER BY night_id DESC LIMIT 1`)
		n, found, err = scanOptionalNight(row)
		return opErr(ctx, "get latest", err)
	})
	return n, found, err
}

// List returns every night, newest first.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) List(ctx context.Context) ([]sleep.Night, error) {
	var nights []sleep.Night
	err := s.readLocked(func() error {
		var err error
		nights, err = s.listNights(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return nights, nil
}

// Count returns the number of nights.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.readLocked(func() error {
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_sleep_quality`).Scan(&count)
		return opErr(ctx, "count", err)
	})
	return count, err
}

// listNights reads all rows ordered by night_id DESC. Caller holds mu.
func (s *Store) listNights(ctx context.Context) ([]sleep.Night, error) {
	rows, err := s.db.QueryContext(ctx, selectNight+`ORDER BY night_id DESC`)
	if err != nil {
		return nil, opErr(ctx, "list", err)
	}
	defer rows.Close()

	nights := []sleep.Night{}
	for rows.Next() {
		n, err := scanNight(rows)
		if err != nil {
			return nil, opErr(ctx, "list", err)
		}
		nights = append(nights, n)
	}

	if err := rows.Err(); err != nil {
		return nil, opErr(ctx, "list", fmt.Errorf("iterate nights: %w", err))
	}

	return nights, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNight(row scanner) (sleep.Night, error) {
	var (
		n       sleep.Night
		quality int
	)
	if err := row.Scan(&n.ID, &n.StartTimeMilli, &n.EndTimeMilli, &quality); err != nil {
		return sleep.Night{}, fmt.Errorf("scan night: %w", err)
	}
	n.Quality = sleep.Quality(quality)
	return n, nil
}

// scanOptionalNight maps sql.ErrNoRows to found=false.
func scanOptionalNight(row *sql.Row) (sleep.Night, bool, error) {
	n, err := scanNight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return sleep.Night{}, false, nil
	}
	if err != nil {
		return sleep.Night{}, false, err
	}
	return n, true, nil
}
