package sleep

import "time"

// Night is one tracked night of sleep.
type Night struct {
	ID             int64   `json:"night_id"`
	StartTimeMilli int64   `json:"start_time_milli"`
	EndTimeMilli   int64   `json:"end_time_milli"`
	Quality        Quality `json:"quality_rating"`
}

// New returns an open, unrated night starting at now.
// The ID is left at zero; the store assigns it on insert.
func New(now time.Time) Night {
	ms := now.UnixMilli()
	return Night{
		StartTimeMilli: ms,
		EndTimeMilli:   ms,
		Quality:        QualityUnrated,
	}
}

// IsOpen reports whether the night is still being tracked.
func (n Night) IsOpen() bool {
	return n.EndTimeMilli == n.StartTimeMilli
}

// StartTime returns the start as a time.Time in UTC.
func (n Night) StartTime() time.Time {
	return time.UnixMilli(n.StartTimeMilli).UTC()
}

// EndTime returns the end as a time.Time in UTC.
func (n Night) EndTime() time.Time {
	return time.UnixMilli(n.EndTimeMilli).UTC()
}

// Duration returns how long the night lasted. Open nights report 0.
// An end before the start (clock skew) also reports 0.
func (n Night) Duration() time.Duration {
	d := time.Duration(n.EndTimeMilli-n.StartTimeMilli) * time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}

// Close returns a copy of n ending at end.
func (n Night) Close(end time.Time) Night {
	n.EndTimeMilli = end.UnixMilli()
	return n
}

// Rate returns a copy of n with quality q.
func (n Night) Rate(q Quality) Night {
	n.Quality = q
	return n
}
