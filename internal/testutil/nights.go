package testutil

import (
	"time"

	"github.com/roach88/sleeplog/internal/sleep"
)

// ClosedNight returns a night starting at start, lasting d, rated q.
// The ID is zero; stores assign it on insert.
func ClosedNight(start time.Time, d time.Duration, q sleep.Quality) sleep.Night {
	return sleep.New(start).Close(start.Add(d)).Rate(q)
}

// Week returns seven closed nights, one per evening starting at first,
// with durations and ratings cycling through a fixed pattern. The result is
// in insertion order (oldest first).
func Week(first time.Time) []sleep.Night {
	durations := []time.Duration{
		7*time.Hour + 30*time.Minute,
		6 * time.Hour,
		8*time.Hour + 15*time.Minute,
		5*time.Hour + 45*time.Minute,
		7 * time.Hour,
		9 * time.Hour,
		6*time.Hour + 30*time.Minute,
	}
	qualities := []sleep.Quality{
		sleep.QualityOK,
		sleep.QualityPoor,
		sleep.QualityPrettyGood,
		sleep.QualityVeryBad,
		sleep.QualitySoSo,
		sleep.QualityExcellent,
		sleep.QualityOK,
	}

	nights := make([]sleep.Night, 0, len(durations))
	for i := range durations {
		start := first.AddDate(0, 0, i)
		nights = append(nights, ClosedNight(start, durations[i], qualities[i]))
	}
	return nights
}
