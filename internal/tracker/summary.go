package tracker

import (
	"time"

	"github.com/roach88/sleeplog/internal/sleep"
)

// Summary aggregates a list of nights.
type Summary struct {
	Nights int `json:"nights"`
	Closed int `json:"closed"`
	Rated  int `json:"rated"`
	Open   int `json:"open"`

	// AverageQuality is over rated nights only; 0 when none are rated.
	AverageQuality float64 `json:"average_quality"`

	TotalSleep   time.Duration `json:"total_sleep_ns"`
	AverageSleep time.Duration `json:"average_sleep_ns"`
	LongestSleep time.Duration `json:"longest_sleep_ns"`
}

// Summarize computes a Summary. Open nights count toward Nights and Open
// but not toward sleep durations.
func Summarize(nights []sleep.Night) Summary {
	var (
		s            Summary
		totalQuality int
	)
	s.Nights = len(nights)

	for _, n := range nights {
		if n.IsOpen() {
			s.Open++
		} else {
			s.Closed++
			d := n.Duration()
			s.TotalSleep += d
			if d > s.LongestSleep {
				s.LongestSleep = d
			}
		}
		if n.Quality.Valid() {
			s.Rated++
			totalQuality += int(n.Quality)
		}
	}

	if s.Rated > 0 {
		s.AverageQuality = float64(totalQuality) / float64(s.Rated)
	}
	if s.Closed > 0 {
		s.AverageSleep = s.TotalSleep / time.Duration(s.Closed)
	}
	return s
}

// Since keeps the nights that started at or after cutoff.
func Since(nights []sleep.Night, cutoff time.Time) []sleep.Night {
	out := make([]sleep.Night, 0, len(nights))
	for _, n := range nights {
		if !n.StartTime().Before(cutoff) {
			out = append(out, n)
		}
	}
	return out
}
