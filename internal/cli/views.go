package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/sleeplog/internal/sleep"
	"github.com/roach88/sleeplog/internal/store"
	"github.com/roach88/sleeplog/internal/tracker"
)

const timeLayout = "2006-01-02 15:04 MST"

// nightView is a night as the CLI prints it. The raw columns are kept for
// JSON consumers next to the formatted fields.
type nightView struct {
	ID             int64  `json:"night_id"`
	StartTimeMilli int64  `json:"start_time_milli"`
	EndTimeMilli   int64  `json:"end_time_milli"`
	Quality        int    `json:"quality_rating"`
	Start          string `json:"start"`
	End            string `json:"end,omitempty"`
	Open           bool   `json:"open"`
	Slept          string `json:"slept"`
	QualityLabel   string `json:"quality"`
}

func newNightView(n sleep.Night, loc *time.Location) nightView {
	v := nightView{
		ID:             n.ID,
		StartTimeMilli: n.StartTimeMilli,
		EndTimeMilli:   n.EndTimeMilli,
		Quality:        int(n.Quality),
		Start:          n.StartTime().In(loc).Format(timeLayout),
		Open:           n.IsOpen(),
		Slept:          n.HoursSummary(),
		QualityLabel:   n.Quality.String(),
	}
	if !v.Open {
		v.End = n.EndTime().In(loc).Format(timeLayout)
	}
	return v
}

func newNightViews(nights []sleep.Night, loc *time.Location) []nightView {
	views := make([]nightView, 0, len(nights))
	for _, n := range nights {
		views = append(views, newNightView(n, loc))
	}
	return views
}

// rating is the quality label with its number, "Not rated" alone.
func (v nightView) rating() string {
	if v.Quality == int(sleep.QualityUnrated) {
		return v.QualityLabel
	}
	return fmt.Sprintf("%s (%d)", v.QualityLabel, v.Quality)
}

func (v nightView) end() string {
	if v.Open {
		return "-"
	}
	return v.End
}

func (v nightView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Night #%d\n", v.ID)
	fmt.Fprintf(&b, "  Start:   %s\n", v.Start)
	fmt.Fprintf(&b, "  End:     %s\n", v.end())
	fmt.Fprintf(&b, "  Slept:   %s\n", v.Slept)
	fmt.Fprintf(&b, "  Quality: %s", v.rating())
	return b.String()
}

// actionView is the result of start, stop and rate.
type actionView struct {
	Message string    `json:"message"`
	Night   nightView `json:"night"`
}

func (v actionView) String() string {
	return v.Message + "\n" + v.Night.String()
}

// nightsView is the result of list.
type nightsView struct {
	Nights []nightView `json:"nights"`
}

func (v nightsView) String() string {
	if len(v.Nights) == 0 {
		return "No nights recorded."
	}

	var b strings.Builder
	row := func(id, start, end, slept, quality string) {
		fmt.Fprintf(&b, "%-4s  %-20s  %-20s  %-20s  %s\n", id, start, end, slept, quality)
	}
	row("ID", "START", "END", "SLEPT", "QUALITY")
	for _, n := range v.Nights {
		row(strconv.FormatInt(n.ID, 10), n.Start, n.end(), n.Slept, n.rating())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// messageView is a bare confirmation, e.g. after clear.
type messageView struct {
	Message string `json:"message"`
}

func (v messageView) String() string {
	return v.Message
}

// statsView is the result of stats.
type statsView struct {
	tracker.Summary
	Days int `json:"days,omitempty"`
}

func (v statsView) String() string {
	var b strings.Builder
	if v.Days > 0 {
		fmt.Fprintf(&b, "Last %d days\n", v.Days)
	}
	fmt.Fprintf(&b, "Nights:        %d (%d closed, %d open)\n", v.Nights, v.Closed, v.Open)
	if v.Rated > 0 {
		fmt.Fprintf(&b, "Rated:         %d, average quality %.2f\n", v.Rated, v.AverageQuality)
	} else {
		b.WriteString("Rated:         0\n")
	}
	fmt.Fprintf(&b, "Total sleep:   %s\n", sleep.DurationSummary(v.TotalSleep))
	fmt.Fprintf(&b, "Average sleep: %s\n", sleep.DurationSummary(v.AverageSleep))
	fmt.Fprintf(&b, "Longest sleep: %s", sleep.DurationSummary(v.LongestSleep))
	return b.String()
}

// snapshotView is one update printed by watch.
type snapshotView struct {
	Version uint64      `json:"version"`
	Nights  []nightView `json:"nights"`
}

func newSnapshotView(snap store.Snapshot, loc *time.Location) snapshotView {
	return snapshotView{Version: snap.Version, Nights: newNightViews(snap.Nights, loc)}
}

func (v snapshotView) String() string {
	if len(v.Nights) == 0 {
		return fmt.Sprintf("[%d] no nights", v.Version)
	}
	latest := v.Nights[0]
	noun := "nights"
	if len(v.Nights) == 1 {
		noun = "night"
	}
	return fmt.Sprintf("[%d] %d %s, latest #%d started %s: %s, %s",
		v.Version, len(v.Nights), noun, latest.ID, latest.Start, latest.Slept, latest.rating())
}
