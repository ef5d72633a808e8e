package sleep

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

var bedtime = time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)

func TestNew_OpenAndUnrated(t *testing.T) {
	n := New(bedtime)

	assert.Zero(t, n.ID)
	assert.Equal(t, bedtime.UnixMilli(), n.StartTimeMilli)
	assert.Equal(t, n.StartTimeMilli, n.EndTimeMilli)
	assert.Equal(t, QualityUnrated, n.Quality)
	assert.True(t, n.IsOpen())
	assert.Equal(t, time.Duration(0), n.Duration())
}

func TestNight_CloseAndRate(t *testing.T) {
	open := New(bedtime)
	closed := open.Close(bedtime.Add(7*time.Hour + 45*time.Minute)).Rate(QualityPrettyGood)

	assert.True(t, open.IsOpen(), "Close must not mutate the receiver")
	assert.False(t, closed.IsOpen())
	assert.Equal(t, 7*time.Hour+45*time.Minute, closed.Duration())
	assert.Equal(t, QualityPrettyGood, closed.Quality)
	assert.Equal(t, bedtime, closed.StartTime())
	assert.Equal(t, bedtime.Add(7*time.Hour+45*time.Minute), closed.EndTime())
}

func TestNight_DurationNeverNegative(t *testing.T) {
	n := New(bedtime).Close(bedtime.Add(-time.Hour))
	assert.Equal(t, time.Duration(0), n.Duration())
}

func TestNight_JSONTags(t *testing.T) {
	n := Night{ID: 7, StartTimeMilli: 1000, EndTimeMilli: 2000, Quality: QualityOK}

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"night_id":7,"start_time_milli":1000,"end_time_milli":2000,"quality_rating":3}`, string(data))
}

func TestHoursSummary(t *testing.T) {
	tests := []struct {
		name string
		dur  time.Duration
		want string
	}{
		{"open", 0, "in progress"},
		{"minutes only", 45 * time.Minute, "0 hours, 45 minutes"},
		{"singular", time.Hour + time.Minute, "1 hour, 1 minute"},
		{"typical", 7*time.Hour + 30*time.Minute, "7 hours, 30 minutes"},
		{"seconds truncated", 8*time.Hour + 59*time.Second, "8 hours, 0 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(bedtime).Close(bedtime.Add(tt.dur))
			assert.Equal(t, tt.want, n.HoursSummary())
		})
	}
}

func TestHoursSummaryIn_FallsBackToEnglish(t *testing.T) {
	n := New(bedtime).Close(bedtime.Add(2 * time.Hour))
	assert.Equal(t, "2 hours, 0 minutes", n.HoursSummaryIn(language.French))
}

func TestDurationSummary(t *testing.T) {
	assert.Equal(t, "50 hours, 0 minutes", DurationSummary(50*time.Hour))
	assert.Equal(t, "1 hour, 1 minute", DurationSummary(time.Hour+time.Minute+59*time.Second))
	assert.Equal(t, "0 hours, 0 minutes", DurationSummary(-time.Hour))
}

func TestSummaryCatalog_Builds(t *testing.T) {
	require.NotPanics(t, func() { newSummaryCatalog() })

	tags := newSummaryCatalog().Languages()
	assert.Contains(t, tags, language.English)
}
