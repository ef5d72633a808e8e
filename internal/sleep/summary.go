package sleep

import (
	"fmt"
	"time"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyHours   = "%d hours"
	keyMinutes = "%d minutes"
	keySummary = "%s, %s"
	keyOpen    = "in progress"
)

var summaryCatalog = newSummaryCatalog()

// newSummaryCatalog panics if a message fails to register; the messages are
// fixed, so that is a programming error.
func newSummaryCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("sleep: summary catalog: %v", err))
		}
	}
	must(b.Set(language.English, keyHours,
		plural.Selectf(1, "%d", "=1", "1 hour", "other", "%d hours")))
	must(b.Set(language.English, keyMinutes,
		plural.Selectf(1, "%d", "=1", "1 minute", "other", "%d minutes")))
	must(b.SetString(language.English, keySummary, "%s, %s"))
	must(b.SetString(language.English, keyOpen, "in progress"))
	return b
}

// HoursSummary describes how long the night lasted, e.g. "7 hours, 30 minutes".
// Open nights read "in progress". Seconds are truncated.
func (n Night) HoursSummary() string {
	return n.HoursSummaryIn(language.English)
}

// HoursSummaryIn is HoursSummary for a specific language. Languages without
// catalog entries fall back to English.
func (n Night) HoursSummaryIn(tag language.Tag) string {
	p := message.NewPrinter(tag, message.Catalog(summaryCatalog))
	if n.IsOpen() {
		return p.Sprintf(keyOpen)
	}
	return durationSummary(p, n.Duration())
}

// DurationSummary formats d like HoursSummary does for a closed night.
// Negative durations read as zero.
func DurationSummary(d time.Duration) string {
	return durationSummary(message.NewPrinter(language.English, message.Catalog(summaryCatalog)), d)
}

func durationSummary(p *message.Printer, d time.Duration) string {
	d = max(d, 0).Truncate(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return p.Sprintf(keySummary, p.Sprintf(keyHours, hours), p.Sprintf(keyMinutes, minutes))
}
