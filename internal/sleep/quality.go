package sleep

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is a sleep quality rating on a 0..5 scale.
type Quality int

const (
	// QualityUnrated marks a night nobody has rated yet.
	QualityUnrated Quality = -1

	QualityVeryBad    Quality = 0
	QualityPoor       Quality = 1
	QualitySoSo       Quality = 2
	QualityOK         Quality = 3
	QualityPrettyGood Quality = 4
	QualityExcellent  Quality = 5
)

var qualityLabels = map[Quality]string{
	QualityUnrated:    "Not rated",
	QualityVeryBad:    "Very bad",
	QualityPoor:       "Poor",
	QualitySoSo:       "So-so",
	QualityOK:         "OK",
	QualityPrettyGood: "Pretty good",
	QualityExcellent:  "Excellent",
}

// Valid reports whether q is a real rating (not the unrated sentinel).
func (q Quality) Valid() bool {
	return q >= QualityVeryBad && q <= QualityExcellent
}

// String returns the human label, e.g. "Pretty good".
func (q Quality) String() string {
	if label, ok := qualityLabels[q]; ok {
		return label
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality accepts either the numeric rating ("4") or its label
// ("pretty good", case-insensitive). The unrated sentinel is rejected.
func ParseQuality(s string) (Quality, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		q := Quality(n)
		if !q.Valid() {
			return QualityUnrated, fmt.Errorf("quality %d out of range [%d,%d]", n, QualityVeryBad, QualityExcellent)
		}
		return q, nil
	}
	for q, label := range qualityLabels {
		if q.Valid() && strings.EqualFold(label, s) {
			return q, nil
		}
	}
	return QualityUnrated, fmt.Errorf("unknown quality %q", s)
}
