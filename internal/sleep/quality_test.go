package sleep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuality_Valid(t *testing.T) {
	assert.False(t, QualityUnrated.Valid())
	assert.False(t, Quality(6).Valid())
	for q := QualityVeryBad; q <= QualityExcellent; q++ {
		assert.True(t, q.Valid(), "quality %d", q)
	}
}

func TestQuality_String(t *testing.T) {
	assert.Equal(t, "Not rated", QualityUnrated.String())
	assert.Equal(t, "Very bad", QualityVeryBad.String())
	assert.Equal(t, "So-so", QualitySoSo.String())
	assert.Equal(t, "Excellent", QualityExcellent.String())
	assert.Equal(t, "Quality(9)", Quality(9).String())
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in   string
		want Quality
	}{
		{"0", QualityVeryBad},
		{" 3 ", QualityOK},
		{"5", QualityExcellent},
		{"pretty good", QualityPrettyGood},
		{"SO-SO", QualitySoSo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuality(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuality_Rejects(t *testing.T) {
	for _, in := range []string{"-1", "6", "", "not rated", "great"} {
		t.Run(in, func(t *testing.T) {
			got, err := ParseQuality(in)
			assert.Error(t, err)
			assert.Equal(t, QualityUnrated, got)
		})
	}
}
