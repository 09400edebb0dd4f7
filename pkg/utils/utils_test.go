package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Roma", "roma"},
		{"Forlì", "forli"},
		{"  Cefalù   (PA) ", "cefalu (pa)"},
		{"Previsioni per località", "previsioni per localita"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			assert.Equal(t, test.expected, NormalizeText(test.input))
		})
	}
}

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "Previsioni per localita", FoldDiacritics("Previsioni per località"))
	assert.Equal(t, "Roma (RM)", FoldDiacritics("Roma (RM)"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2 minutes 5 seconds", FormatDuration(125*time.Second+300*time.Millisecond))
	assert.Equal(t, "1 hour 1 minute", FormatDuration(time.Hour+time.Minute+time.Second))
}

func TestGetOkJson(t *testing.T) {
	got := GetOkJSON()
	assert.Contains(t, string(got), "ok")
}
