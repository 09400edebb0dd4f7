package meteoam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBlocked(t *testing.T) {
	assert.ErrorIs(t, CheckBlocked(5, []byte(blockedBody)), ErrBlockedRequest)

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"missing trailing newline", blockedBody[:len(blockedBody)-1]},
		{"extra whitespace", blockedBody + "\n"},
		{"location page", "<html><body><h1 class=\"page-header\">Previsioni Meteorologiche per Roma (RM)</h1></body></html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, CheckBlocked(5, []byte(tt.body)))
		})
	}
}

func TestCheckBlocked_ErrorMessage(t *testing.T) {
	err := CheckBlocked(321, []byte(blockedBody))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "321")
}

func TestCheckUnused(t *testing.T) {
	tests := []struct {
		name   string
		header string
		unused bool
	}{
		{"marker", `<h1 class="page-header">Previsioni per localita</h1>`, true},
		{"marker with accent", `<h1 class="page-header">Previsioni per località</h1>`, true},
		{"marker with entity", `<h1 class="page-header">Previsioni per localit&agrave;</h1>`, true},
		{"marker with whitespace", "<h1 class=\"page-header\">\n  Previsioni per localita\n</h1>", true},
		{"location", `<h1 class="page-header">Previsioni Meteorologiche per Roma (RM)</h1>`, false},
		{"marker in other heading", `<h1 class="title">Previsioni per localita</h1>`, false},
		{"no header", `<p>nothing</p>`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUnused(17, docWithHeader(t, tt.header))
			if tt.unused {
				assert.ErrorIs(t, err, ErrUnusedIdentifier)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
