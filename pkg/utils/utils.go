package utils

import (
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/kozaktomas/diacritics"
)

// FoldDiacritics removes diacritics from the string
// The original string is returned when removal fails.
func FoldDiacritics(s string) string {
	folded, err := diacritics.Remove(s)
	if err != nil {
		return s
	}

	return folded
}

// NormalizeText removes diacritics, collapses whitespace and converts to lowercase
// Used for search comparison of location names.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(FoldDiacritics(s)), " "))
}

// FormatDuration formats duration in a human readable way, e.g. "2 minutes 5 seconds"
func FormatDuration(d time.Duration) string {
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

func GetOkJSON() []byte {
	return []byte(`{"is_ok":true}`)
}
