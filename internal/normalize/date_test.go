// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func fixedClock() DateNormalizer {
	return DateNormalizer{Now: func() time.Time {
		return time.Date(2025, time.January, 15, 18, 30, 0, 0, time.UTC)
	}}
}

func TestDateNormalize(t *testing.T) {
	n := fixedClock()
	tests := []struct {
		name    string
		in      string
		want    string
		matched bool
	}{
		{"canonical is a no-op", "2025-01-12", "2025-01-12", true},
		{"dotted four-digit year", "12.01.2025", "2025-01-12", true},
		{"dotted two-digit year", "12.01.25", "2025-01-12", true},
		{"single digits", "3.2.2025", "2025-02-03", true},
		{"slashes", "12/01/2025", "2025-01-12", true},
		{"slashes two-digit year", "12/01/25", "2025-01-12", true},
		{"dashes", "12-01-2025", "2025-01-12", true},
		{"dashes two-digit year", "12-01-25", "2025-01-12", true},
		{"surrounding space", "  08.01.2025 \n", "2025-01-08", true},
		{"date inside a sentence", "Ogłoszono 08.01.2025, o 12:00", "2025-01-08", true},
		{"today polish", "Dzisiaj, 14:05", "2025-01-15", true},
		{"today english", "today", "2025-01-15", true},
		{"yesterday polish", "wczoraj 21:10", "2025-01-14", true},
		{"yesterday english", "Yesterday", "2025-01-14", true},
		{"day before yesterday", "przedwczoraj", "2025-01-13", true},
		{"impossible date", "31.02.2025", "2025-01-15", false},
		{"garbage", "kiedyś zimą", "2025-01-15", false},
		{"empty", "", "2025-01-15", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, matched := n.NormalizeDetailed(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
			assert.Equal(t, got, n.Normalize(tt.in))
		})
	}
}

func TestDateNormalizeAlwaysCanonical(t *testing.T) {
	var n DateNormalizer
	for _, in := range []string{"", "x", "99.99.9999", "2025-13-01", "jutro", "1.1.1970"} {
		assert.Regexp(t, canonicalDate, n.Normalize(in), "input %q", in)
	}
}

func TestDateNormalizeIdempotent(t *testing.T) {
	n := fixedClock()
	for _, in := range []string{"12.01.25", "wczoraj", "nonsense"} {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once))
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-01-12")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("12.01.2025")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}
