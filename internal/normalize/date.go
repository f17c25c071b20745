// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize turns free-form date and fee text into the canonical
// values stored on a Transfer. Both normalizers are driven by ordered rule
// tables and never fail: text that matches nothing degrades to a defined
// fallback.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// dateLayouts are tried in order against the whole trimmed input, then
// against each word of it. Single-digit day and month fields accept one or
// two digits.
var dateLayouts = []string{
	"2.1.2006", "2.1.06",
	"2/1/2006", "2/1/06",
	"2-1-2006", "2-1-06",
	types.DateLayout,
}

// RelativeDay maps a keyword to a day offset from the current date.
type RelativeDay struct {
	Keyword string
	Offset  int
}

// relativeDays is scanned in order; longer keywords that contain shorter ones
// ("przedwczoraj" contains "wczoraj") come first.
var relativeDays = []RelativeDay{
	{"przedwczoraj", -2},
	{"day before yesterday", -2},
	{"wczoraj", -1},
	{"yesterday", -1},
	{"dzisiaj", 0},
	{"dziś", 0},
	{"today", 0},
}

// DateNormalizer converts date text into YYYY-MM-DD.
type DateNormalizer struct {
	// Now returns the current time. Nil uses time.Now.
	Now func() time.Time
}

func (n DateNormalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// Normalize returns text as a canonical date, falling back to today.
func (n DateNormalizer) Normalize(text string) string {
	date, _ := n.NormalizeDetailed(text)
	return date
}

// NormalizeDetailed is Normalize that also reports whether the text
// determined the date. It is false when the fallback was used.
func (n DateNormalizer) NormalizeDetailed(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	now := n.now()

	if trimmed != "" {
		if date, ok := parseLayouts(trimmed); ok {
			return date, true
		}
		for _, f := range strings.Fields(trimmed) {
			if date, ok := parseLayouts(strings.TrimFunc(f, notDigit)); ok {
				return date, true
			}
		}

		lower := strings.ToLower(trimmed)
		for _, rd := range relativeDays {
			if strings.Contains(lower, rd.Keyword) {
				return now.AddDate(0, 0, rd.Offset).Format(types.DateLayout), true
			}
		}
	}

	return now.Format(types.DateLayout), false
}

func parseLayouts(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(types.DateLayout), true
		}
	}
	return "", false
}

func notDigit(r rune) bool { return !unicode.IsDigit(r) }

// ParseDate parses a canonical date. It reports false for anything else,
// which lets callers treat corrupt stored dates as unknown.
func ParseDate(date string) (time.Time, bool) {
	t, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
