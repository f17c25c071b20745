// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"
	"unicode"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Side is the end of a transfer a team is attributed to.
type Side int

const (
	SideFrom Side = iota
	SideTo
)

// Position tells where a context phrase must appear relative to a team name.
type Position int

const (
	// Before means the phrase immediately precedes the team ("do Lech Poznań").
	Before Position = iota
	// After means the phrase immediately follows the team ("Lech Poznań signs").
	After
)

// DirectionRule assigns Direction when any of its keywords occurs in the text.
type DirectionRule struct {
	Direction types.Direction
	Keywords  []string
}

// ContextRule attributes a team to a side when Phrase is adjacent to it.
type ContextRule struct {
	Phrase   string
	Position Position
	Side     Side
}

// Rules holds every keyword table the extractor consults. All matching is
// case-insensitive and on whole words.
type Rules struct {
	// StopWords are skipped when looking for the player name.
	StopWords []string

	// Direction is evaluated in order; the first rule with a matching
	// keyword wins.
	Direction []DirectionRule

	// Context is evaluated in order for every team found.
	Context []ContextRule
}

// DefaultRules covers Polish and English transfer headlines.
var DefaultRules = Rules{
	StopWords: []string{
		"transfer", "do", "z", "ze", "w", "na", "dołącza", "opuszcza", "przenosi",
		"oficjalnie", "official", "to", "from", "joins", "leaves", "signs", "the",
	},
	Direction: []DirectionRule{
		{
			Direction: types.DirectionOut,
			Keywords: []string{
				"opuszcza", "odchodzi", "sprzedany", "wypożyczony", "żegna się", "transfer do",
				"leaves", "sold", "loaned out", "departs",
			},
		},
		{
			Direction: types.DirectionIn,
			Keywords: []string{
				"dołącza", "podpisuje", "przychodzi", "zatrudnia", "transfer z", "nowym zawodnikiem",
				"joins", "signs", "new arrival",
			},
		},
	},
	Context: []ContextRule{
		{Phrase: "przenosi się do", Position: Before, Side: SideTo},
		{Phrase: "dołącza do", Position: Before, Side: SideTo},
		{Phrase: "trafia do", Position: Before, Side: SideTo},
		{Phrase: "odchodzi z", Position: Before, Side: SideFrom},
		{Phrase: "do", Position: Before, Side: SideTo},
		{Phrase: "to", Position: Before, Side: SideTo},
		{Phrase: "joins", Position: Before, Side: SideTo},
		{Phrase: "z", Position: Before, Side: SideFrom},
		{Phrase: "ze", Position: Before, Side: SideFrom},
		{Phrase: "from", Position: Before, Side: SideFrom},
		{Phrase: "opuszcza", Position: Before, Side: SideFrom},
		{Phrase: "leaves", Position: Before, Side: SideFrom},
		{Phrase: "dołącza", Position: After, Side: SideTo},
		{Phrase: "signs", Position: After, Side: SideTo},
		{Phrase: "podpisuje", Position: After, Side: SideTo},
		{Phrase: "zatrudnia", Position: After, Side: SideTo},
		{Phrase: "pozyskuje", Position: After, Side: SideTo},
		{Phrase: "opuszcza", Position: After, Side: SideFrom},
		{Phrase: "sprzedany", Position: After, Side: SideFrom},
		{Phrase: "sprzedaje", Position: After, Side: SideFrom},
		{Phrase: "sells", Position: After, Side: SideFrom},
		{Phrase: "departs", Position: After, Side: SideFrom},
	},
}

// words splits lower-cased text into words: runs of letters, digits and
// hyphens.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-')
	})
}

// containsPhrase reports whether phrase occurs as a run of whole words in ws.
func containsPhrase(ws, phrase []string) bool {
	if len(phrase) == 0 {
		return false
	}
	for i := 0; i+len(phrase) <= len(ws); i++ {
		if equalWords(ws[i:i+len(phrase)], phrase) {
			return true
		}
	}
	return false
}

func hasPrefixWords(ws, phrase []string) bool {
	return len(phrase) > 0 && len(ws) >= len(phrase) && equalWords(ws[:len(phrase)], phrase)
}

func hasSuffixWords(ws, phrase []string) bool {
	return len(phrase) > 0 && len(ws) >= len(phrase) && equalWords(ws[len(ws)-len(phrase):], phrase)
}

func equalWords(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
