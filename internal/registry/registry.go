// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry holds the closed set of canonical team names used to
// recognize clubs in transfer text.
//
// A team is found in a text when its name occurs verbatim, ignoring case.
// When it does not, a declension-tolerant pass compares the name token by
// token with the words of the text, so that inflected forms such as
// "Legię Warszawa" or "z Rakowa Częstochowa" still resolve to the
// registered spelling. Only registered names are ever returned.
package registry

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Ekstraklasa is the built-in team list.
var Ekstraklasa = []string{
	"Legia Warszawa", "Lech Poznań", "Wisła Kraków", "Lechia Gdańsk",
	"Jagiellonia Białystok", "Cracovia", "Śląsk Wrocław", "Pogoń Szczecin",
	"Górnik Zabrze", "Raków Częstochowa", "Bruk-Bet Termalica Nieciecza",
	"Stal Mielec", "Warta Poznań", "Radomiak Radom", "Korona Kielce",
	"Wisła Płock", "ŁKS Łódź", "Zagłębie Lubin", "GKS Katowice",
}

// similarityThreshold is the minimum Jaro-Winkler score for two words to be
// treated as forms of the same word.
const similarityThreshold = 0.88

// maxSuffixEdit is how many trailing runes of a team token may differ from the
// text word. Polish case endings change at most the last two letters.
const maxSuffixEdit = 2

// minFuzzyLen is the shortest word, in runes, compared by similarity.
// Shorter words ("FC", "ŁKS") must match exactly.
const minFuzzyLen = 4

type team struct {
	name   string
	lower  string
	tokens []string // folded
}

// Registry is an immutable set of team names. The zero value is an empty
// registry.
type Registry struct {
	teams []team
}

// Match is one team found in a text. Start and End are byte offsets into
// strings.ToLower(text).
type Match struct {
	Team  string
	Start int
	End   int
	// Exact is false when the team was recognized through an inflected form.
	Exact bool
}

// New builds a registry from names. Blank names and case-insensitive
// duplicates are dropped; the first spelling wins.
func New(names []string) *Registry {
	seen := make(map[string]bool)
	r := &Registry{}
	for _, n := range names {
		n = strings.Join(strings.Fields(n), " ")
		if n == "" {
			continue
		}
		lower := strings.ToLower(n)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		tokens := strings.Fields(lower)
		for i := range tokens {
			tokens[i] = fold(tokens[i])
		}
		r.teams = append(r.teams, team{name: n, lower: lower, tokens: tokens})
	}
	sort.Slice(r.teams, func(i, j int) bool { return r.teams[i].name < r.teams[j].name })
	return r
}

// Default returns a registry of the built-in Ekstraklasa teams.
func Default() *Registry {
	return New(Ekstraklasa)
}

// Len returns the number of teams.
func (r *Registry) Len() int {
	return len(r.teams)
}

// Names returns the registered names in lexicographic order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.teams))
	for i, t := range r.teams {
		out[i] = t.name
	}
	return out
}

// Canonical returns the registered spelling of name, compared
// case-insensitively.
func (r *Registry) Canonical(name string) (string, bool) {
	lower := strings.ToLower(strings.Join(strings.Fields(name), " "))
	for _, t := range r.teams {
		if t.lower == lower {
			return t.name, true
		}
	}
	return "", false
}

// Contains reports whether name is registered, ignoring case.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Canonical(name)
	return ok
}

// FindAll returns the teams occurring in text, at most one match per team,
// ordered by position. Overlapping matches are resolved in favor of the
// leftmost, then the longest one, so the result does not depend on the
// order teams were registered in.
func (r *Registry) FindAll(text string) []Match {
	lower := strings.ToLower(text)
	var words []word
	var candidates []Match

	for _, t := range r.teams {
		if i := strings.Index(lower, t.lower); i >= 0 {
			candidates = append(candidates, Match{Team: t.name, Start: i, End: i + len(t.lower), Exact: true})
			continue
		}
		if words == nil {
			words = splitWords(lower)
		}
		if m, ok := t.fuzzyFind(words); ok {
			candidates = append(candidates, m)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if la, lb := a.End-a.Start, b.End-b.Start; la != lb {
			return la > lb
		}
		return a.Team < b.Team
	})

	var out []Match
	end := -1
	for _, m := range candidates {
		if m.Start < end {
			continue
		}
		out = append(out, m)
		end = m.End
	}
	return out
}

// word is a run of letters, digits or hyphens in lower-cased text.
type word struct {
	folded     string
	start, end int
}

func splitWords(lower string) []word {
	var out []word
	start := -1
	for i, r := range lower {
		inWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
		switch {
		case inWord && start < 0:
			start = i
		case !inWord && start >= 0:
			out = append(out, word{folded: fold(lower[start:i]), start: start, end: i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, word{folded: fold(lower[start:]), start: start, end: len(lower)})
	}
	return out
}

func (t team) fuzzyFind(words []word) (Match, bool) {
	n := len(t.tokens)
	for i := 0; i+n <= len(words); i++ {
		ok := true
		for j, tok := range t.tokens {
			if !similar(tok, words[i+j].folded) {
				ok = false
				break
			}
		}
		if ok {
			return Match{Team: t.name, Start: words[i].start, End: words[i+n-1].end}, true
		}
	}
	return Match{}, false
}

// similar compares a folded team token with a folded text word.
func similar(tok, w string) bool {
	if tok == w {
		return true
	}
	if utf8.RuneCountInString(tok) < minFuzzyLen || utf8.RuneCountInString(w) < minFuzzyLen {
		return false
	}
	if commonPrefix(tok, w) < utf8.RuneCountInString(tok)-maxSuffixEdit {
		return false
	}
	return matchr.JaroWinkler(tok, w, false) >= similarityThreshold
}

// commonPrefix returns the number of leading runes a and b share.
func commonPrefix(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

// fold strips combining marks so that "raków" and "rakowa" share a stem.
// Letters without a decomposition, such as "ł", are kept.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
