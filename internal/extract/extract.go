// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract derives the player name, transfer direction and team
// attribution from transfer headlines and article text.
//
// Extraction is heuristic and never fails: when no rule is decisive the
// result carries the sentinel values from package types. All keyword tables
// live in Rules so that the matching code stays independent of language.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/transfer-desk/internal/registry"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Fields are the values extracted from one text.
type Fields struct {
	PlayerName string
	Direction  types.Direction
	FromTeam   string
	ToTeam     string
}

type directionRule struct {
	direction types.Direction
	keywords  [][]string
}

type contextRule struct {
	phrase   []string
	position Position
	side     Side
}

// Extractor applies a Rules table and a team registry. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	registry  *registry.Registry
	stopWords map[string]bool
	direction []directionRule
	context   []contextRule
}

// New returns an Extractor using DefaultRules.
func New(reg *registry.Registry) *Extractor {
	return NewWithRules(reg, DefaultRules)
}

// NewWithRules returns an Extractor using rules. A nil registry matches no
// teams.
func NewWithRules(reg *registry.Registry, rules Rules) *Extractor {
	if reg == nil {
		reg = registry.New(nil)
	}
	e := &Extractor{
		registry:  reg,
		stopWords: make(map[string]bool, len(rules.StopWords)),
	}
	for _, w := range rules.StopWords {
		e.stopWords[strings.ToLower(w)] = true
	}
	for _, r := range rules.Direction {
		dr := directionRule{direction: r.Direction}
		for _, k := range r.Keywords {
			dr.keywords = append(dr.keywords, words(k))
		}
		e.direction = append(e.direction, dr)
	}
	for _, r := range rules.Context {
		e.context = append(e.context, contextRule{phrase: words(r.Phrase), position: r.Position, side: r.Side})
	}
	return e
}

// Registry returns the team registry the extractor matches against.
func (e *Extractor) Registry() *registry.Registry {
	return e.registry
}

// Extract runs all three extractions over the same text.
func (e *Extractor) Extract(text string) Fields {
	return e.ExtractParts(text, text)
}

// ExtractParts reads the player name from headline and the direction and
// teams from text.
func (e *Extractor) ExtractParts(headline, text string) Fields {
	dir := e.Direction(text)
	from, to := e.Teams(text, dir)
	return Fields{
		PlayerName: e.PlayerName(headline),
		Direction:  dir,
		FromTeam:   from,
		ToTeam:     to,
	}
}

// PlayerName returns the first capitalized word longer than two letters that
// is not a stop word, joined with the next word when that one is capitalized
// too. It returns types.UnknownPlayer when there is no such word.
func (e *Extractor) PlayerName(text string) string {
	tokens := strings.Fields(text)
	for i, tok := range tokens {
		word := trimPunct(tok)
		if e.stopWords[strings.ToLower(word)] || !isNameWord(word) {
			continue
		}
		if endsSentence(tok) || i+1 >= len(tokens) {
			return word
		}
		if next := trimPunct(tokens[i+1]); isNameWord(next) {
			return word + " " + next
		}
		return word
	}
	return types.UnknownPlayer
}

// Direction returns the direction of the first rule with a keyword in text,
// or types.DirectionIn.
func (e *Extractor) Direction(text string) types.Direction {
	ws := words(text)
	for _, r := range e.direction {
		for _, k := range r.keywords {
			if containsPhrase(ws, k) {
				return r.direction
			}
		}
	}
	return types.DirectionIn
}

// Teams attributes registered teams found in text to the origin and
// destination of a transfer in dir. Teams with a context phrase next to them
// are placed first, left to right. Remaining teams then take the side implied
// by dir, or the other side when that one is taken. Each side keeps the first
// team assigned to it. Unresolved sides are types.UnknownTeam.
func (e *Extractor) Teams(text string, dir types.Direction) (from, to string) {
	lower := strings.ToLower(text)
	var (
		sides     [2]string
		unphrased []string
	)

	for _, m := range e.registry.FindAll(text) {
		side, phrased := e.contextSide(lower[:m.Start], lower[m.End:])
		if !phrased {
			unphrased = append(unphrased, m.Team)
			continue
		}
		if sides[side] == "" {
			sides[side] = m.Team
		}
	}

	def := SideTo
	if dir == types.DirectionOut {
		def = SideFrom
	}
	for _, team := range unphrased {
		if team == sides[SideFrom] || team == sides[SideTo] {
			continue
		}
		switch {
		case sides[def] == "":
			sides[def] = team
		case sides[1-def] == "":
			sides[1-def] = team
		}
	}

	from, to = sides[SideFrom], sides[SideTo]
	if from == "" {
		from = types.UnknownTeam
	}
	if to == "" {
		to = types.UnknownTeam
	}
	return from, to
}

func (e *Extractor) contextSide(before, after string) (Side, bool) {
	bw, aw := words(before), words(after)
	for _, r := range e.context {
		switch r.position {
		case Before:
			if hasSuffixWords(bw, r.phrase) {
				return r.side, true
			}
		case After:
			if hasPrefixWords(aw, r.phrase) {
				return r.side, true
			}
		}
	}
	return SideTo, false
}

func isNameWord(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r) && utf8.RuneCountInString(w) > 2
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) && r != '-' && r != '\''
	})
}

// endsSentence reports whether tok carries punctuation that closes a name,
// as in "Urbański:" or "Carlos,".
func endsSentence(tok string) bool {
	r, _ := utf8.DecodeLastRuneInString(tok)
	switch r {
	case '.', ',', ':', ';', '!', '?', ')':
		return true
	}
	return false
}
