// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record assembles Transfer records from raw text by combining the
// field extractor with the date and fee normalizers.
package record

import (
	"strings"

	"github.com/pdiddy/transfer-desk/internal/extract"
	"github.com/pdiddy/transfer-desk/internal/normalize"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Quality flags the fields of one record that fell back to a sentinel or a
// default.
type Quality struct {
	UnknownPlayer bool `json:"unknown_player,omitempty"`
	UnknownFrom   bool `json:"unknown_from,omitempty"`
	UnknownTo     bool `json:"unknown_to,omitempty"`
	UnknownFee    bool `json:"unknown_fee,omitempty"`
	FallbackDate  bool `json:"fallback_date,omitempty"`
}

// Complete reports whether no field fell back.
func (q Quality) Complete() bool {
	return q == Quality{}
}

// QualityCounts accumulates Quality flags over a batch.
type QualityCounts struct {
	UnknownPlayer int `json:"unknown_player"`
	UnknownFrom   int `json:"unknown_from"`
	UnknownTo     int `json:"unknown_to"`
	UnknownFee    int `json:"unknown_fee"`
	FallbackDate  int `json:"fallback_date"`
}

// Add counts the flags set in q.
func (c *QualityCounts) Add(q Quality) {
	c.UnknownPlayer += b2i(q.UnknownPlayer)
	c.UnknownFrom += b2i(q.UnknownFrom)
	c.UnknownTo += b2i(q.UnknownTo)
	c.UnknownFee += b2i(q.UnknownFee)
	c.FallbackDate += b2i(q.FallbackDate)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Outcome is the result of building one record.
type Outcome struct {
	Transfer types.Transfer
	Quality  Quality
}

// Builder turns RawText into Transfer records. Extractor is required; the
// zero normalizers use the built-in rule tables and the wall clock.
type Builder struct {
	Extractor *extract.Extractor
	Dates     normalize.DateNormalizer
	Fees      normalize.FeeNormalizer
}

// Build extracts and normalizes every field of raw. It never fails: fields
// that cannot be determined carry sentinel values and are flagged in the
// returned Quality. The record ID is left zero.
func (b Builder) Build(raw types.RawText) Outcome {
	headline := raw.Headline()
	text := raw.Text()
	f := b.Extractor.ExtractParts(headline, text)

	if home, ok := b.Extractor.Registry().Canonical(raw.HomeTeam); ok {
		switch {
		case f.Direction == types.DirectionIn && f.ToTeam == types.UnknownTeam && f.FromTeam != home:
			f.ToTeam = home
		case f.Direction == types.DirectionOut && f.FromTeam == types.UnknownTeam && f.ToTeam != home:
			f.FromTeam = home
		}
	}

	if f.Direction == types.DirectionIn && f.FromTeam == types.UnknownTeam && normalize.IsFreeAgent(text) {
		f.FromTeam = types.FreeAgent
	}

	date, ok := "", false
	if strings.TrimSpace(raw.DateHint) != "" {
		date, ok = b.Dates.NormalizeDetailed(raw.DateHint)
	}
	if !ok {
		date, ok = b.Dates.NormalizeDetailed(text)
	}

	fee := types.UnknownFee
	if strings.TrimSpace(raw.FeeHint) != "" {
		fee = b.Fees.Normalize(raw.FeeHint)
	}
	if fee == types.UnknownFee {
		fee = b.Fees.Normalize(text)
	}

	t := types.Transfer{
		PlayerName:   f.PlayerName,
		Direction:    f.Direction,
		FromTeam:     f.FromTeam,
		ToTeam:       f.ToTeam,
		TransferDate: date,
		Fee:          fee,
		Summary:      strings.Join(strings.Fields(headline), " "),
		SourceURL:    raw.SourceURL,
		SourceName:   raw.SourceName,
	}
	return Outcome{
		Transfer: t,
		Quality: Quality{
			UnknownPlayer: t.PlayerName == types.UnknownPlayer,
			UnknownFrom:   t.FromTeam == types.UnknownTeam,
			UnknownTo:     t.ToTeam == types.UnknownTeam,
			UnknownFee:    t.Fee == types.UnknownFee,
			FallbackDate:  !ok,
		},
	}
}

// BuildAll builds every item of batch in order.
func (b Builder) BuildAll(batch []types.RawText) []Outcome {
	out := make([]Outcome, 0, len(batch))
	for _, raw := range batch {
		out = append(out, b.Build(raw))
	}
	return out
}
