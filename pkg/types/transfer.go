// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the transfer-desk pipeline:
// the raw text handed over by fetchers, the Transfer record produced by the
// core, and the configuration of every stage.
package types

import "strings"

// Direction tells whether a transfer brings a player into or out of the
// tracked league.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

// ParseDirection maps user input ("in", "OUT", " out ") to a Direction.
// The boolean is false for anything else, including the empty string.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Sentinel values substituted when extraction cannot determine a field.
const (
	UnknownPlayer = "Unknown player"
	UnknownTeam   = "Unknown"
	FreeAgent     = "Free agent"
	UnknownFee    = "Unknown"
)

// Canonical fee outcomes besides matched amounts.
const (
	FeeFree = "Free transfer"
	FeeLoan = "Loan"
)

// DateLayout is the canonical calendar form of Transfer.TransferDate.
const DateLayout = "2006-01-02"

// Transfer is one structured player transfer. Field names in JSON are part of
// the persisted format and of the HTTP query surface.
type Transfer struct {
	// ID is the 1-based position within the collated batch. It is not stable
	// across runs.
	ID int `json:"id" yaml:"id"`

	// PlayerName is the extracted name or UnknownPlayer.
	PlayerName string `json:"playerName" yaml:"player_name"`

	// Direction is always DirectionIn or DirectionOut.
	Direction Direction `json:"direction" yaml:"direction"`

	// FromTeam is the originating club, UnknownTeam, or FreeAgent.
	FromTeam string `json:"fromTeam" yaml:"from_team"`

	// ToTeam is the destination club or UnknownTeam.
	ToTeam string `json:"toTeam" yaml:"to_team"`

	// TransferDate is a YYYY-MM-DD date.
	TransferDate string `json:"transferDate" yaml:"transfer_date"`

	// Fee is a matched amount ("3.5M €"), FeeFree, FeeLoan or UnknownFee.
	Fee string `json:"fee" yaml:"fee"`

	// Summary is the source snippet, whitespace-collapsed.
	Summary string `json:"summary" yaml:"summary"`

	SourceURL  string `json:"sourceUrl" yaml:"source_url"`
	SourceName string `json:"sourceName" yaml:"source_name"`
}

// Key returns the identity key used for deduplication: the case-folded player
// name joined with both team fields.
func (t Transfer) Key() string {
	return strings.ToLower(t.PlayerName) + "-" + t.FromTeam + "-" + t.ToTeam
}

// Involves reports whether team appears on either side of the transfer.
func (t Transfer) Involves(team string) bool {
	return t.FromTeam == team || t.ToTeam == team
}

// RawText is a text fragment handed to the core by a fetcher, together with
// whatever hints and provenance the source could supply.
type RawText struct {
	// Title is a headline or short snippet. The player name is read from it.
	Title string `json:"title" yaml:"title"`

	// Body is the article text, if the fetcher followed the link.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// DateHint is the date text found next to the item (a <time> element,
	// a table cell). Empty means the text itself is scanned.
	DateHint string `json:"date_hint,omitempty" yaml:"date_hint,omitempty"`

	// FeeHint is fee text from a dedicated cell, preferred over the body.
	FeeHint string `json:"fee_hint,omitempty" yaml:"fee_hint,omitempty"`

	// HomeTeam is set by club-site sources. It fills the side implied by the
	// transfer direction when extraction leaves it unresolved.
	HomeTeam string `json:"home_team,omitempty" yaml:"home_team,omitempty"`

	SourceURL  string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	SourceName string `json:"source_name,omitempty" yaml:"source_name,omitempty"`
}

// Text returns the title and body joined for keyword scanning.
func (r RawText) Text() string {
	switch {
	case r.Body == "":
		return r.Title
	case r.Title == "":
		return r.Body
	default:
		return r.Title + " " + r.Body
	}
}

// Headline returns the title, or the body when no title was captured.
func (r RawText) Headline() string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	return r.Body
}
