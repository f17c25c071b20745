// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank deduplicates, orders and filters Transfer records.
package rank

import (
	"sort"
	"time"

	"github.com/pdiddy/transfer-desk/internal/normalize"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Deduplicate keeps the first record for each identity key (see
// types.Transfer.Key) in input order and returns the number removed.
// Running it on its own output removes nothing.
func Deduplicate(records []types.Transfer) ([]types.Transfer, int) {
	seen := make(map[string]bool, len(records))
	deduped := make([]types.Transfer, 0, len(records))
	removed := 0

	for _, r := range records {
		key := r.Key()
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		deduped = append(deduped, r)
	}
	return deduped, removed
}

// Policy controls ordering and trimming of a collated batch.
type Policy struct {
	// Window drops records dated before Now minus Window. Zero keeps all.
	Window time.Duration
	// Limit caps the number of records returned. Zero keeps all.
	Limit int
	// Now returns the reference time. Nil uses time.Now.
	Now func() time.Time
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(cfg types.RankConfig) Policy {
	return Policy{Window: cfg.Window, Limit: cfg.Limit}
}

// Result is the outcome of Rank.
type Result struct {
	Records         []types.Transfer
	DroppedByWindow int
	Truncated       int
}

// Rank sorts records newest first, applies the recency window and the cap.
// Records whose date does not parse are kept whatever the window. The input
// slice is not modified.
func Rank(records []types.Transfer, p Policy) Result {
	sorted := make([]types.Transfer, len(records))
	copy(sorted, records)

	// Canonical dates order chronologically as strings.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TransferDate > sorted[j].TransferDate
	})

	var res Result
	if p.Window > 0 {
		cutoff := p.cutoff()
		kept := sorted[:0]
		for _, r := range sorted {
			if d, ok := normalize.ParseDate(r.TransferDate); ok && d.Before(cutoff) {
				res.DroppedByWindow++
				continue
			}
			kept = append(kept, r)
		}
		sorted = kept
	}

	if p.Limit > 0 && len(sorted) > p.Limit {
		res.Truncated = len(sorted) - p.Limit
		sorted = sorted[:p.Limit]
	}
	res.Records = sorted
	return res
}

// cutoff is exactly Window before Now. Dates are compared at midnight UTC,
// so a record dated on the cutoff day is kept only when the cutoff falls at
// midnight.
func (p Policy) cutoff() time.Time {
	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}
	return now.UTC().Add(-p.Window)
}

// Number assigns IDs 1..n in order.
func Number(records []types.Transfer) {
	for i := range records {
		records[i].ID = i + 1
	}
}
