// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"sort"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Query selects records by team and direction. Empty fields match
// everything.
type Query struct {
	Team      string
	Direction types.Direction
}

// IsEmpty reports whether the query has no criteria.
func (q Query) IsEmpty() bool {
	return q.Team == "" && q.Direction == ""
}

// Matches reports whether t satisfies every set criterion.
func (q Query) Matches(t types.Transfer) bool {
	if q.Team != "" && !t.Involves(q.Team) {
		return false
	}
	return q.Direction == "" || t.Direction == q.Direction
}

// Filter returns the records matching q in their original order.
func Filter(records []types.Transfer, q Query) []types.Transfer {
	out := make([]types.Transfer, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Teams returns the distinct team names on either side of records, sorted,
// without the Unknown and Free agent sentinels.
func Teams(records []types.Transfer) []string {
	set := make(map[string]bool)
	for _, r := range records {
		for _, name := range []string{r.FromTeam, r.ToTeam} {
			if name == "" || name == types.UnknownTeam || name == types.FreeAgent {
				continue
			}
			set[name] = true
		}
	}
	teams := make([]string, 0, len(set))
	for name := range set {
		teams = append(teams, name)
	}
	sort.Strings(teams)
	return teams
}

// Stats counts records by direction.
type Stats struct {
	Total    int `json:"total"`
	Incoming int `json:"incoming"`
	Outgoing int `json:"outgoing"`
}

// Count returns Stats over records.
func Count(records []types.Transfer) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if r.Direction == types.DirectionOut {
			s.Outgoing++
		} else {
			s.Incoming++
		}
	}
	return s
}
