// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

func tr(player, from, to, date string) types.Transfer {
	return types.Transfer{
		PlayerName:   player,
		Direction:    types.DirectionIn,
		FromTeam:     from,
		ToTeam:       to,
		TransferDate: date,
		Fee:          types.UnknownFee,
	}
}

func players(records []types.Transfer) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.PlayerName
	}
	return out
}

func fixedNow() time.Time {
	return time.Date(2025, time.April, 30, 15, 0, 0, 0, time.UTC)
}

// --- Deduplicate ---

func TestDeduplicateKeepsFirstSeen(t *testing.T) {
	a := tr("Jan Kowalski", "Cracovia", "Lech Poznań", "2025-01-10")
	a.SourceName = "first"
	b := tr("Piotr Nowak", types.FreeAgent, "Legia Warszawa", "2025-01-11")
	a2 := tr("JAN KOWALSKI", "Cracovia", "Lech Poznań", "2025-01-12")
	a2.SourceName = "second"

	got, removed := Deduplicate([]types.Transfer{a, b, a2})
	assert.Equal(t, 1, removed)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].SourceName)
	assert.Equal(t, "Piotr Nowak", got[1].PlayerName)
}

func TestDeduplicateDistinguishesTeams(t *testing.T) {
	got, removed := Deduplicate([]types.Transfer{
		tr("Jan Kowalski", "Cracovia", "Lech Poznań", "2025-01-10"),
		tr("Jan Kowalski", "Lech Poznań", "Cracovia", "2025-01-10"),
		tr("Jan Kowalski", "Cracovia", types.UnknownTeam, "2025-01-10"),
	})
	assert.Zero(t, removed)
	assert.Len(t, got, 3)
}

func TestDeduplicateIdempotent(t *testing.T) {
	in := []types.Transfer{
		tr("A", "X", "Y", "2025-01-01"),
		tr("B", "X", "Y", "2025-01-01"),
		tr("a", "X", "Y", "2025-01-02"),
		tr("C", "Y", "X", "2025-01-03"),
		tr("B", "X", "Y", "2025-01-04"),
	}
	once, _ := Deduplicate(in)
	twice, removed := Deduplicate(once)
	assert.Zero(t, removed)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed output (-once +twice):\n%s", diff)
	}
}

func TestDeduplicateEmpty(t *testing.T) {
	got, removed := Deduplicate(nil)
	assert.Empty(t, got)
	assert.Zero(t, removed)
}

// --- Rank ---

func TestRankSortsNewestFirstStable(t *testing.T) {
	in := []types.Transfer{
		tr("old", "X", "Y", "2025-01-02"),
		tr("new", "X", "Y", "2025-03-01"),
		tr("mid-a", "X", "Y", "2025-02-01"),
		tr("mid-b", "X", "Z", "2025-02-01"),
	}
	res := Rank(in, Policy{})
	assert.Equal(t, []string{"new", "mid-a", "mid-b", "old"}, players(res.Records))
	assert.Equal(t, "old", in[0].PlayerName, "input must not be reordered")
}

func TestRankWindow(t *testing.T) {
	in := []types.Transfer{
		tr("recent", "X", "Y", "2025-04-01"),
		tr("stale", "X", "Y", "2024-11-01"),
		tr("edge", "X", "Y", "2025-01-31"),
		tr("cutoff day", "X", "Y", "2025-01-30"),
		tr("corrupt", "X", "Y", "sometime"),
	}
	res := Rank(in, Policy{Window: 90 * 24 * time.Hour, Now: fixedNow})

	assert.ElementsMatch(t, []string{"recent", "edge", "corrupt"}, players(res.Records))
	assert.Equal(t, 2, res.DroppedByWindow)
}

func TestRankWindowCutoffAtMidnight(t *testing.T) {
	midnight := func() time.Time { return time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC) }
	in := []types.Transfer{tr("cutoff day", "X", "Y", "2025-01-30"), tr("day before", "X", "Y", "2025-01-29")}
	res := Rank(in, Policy{Window: 90 * 24 * time.Hour, Now: midnight})

	assert.Equal(t, []string{"cutoff day"}, players(res.Records))
	assert.Equal(t, 1, res.DroppedByWindow)
}

func TestRankZeroWindowKeepsAll(t *testing.T) {
	in := []types.Transfer{
		tr("ancient", "X", "Y", "1999-01-01"),
		tr("recent", "X", "Y", "2025-04-01"),
	}
	res := Rank(in, Policy{Now: fixedNow})
	assert.Len(t, res.Records, 2)
	assert.Zero(t, res.DroppedByWindow)
}

func TestRankLimit(t *testing.T) {
	var in []types.Transfer
	for _, d := range []string{"2025-04-01", "2025-04-02", "2025-04-03", "2025-04-04"} {
		in = append(in, tr(d, "X", "Y", d))
	}
	res := Rank(in, Policy{Limit: 2, Window: 90 * 24 * time.Hour, Now: fixedNow})
	assert.Equal(t, []string{"2025-04-04", "2025-04-03"}, players(res.Records))
	assert.Equal(t, 2, res.Truncated)
}

func TestNumber(t *testing.T) {
	records := []types.Transfer{tr("a", "X", "Y", ""), tr("b", "X", "Y", "")}
	Number(records)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 2, records[1].ID)
}

func TestNewPolicy(t *testing.T) {
	p := NewPolicy(types.RankConfig{Window: time.Hour, Limit: 5})
	assert.Equal(t, time.Hour, p.Window)
	assert.Equal(t, 5, p.Limit)
}

// --- Query ---

func sample() []types.Transfer {
	out := tr("Kacper Urbański", "Legia Warszawa", types.UnknownTeam, "2025-01-12")
	out.Direction = types.DirectionOut
	return []types.Transfer{
		tr("Jan Kowalski", "Cracovia", "Lech Poznań", "2025-01-14"),
		out,
		tr("Piotr Nowak", types.FreeAgent, "Legia Warszawa", "2025-01-10"),
		tr("Adam Zieliński", "Pogoń Szczecin", "Cracovia", "2025-01-09"),
	}
}

func TestFilter(t *testing.T) {
	records := sample()
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty query", Query{}, []string{"Jan Kowalski", "Kacper Urbański", "Piotr Nowak", "Adam Zieliński"}},
		{"team either side", Query{Team: "Legia Warszawa"}, []string{"Kacper Urbański", "Piotr Nowak"}},
		{"direction", Query{Direction: types.DirectionOut}, []string{"Kacper Urbański"}},
		{"team and direction", Query{Team: "Cracovia", Direction: types.DirectionIn}, []string{"Jan Kowalski", "Adam Zieliński"}},
		{"no match", Query{Team: "Bologna FC"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, players(Filter(records, tt.query)))
		})
	}
}

func TestQueryIsEmpty(t *testing.T) {
	assert.True(t, Query{}.IsEmpty())
	assert.False(t, Query{Team: "Cracovia"}.IsEmpty())
	assert.False(t, Query{Direction: types.DirectionIn}.IsEmpty())
}

func TestTeams(t *testing.T) {
	got := Teams(sample())
	want := []string{"Cracovia", "Lech Poznań", "Legia Warszawa", "Pogoń Szczecin"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Teams() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Teams(nil))
}

func TestCount(t *testing.T) {
	assert.Equal(t, Stats{Total: 4, Incoming: 3, Outgoing: 1}, Count(sample()))
}

// --- Format ---

func TestFormatTable(t *testing.T) {
	records := sample()
	Number(records)

	var buf bytes.Buffer
	FormatTable(records, &buf)
	out := buf.String()
	assert.Contains(t, out, "Kacper Urbański")
	// Footers are upper-cased by the table style.
	assert.Contains(t, strings.ToLower(out), "4 transfers")
	assert.Contains(t, strings.ToLower(out), "3 in / 1 out")

	buf.Reset()
	FormatTable(nil, &buf)
	assert.Equal(t, "No transfers found.\n", buf.String())
}

func TestFormatTeams(t *testing.T) {
	var buf bytes.Buffer
	FormatTeams([]string{"Cracovia", "Lech Poznań"}, &buf)
	assert.Contains(t, buf.String(), "Lech Poznań")
}
