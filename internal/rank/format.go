// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.Transfer, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No transfers found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Date", "Player", "Dir", "From", "To", "Fee"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.TransferDate, truncate(r.PlayerName, 28), r.Direction, r.FromTeam, r.ToTeam, truncate(r.Fee, 16)})
	}
	s := Count(records)
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d transfers", s.Total), fmt.Sprintf("%d in / %d out", s.Incoming, s.Outgoing)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// FormatTeams writes one team per row.
func FormatTeams(teams []string, w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Team"})
	for _, name := range teams {
		t.AppendRow(table.Row{name})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
