// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collate

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/transfer-desk/internal/rank"
)

// FormatReport writes the per-source table and the run summary to w.
func FormatReport(res Result, w io.Writer) {
	rep := res.Report
	if len(rep.Sources) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"Source", "Status", "Items", "Error"})
		for _, s := range rep.Sources {
			t.AppendRow(table.Row{s.Name, s.Status, s.Inputs, s.Error})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}

	stats := rank.Count(res.Transfers)
	fmt.Fprintf(w, "\nRun %s: %d inputs, %d duplicates, %d outside window, %d over limit\n",
		rep.RunID, rep.Inputs, rep.Duplicates, rep.DroppedByWindow, rep.Truncated)
	fmt.Fprintf(w, "Transfers: %d (incoming %d, outgoing %d)\n", stats.Total, stats.Incoming, stats.Outgoing)

	q := rep.Quality
	fmt.Fprintf(w, "Fallbacks: %d unknown player, %d unknown from, %d unknown to, %d unknown fee, %d dated today\n",
		q.UnknownPlayer, q.UnknownFrom, q.UnknownTo, q.UnknownFee, q.FallbackDate)
	if rep.HasFailures() {
		fmt.Fprintf(w, "warning: %d of %d sources unavailable\n", rep.Unavailable(), len(rep.Sources))
	}
}
