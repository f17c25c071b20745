// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/store"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse the history of transfers kept across runs",
	Long: `Archive reads the SQLite history written by collect --archive. Every
transfer ever collected is kept with the run that first and last saw it.
Use the same --team and --direction filters as query.`,
	RunE: runArchive,
}

var archiveRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past collection runs",
	RunE:  runArchiveRuns,
}

func init() {
	archiveCmd.PersistentFlags().String("archive", "", "SQLite archive to read (default: store.archive_path)")
	archiveCmd.PersistentFlags().Int("limit", 0, "maximum rows (0 = all)")

	archiveCmd.Flags().String("team", "", "only transfers from or to this team")
	archiveCmd.Flags().String("direction", "", "only transfers in this direction: in or out")
	archiveCmd.Flags().Bool("json", false, "output results as JSON")

	archiveCmd.AddCommand(archiveRunsCmd)
	rootCmd.AddCommand(archiveCmd)
}

func openArchive(cmd *cobra.Command) (*store.Archive, error) {
	if err := bindFlags(cmd, map[string]string{"store.archive_path": "archive"}); err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Store.ArchivePath == "" {
		return nil, fmt.Errorf("no archive configured: pass --archive or set store.archive_path")
	}
	return store.OpenArchive(cfg.Store.ArchivePath)
}

func runArchive(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	archive, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	results, err := archive.Query(cmd.Context(), store.ArchiveQuery{
		Team:      q.Team,
		Direction: q.Direction,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No archived transfers found.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Player", "Dir", "From", "To", "Fee", "Seen", "First run"})
	for _, r := range results {
		t.AppendRow(table.Row{r.TransferDate, r.PlayerName, r.Direction, r.FromTeam, r.ToTeam, r.Fee, r.SeenCount, shortID(r.FirstRun)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d transfers", len(results))})
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func runArchiveRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	archive, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer archive.Close()

	runs, err := archive.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Started", "Inputs", "Output", "Duplicates", "Unavailable"})
	for _, r := range runs {
		t.AppendRow(table.Row{shortID(r.ID), r.StartedAt.Local().Format(time.DateTime), r.Inputs, r.Output, r.Duplicates, r.Unavailable})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
