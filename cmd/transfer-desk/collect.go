// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transfer-desk/internal/collate"
	"github.com/pdiddy/transfer-desk/internal/extract"
	"github.com/pdiddy/transfer-desk/internal/fetch"
	"github.com/pdiddy/transfer-desk/internal/rank"
	"github.com/pdiddy/transfer-desk/internal/record"
	"github.com/pdiddy/transfer-desk/internal/registry"
	"github.com/pdiddy/transfer-desk/internal/store"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch transfer news and write the transfer dataset",
	Long: `Collect fetches every configured source, extracts one transfer record
per news item, removes duplicates, keeps the most recent records within the
window, and writes them as JSON. Unavailable sources are reported and skipped.

Without configured sources the built-in Polish news and club sites are used.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().StringP("output", "o", types.DefaultOutputPath, "JSON dataset to write")
	collectCmd.Flags().String("archive", "", "SQLite archive that records every run (empty disables)")
	collectCmd.Flags().Duration("window", types.DefaultWindow, "keep transfers dated within this window (0 keeps all)")
	collectCmd.Flags().Int("limit", types.DefaultLimit, "maximum number of transfers kept (0 keeps all)")
	collectCmd.Flags().Int("concurrency", types.DefaultConcurrency, "sources fetched at once")
	collectCmd.Flags().Bool("table", false, "print the collected transfers as a table")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"store.output_path":  "output",
		"store.archive_path": "archive",
		"rank.window":        "window",
		"rank.limit":         "limit",
		"fetch.concurrency":  "concurrency",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Fetch.Sources) == 0 {
		cfg.Fetch.Sources = fetch.DefaultSources()
	}

	sources, err := fetch.FromConfig(cfg.Fetch, logger)
	if err != nil {
		return err
	}

	collator := collate.Collator{
		Builder:     newBuilder(cfg),
		Policy:      rank.NewPolicy(cfg.Rank),
		Concurrency: cfg.Fetch.Concurrency,
		Logger:      logger,
	}

	started := time.Now().UTC()
	res, err := collator.Run(cmd.Context(), sources)
	if err != nil {
		return err
	}

	if err := store.WriteJSON(cfg.Store.OutputPath, res.Transfers); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d transfers to %s\n", len(res.Transfers), cfg.Store.OutputPath)

	if cfg.Store.ArchivePath != "" {
		if err := archiveRun(cmd.Context(), cfg.Store.ArchivePath, started, res); err != nil {
			return err
		}
	}

	if table, _ := cmd.Flags().GetBool("table"); table {
		rank.FormatTable(res.Transfers, os.Stdout)
	}
	collate.FormatReport(res, os.Stdout)

	if len(sources) > 0 && res.Report.Unavailable() == len(sources) {
		return fmt.Errorf("all %d sources unavailable", len(sources))
	}
	return nil
}

func archiveRun(ctx context.Context, path string, started time.Time, res collate.Result) error {
	archive, err := store.OpenArchive(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	rep := res.Report
	summary, err := archive.Record(ctx, store.Run{
		ID:          rep.RunID,
		StartedAt:   started,
		Inputs:      rep.Inputs,
		Output:      rep.Output,
		Duplicates:  rep.Duplicates,
		Unavailable: rep.Unavailable(),
	}, res.Transfers)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Archived %d transfers (%d new, %d seen before) in %s\n",
		summary.Total(), summary.Added, summary.Updated, path)
	return nil
}

// newRegistry returns the configured teams, or the built-in Ekstraklasa list.
func newRegistry(cfg types.PipelineConfig) *registry.Registry {
	if len(cfg.Registry.Teams) > 0 {
		return registry.New(cfg.Registry.Teams)
	}
	return registry.Default()
}

func newBuilder(cfg types.PipelineConfig) record.Builder {
	return record.Builder{Extractor: extract.New(newRegistry(cfg))}
}
