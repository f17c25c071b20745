// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collate runs one collection pass: every source is fetched and
// extracted into its own batch, the batches are concatenated in declared
// order, then deduplicated, ranked and numbered.
package collate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/transfer-desk/internal/fetch"
	"github.com/pdiddy/transfer-desk/internal/rank"
	"github.com/pdiddy/transfer-desk/internal/record"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// SourceStatus is the outcome of fetching one source.
type SourceStatus string

const (
	StatusOK          SourceStatus = "ok"
	StatusUnavailable SourceStatus = "unavailable"
)

// SourceReport describes what one source contributed.
type SourceReport struct {
	Name   string       `json:"name"`
	Status SourceStatus `json:"status"`
	Inputs int          `json:"inputs"`
	Error  string       `json:"error,omitempty"`
}

// Report summarizes a collation run.
type Report struct {
	RunID           string               `json:"run_id,omitempty"`
	Sources         []SourceReport       `json:"sources,omitempty"`
	Inputs          int                  `json:"inputs"`
	Duplicates      int                  `json:"duplicates"`
	DroppedByWindow int                  `json:"dropped_by_window"`
	Truncated       int                  `json:"truncated"`
	Output          int                  `json:"output"`
	Quality         record.QualityCounts `json:"quality"`
}

// Unavailable returns the number of sources that contributed nothing
// because they could not be fetched.
func (r Report) Unavailable() int {
	n := 0
	for _, s := range r.Sources {
		if s.Status == StatusUnavailable {
			n++
		}
	}
	return n
}

// HasFailures reports whether any source was unavailable.
func (r Report) HasFailures() bool {
	return r.Unavailable() > 0
}

// Result is the ordered output of a run and its report.
type Result struct {
	Transfers []types.Transfer
	Report    Report
}

// Collator holds the stages shared by every run. It keeps no state between
// runs.
type Collator struct {
	Builder record.Builder
	Policy  rank.Policy

	// Concurrency bounds how many sources are fetched at once. Values
	// below one fetch sequentially.
	Concurrency int

	Logger *slog.Logger
}

// Collate builds, deduplicates, ranks and numbers batches without any I/O.
// Batches are concatenated in the order given, so the first record seen for
// an identity key is the one kept.
func (c Collator) Collate(batches [][]types.RawText) Result {
	var (
		rep     Report
		records []types.Transfer
	)
	for _, batch := range batches {
		rep.Inputs += len(batch)
		for _, out := range c.Builder.BuildAll(batch) {
			rep.Quality.Add(out.Quality)
			records = append(records, out.Transfer)
		}
	}

	deduped, removed := rank.Deduplicate(records)
	rep.Duplicates = removed

	ranked := rank.Rank(deduped, c.Policy)
	rep.DroppedByWindow = ranked.DroppedByWindow
	rep.Truncated = ranked.Truncated

	rank.Number(ranked.Records)
	rep.Output = len(ranked.Records)
	return Result{Transfers: ranked.Records, Report: rep}
}

// Run fetches every source and collates the batches. A source that fails
// contributes an empty batch and is reported as unavailable. Run returns an
// error only when ctx is done.
func (c Collator) Run(ctx context.Context, sources []fetch.Source) (Result, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	logger = logger.With("run", runID)

	type slot struct {
		items []types.RawText
		err   error
	}
	slots := make([]slot, len(sources))

	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(i int, src fetch.Source) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				slots[i].err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			logger.Debug("fetching source", "source", src.Name())
			slots[i].items, slots[i].err = src.Fetch(ctx)
		}(i, src)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	batches := make([][]types.RawText, len(sources))
	reports := make([]SourceReport, len(sources))
	for i, src := range sources {
		sr := SourceReport{Name: src.Name(), Status: StatusOK}
		if err := slots[i].err; err != nil {
			sr.Status = StatusUnavailable
			sr.Error = err.Error()
			logger.Warn("source unavailable", "source", src.Name(), "error", err)
		} else {
			batches[i] = slots[i].items
			sr.Inputs = len(slots[i].items)
			logger.Info("source fetched", "source", src.Name(), "items", sr.Inputs)
		}
		reports[i] = sr
	}

	res := c.Collate(batches)
	res.Report.RunID = runID
	res.Report.Sources = reports
	return res, nil
}
