// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Archive keeps every transfer ever collated in an SQLite database, keyed by
// identity key, together with the runs that saw it.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return a, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			inputs INTEGER NOT NULL,
			output INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			unavailable INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transfers (
			key TEXT PRIMARY KEY,
			player_name TEXT NOT NULL,
			direction TEXT NOT NULL,
			from_team TEXT NOT NULL,
			to_team TEXT NOT NULL,
			transfer_date TEXT NOT NULL,
			fee TEXT NOT NULL,
			summary TEXT,
			source_url TEXT,
			source_name TEXT,
			first_run TEXT NOT NULL REFERENCES runs(id),
			last_run TEXT NOT NULL REFERENCES runs(id),
			seen_count INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_date ON transfers(transfer_date)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_from ON transfers(from_team)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_to ON transfers(to_team)`,
	}
	for _, stmt := range statements {
		if _, err := a.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run describes one collation run recorded in the archive.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Inputs      int       `json:"inputs"`
	Output      int       `json:"output"`
	Duplicates  int       `json:"duplicates"`
	Unavailable int       `json:"unavailable"`
}

// RecordSummary counts what a Record call changed.
type RecordSummary struct {
	Added   int
	Updated int
}

// Total returns the number of transfers recorded.
func (s RecordSummary) Total() int {
	return s.Added + s.Updated
}

// Record stores run and upserts its transfers. A transfer already archived
// keeps its first run and original fields; only its last run and seen count
// change.
func (a *Archive) Record(ctx context.Context, run Run, transfers []types.Transfer) (RecordSummary, error) {
	var summary RecordSummary

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, inputs, output, duplicates, unavailable)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.Inputs, run.Output, run.Duplicates, run.Unavailable,
	)
	if err != nil {
		return summary, fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO transfers (key, player_name, direction, from_team, to_team, transfer_date,
			fee, summary, source_url, source_name, first_run, last_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			last_run=excluded.last_run, seen_count=seen_count+1`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer insert.Close()

	for _, t := range transfers {
		key := t.Key()
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM transfers WHERE key = ?`, key).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking %s: %w", key, err)
		}
		_, err := insert.ExecContext(ctx,
			key, t.PlayerName, string(t.Direction), t.FromTeam, t.ToTeam, t.TransferDate,
			t.Fee, t.Summary, t.SourceURL, t.SourceName, run.ID, run.ID,
		)
		if err != nil {
			return summary, fmt.Errorf("archiving %s: %w", key, err)
		}
		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing run %s: %w", run.ID, err)
	}
	return summary, nil
}

// ArchivedTransfer is a transfer with its archive history.
type ArchivedTransfer struct {
	types.Transfer
	FirstRun  string `json:"firstRun"`
	LastRun   string `json:"lastRun"`
	SeenCount int    `json:"seenCount"`
}

// ArchiveQuery filters archived transfers. Empty fields match everything.
type ArchiveQuery struct {
	Team      string
	Direction types.Direction
	// Limit caps the result count. Zero returns everything.
	Limit int
}

// Query returns archived transfers matching q, newest first. IDs are
// positions in the result.
func (a *Archive) Query(ctx context.Context, q ArchiveQuery) ([]ArchivedTransfer, error) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(
		`SELECT player_name, direction, from_team, to_team, transfer_date, fee,
			summary, source_url, source_name, first_run, last_run, seen_count
		FROM transfers WHERE 1=1`)
	if q.Team != "" {
		qb.WriteString(` AND (from_team = ? OR to_team = ?)`)
		args = append(args, q.Team, q.Team)
	}
	if q.Direction != "" {
		qb.WriteString(` AND direction = ?`)
		args = append(args, string(q.Direction))
	}
	qb.WriteString(` ORDER BY transfer_date DESC, player_name`)
	if q.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := a.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []ArchivedTransfer
	for rows.Next() {
		var (
			at        ArchivedTransfer
			direction string
			summary   sql.NullString
			sourceURL sql.NullString
			source    sql.NullString
		)
		if err := rows.Scan(&at.PlayerName, &direction, &at.FromTeam, &at.ToTeam, &at.TransferDate,
			&at.Fee, &summary, &sourceURL, &source, &at.FirstRun, &at.LastRun, &at.SeenCount); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		at.Direction = types.Direction(direction)
		at.Summary = summary.String
		at.SourceURL = sourceURL.String
		at.SourceName = source.String
		at.ID = len(out) + 1
		out = append(out, at)
	}
	return out, rows.Err()
}

// Teams returns the distinct archived team names, sorted, without the
// Unknown and Free agent sentinels.
func (a *Archive) Teams(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT team FROM (
			SELECT from_team AS team FROM transfers
			UNION SELECT to_team FROM transfers
		) WHERE team NOT IN (?, ?) ORDER BY team`,
		types.UnknownTeam, types.FreeAgent)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, name)
	}
	return teams, rows.Err()
}

// Runs returns the most recent runs first. Zero limit returns all.
func (a *Archive) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, inputs, output, duplicates, unavailable
		FROM runs ORDER BY started_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			started string
		)
		if err := rows.Scan(&r.ID, &started, &r.Inputs, &r.Output, &r.Duplicates, &r.Unavailable); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
