// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists collated transfers: the JSON dataset served by the
// query surface, YAML exports, and an SQLite archive of every run.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// ErrMalformed is returned when persisted data is not a valid transfer list.
var ErrMalformed = errors.New("malformed transfer data")

// EncodeJSON writes records as an indented JSON array. Non-ASCII text and
// HTML characters are written unescaped. A nil slice is written as [].
func EncodeJSON(w io.Writer, records []types.Transfer) error {
	if records == nil {
		records = []types.Transfer{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// EncodeYAML writes records as a YAML sequence.
func EncodeYAML(w io.Writer, records []types.Transfer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteJSON replaces the file at path with records. The data is written to
// a temporary file first and renamed into place.
func WriteJSON(path string, records []types.Transfer) error {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, records); err != nil {
		return fmt.Errorf("encoding transfers: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".transfers-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(buf.Bytes())
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// DecodeJSON reads a transfer list. Syntax errors, records without a valid
// direction and records without a date are reported as ErrMalformed. Dates
// that are present but not canonical are accepted.
func DecodeJSON(r io.Reader) ([]types.Transfer, error) {
	var records []types.Transfer
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, rec := range records {
		if !rec.Direction.Valid() {
			return nil, fmt.Errorf("%w: record %d: invalid direction %q", ErrMalformed, i+1, rec.Direction)
		}
		if rec.TransferDate == "" {
			return nil, fmt.Errorf("%w: record %d: missing transferDate", ErrMalformed, i+1)
		}
	}
	return records, nil
}

// ReadJSON loads the transfer list at path.
func ReadJSON(path string) ([]types.Transfer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := DecodeJSON(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}
