// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

// FileSource reads RawText snippets from a local YAML or JSON file, for
// offline runs and fixtures. The file holds a list of items with the
// RawText fields (title, body, date_hint, fee_hint, home_team, source_url).
type FileSource struct {
	cfg types.SourceConfig
}

// NewFileSource returns a source reading cfg.Path.
func NewFileSource(cfg types.SourceConfig) *FileSource {
	return &FileSource{cfg: cfg}
}

// Name returns the configured source name.
func (s *FileSource) Name() string { return s.cfg.Name }

// Fetch reads and decodes the file. Items without a source name or home team
// take the source's; items failing the keyword gate are dropped.
func (s *FileSource) Fetch(ctx context.Context) ([]types.RawText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.cfg.Path, err)
	}

	var raw []types.RawText
	if strings.EqualFold(filepath.Ext(s.cfg.Path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.cfg.Path, err)
	}

	items := make([]types.RawText, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Body) == "" {
			continue
		}
		if !Relevant(r.Headline(), s.cfg.Keywords) {
			continue
		}
		if r.SourceName == "" {
			r.SourceName = s.cfg.Name
		}
		if r.HomeTeam == "" {
			r.HomeTeam = s.cfg.HomeTeam
		}
		items = append(items, r)
	}
	return items, nil
}
