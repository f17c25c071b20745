// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves raw transfer text from web pages and local snippet
// files. It hands plain text to the core; no document or connection leaves
// this package.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"

	"github.com/pdiddy/transfer-desk/internal/httputil"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

var tracer = otel.Tracer("transfer-desk/fetch")

// Source produces the raw text items of one configured source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]types.RawText, error)
}

// DefaultKeywords gate headlines of the built-in news sources.
var DefaultKeywords = []string{
	"transfer", "przenosi się", "dołącza", "odejdzie", "wypożyczony",
	"transferuje", "sprzedany", "kupiony", "kontrakt",
}

// DefaultSources are used when the configuration declares none.
func DefaultSources() []types.SourceConfig {
	sources := []types.SourceConfig{
		{
			Name:        "90minut.pl",
			Kind:        types.SourceHTML,
			URL:         "https://www.90minut.pl",
			Keywords:    DefaultKeywords,
			FollowLinks: true,
		},
		{
			Name:            "Ekstraklasa.org",
			Kind:            types.SourceHTML,
			URL:             "https://ekstraklasa.org/transfery/",
			ItemSelector:    "article.transfer-news",
			TitleSelector:   "h2, h3",
			ExcerptSelector: "p.excerpt",
		},
		{
			Name:            "Transfermarkt.pl",
			Kind:            types.SourceHTML,
			URL:             "https://www.transfermarkt.pl/ekstraklasa/transfers/wettbewerb/PL1",
			ItemSelector:    "tr.transfer-row",
			TitleSelector:   "a.spielname",
			ExcerptSelector: "td.verein",
			DateSelector:    "td.datum",
			FeeSelector:     "td.Ablöse",
		},
	}
	clubs := []struct{ team, url string }{
		{"Legia Warszawa", "https://legia.com"},
		{"Lech Poznań", "https://www.lechpoznan.pl"},
		{"Wisła Kraków", "https://www.wisla.krakow.pl"},
		{"Raków Częstochowa", "https://www.rakow.com.pl"},
		{"Śląsk Wrocław", "https://slaskwroclaw.com"},
	}
	for _, c := range clubs {
		sources = append(sources, types.SourceConfig{
			Name:         c.team + " - oficjalna strona",
			Kind:         types.SourceHTML,
			URL:          c.url,
			ItemSelector: "a[href]",
			Keywords:     []string{"transfer"},
			HomeTeam:     c.team,
		})
	}
	return sources
}

// New builds the Source described by cfg.
func New(cfg types.SourceConfig, fc types.FetchConfig, logger *slog.Logger) (Source, error) {
	switch cfg.Kind {
	case types.SourceHTML:
		if cfg.URL == "" {
			return nil, fmt.Errorf("source %q: html source needs a url", cfg.Name)
		}
		client := httputil.Throttle(httputil.NewClient(fc.HTTPConfig), fc.RequestDelay)
		return NewHTMLSource(cfg, client, logger), nil
	case types.SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("source %q: file source needs a path", cfg.Name)
		}
		return NewFileSource(cfg), nil
	default:
		return nil, fmt.Errorf("source %q: unknown kind %q", cfg.Name, cfg.Kind)
	}
}

// FromConfig builds every source in fc, in declared order.
func FromConfig(fc types.FetchConfig, logger *slog.Logger) ([]Source, error) {
	sources := make([]Source, 0, len(fc.Sources))
	for _, sc := range fc.Sources {
		s, err := New(sc, fc, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, nil
}

// Relevant reports whether text contains one of keywords, ignoring case.
// An empty keyword list accepts everything.
func Relevant(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
