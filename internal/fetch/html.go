// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pdiddy/transfer-desk/internal/httputil"
	"github.com/pdiddy/transfer-desk/pkg/types"
)

// Selector defaults for html sources.
const (
	defaultItemSelector  = "article"
	defaultTitleSelector = "h2, h3, a"
	defaultLinkSelector  = "a[href]"
	defaultDateSelector  = "time, span.date"
	defaultBodySelector  = "body"
)

// HTMLSource scrapes a listing page. Each element matched by the item
// selector yields one RawText, optionally completed from the linked article.
type HTMLSource struct {
	cfg    types.SourceConfig
	client *resty.Client
	logger *slog.Logger
}

// NewHTMLSource returns a source reading cfg.URL through client. Empty
// selectors take the package defaults.
func NewHTMLSource(cfg types.SourceConfig, client *resty.Client, logger *slog.Logger) *HTMLSource {
	if cfg.ItemSelector == "" {
		cfg.ItemSelector = defaultItemSelector
	}
	if cfg.TitleSelector == "" {
		cfg.TitleSelector = defaultTitleSelector
	}
	if cfg.LinkSelector == "" {
		cfg.LinkSelector = defaultLinkSelector
	}
	if cfg.DateSelector == "" {
		cfg.DateSelector = defaultDateSelector
	}
	if cfg.BodySelector == "" {
		cfg.BodySelector = defaultBodySelector
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLSource{cfg: cfg, client: client, logger: logger.With("source", cfg.Name)}
}

// Name returns the configured source name.
func (s *HTMLSource) Name() string { return s.cfg.Name }

// Fetch downloads the listing and returns the items that pass the keyword
// gate. A failed article download degrades that item to its listing text.
func (s *HTMLSource) Fetch(ctx context.Context) ([]types.RawText, error) {
	ctx, span := tracer.Start(ctx, "fetch.html", trace.WithAttributes(
		attribute.String("source", s.cfg.Name),
		attribute.String("url", s.cfg.URL),
	))
	defer span.End()

	items, err := s.fetchListing(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing failed")
		return nil, err
	}

	if s.cfg.FollowLinks {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if items[i].SourceURL == s.cfg.URL {
				continue
			}
			if err := s.fillFromArticle(ctx, &items[i]); err != nil {
				s.logger.Warn("article fetch failed", "url", items[i].SourceURL, "error", err)
			}
		}
	}

	span.SetAttributes(attribute.Int("items", len(items)))
	s.logger.Debug("fetched listing", "items", len(items))
	return items, nil
}

func (s *HTMLSource) fetchListing(ctx context.Context) ([]types.RawText, error) {
	base, err := url.Parse(s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing source url: %w", err)
	}
	body, err := httputil.Get(ctx, s.client, s.cfg.URL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.cfg.URL, err)
	}

	var items []types.RawText
	doc.Find(s.cfg.ItemSelector).Each(func(_ int, item *goquery.Selection) {
		title := collapse(firstOf(item, s.cfg.TitleSelector).Text())
		if title == "" {
			title = collapse(item.Text())
		}
		if title == "" || !Relevant(title, s.cfg.Keywords) {
			return
		}

		raw := types.RawText{
			Title:      title,
			DateHint:   dateText(firstOf(item, s.cfg.DateSelector)),
			HomeTeam:   s.cfg.HomeTeam,
			SourceURL:  s.cfg.URL,
			SourceName: s.cfg.Name,
		}
		if s.cfg.ExcerptSelector != "" {
			raw.Body = joinText(item.Find(s.cfg.ExcerptSelector))
		}
		if s.cfg.FeeSelector != "" {
			raw.FeeHint = collapse(item.Find(s.cfg.FeeSelector).First().Text())
		}
		if href := linkOf(item, s.cfg.LinkSelector); href != "" {
			if ref, err := url.Parse(href); err == nil {
				raw.SourceURL = base.ResolveReference(ref).String()
			}
		}
		items = append(items, raw)
	})
	return items, nil
}

func (s *HTMLSource) fillFromArticle(ctx context.Context, raw *types.RawText) error {
	body, err := httputil.Get(ctx, s.client, raw.SourceURL)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", raw.SourceURL, err)
	}
	if text := collapse(doc.Find(s.cfg.BodySelector).First().Text()); text != "" {
		raw.Body = text
	}
	if raw.DateHint == "" {
		raw.DateHint = dateText(firstOf(doc.Selection, s.cfg.DateSelector))
	}
	return nil
}

// firstOf returns the first match of the first comma-separated selector that
// matches anything, so "h2, h3, a" prefers a heading over a link.
func firstOf(sel *goquery.Selection, selectors string) *goquery.Selection {
	for _, one := range strings.Split(selectors, ",") {
		one = strings.TrimSpace(one)
		if one == "" {
			continue
		}
		if found := sel.Find(one).First(); found.Length() > 0 {
			return found
		}
	}
	return sel.Slice(0, 0)
}

func linkOf(item *goquery.Selection, selector string) string {
	if href, ok := item.Attr("href"); ok && item.Is(selector) {
		return strings.TrimSpace(href)
	}
	href, _ := item.Find(selector).First().Attr("href")
	return strings.TrimSpace(href)
}

// dateText prefers a machine-readable datetime attribute, keeping its date
// part.
func dateText(sel *goquery.Selection) string {
	if dt, ok := sel.Attr("datetime"); ok {
		dt = strings.TrimSpace(dt)
		if len(dt) >= len(types.DateLayout) {
			return dt[:len(types.DateLayout)]
		}
	}
	return collapse(sel.Text())
}

func joinText(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := collapse(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}
