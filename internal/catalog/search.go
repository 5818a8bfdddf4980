package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// CoverResolver attaches cover image URLs to a batch of ISBNs. The
// returned slice matches the input order; entries with no cover hold "".
type CoverResolver interface {
	Resolve(ctx context.Context, isbns []string) []string
}

// Resolver runs catalog searches and decorates the returned page with
// cover images.
type Resolver struct {
	client *Client
	covers CoverResolver
	logger *slog.Logger
}

// NewResolver wires a search resolver. covers may be nil, in which case
// every hit keeps the placeholder cover.
func NewResolver(client *Client, covers CoverResolver, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{client: client, covers: covers, logger: logger.With("component", "search")}
}

// Search queries the catalog and returns the requested page. perPage is
// clamped to [1,100] and page to at least 1. The upstream is always asked
// for fixed 100-item batches; a second batch is fetched only when the
// first one cannot fill the page and the upstream reports more results.
// A second-batch failure degrades to the first batch instead of failing
// the search. Covers are resolved for the returned page only.
func (r *Resolver) Search(ctx context.Context, query string, page, perPage int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > fetchSize {
		perPage = fetchSize
	}

	feed, err := r.client.page(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("searching catalog: %w", err)
	}
	seen := make(map[string]bool)
	collected := dedupe(parseItems(feed.Channel.Items), seen)
	totalAvailable := feed.Channel.TotalResults

	if len(collected) < perPage && totalAvailable > fetchSize {
		extra, err := r.client.page(ctx, query, fetchSize+1)
		if err != nil {
			r.logger.Warn("second catalog batch failed", "query", query, "error", err)
		} else {
			collected = append(collected, dedupe(parseItems(extra.Channel.Items), seen)...)
		}
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(collected) {
		start = len(collected)
	}
	if end > len(collected) {
		end = len(collected)
	}
	pageBooks := collected[start:end]

	if len(pageBooks) > 0 && r.covers != nil {
		isbns := make([]string, len(pageBooks))
		for i, b := range pageBooks {
			isbns[i] = b.ISBN
		}
		for i, cover := range r.covers.Resolve(ctx, isbns) {
			if cover != "" {
				pageBooks[i].Cover = cover
			}
		}
	}

	return &SearchResult{
		Books:      pageBooks,
		Page:       page,
		TotalItems: len(collected),
		TotalPages: (len(collected) + perPage - 1) / perPage,
	}, nil
}

// dedupe drops books whose ISBN was already collected. The upstream
// repeats entries across editions, and totals count distinct ISBNs.
func dedupe(books []Book, seen map[string]bool) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if seen[b.ISBN] {
			continue
		}
		seen[b.ISBN] = true
		out = append(out, b)
	}
	return out
}
