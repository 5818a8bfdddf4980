package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// FetchMetadata looks up the full record for one ISBN. It returns
// ErrNotFound when the catalog has no matching item. The cover goes
// through the same provider chain as search results.
func (r *Resolver) FetchMetadata(ctx context.Context, isbn string) (*Metadata, error) {
	clean := strings.ReplaceAll(isbn, "-", "")
	params := url.Values{}
	params.Set("isbn", clean)
	params.Set("cnt", "1")

	feed, err := r.client.fetch(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", isbn, err)
	}
	if len(feed.Channel.Items) == 0 {
		return nil, fmt.Errorf("%w: isbn %s", ErrNotFound, isbn)
	}
	item := feed.Channel.Items[0]

	resolved := clean
	if resolved == "" {
		resolved = ExtractISBN(item.Identifiers)
	}

	meta := &Metadata{
		ISBN:          resolved,
		Title:         FirstValue(item.Titles),
		Authors:       Values(item.Creators),
		Publisher:     FirstValue(item.Publishers),
		PublishedYear: FirstValue(item.Issued),
		Language:      FirstValue(item.Languages),
		Description:   FirstValue(item.Descriptions),
		NDC:           SplitNDC(ExtractNDC(item.Subjects)),
		Subjects:      SubjectNames(item.Subjects),
		Cover:         NoImage,
	}

	if r.covers != nil && meta.ISBN != "" {
		if covers := r.covers.Resolve(ctx, []string{meta.ISBN}); len(covers) == 1 && covers[0] != "" {
			meta.Cover = covers[0]
		}
	}
	return meta, nil
}
