package catalog

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultEndpoint is the public NDL OpenSearch API.
const DefaultEndpoint = "https://ndlsearch.ndl.go.jp/api/opensearch"

// fetchSize is the fixed batch size requested from the upstream,
// independent of the page size the caller asked for.
const fetchSize = 100

var (
	// ErrUpstreamTimeout reports that the catalog did not answer in time.
	ErrUpstreamTimeout = errors.New("catalog request timed out")
	// ErrUpstreamStatus reports a non-200 response from the catalog.
	ErrUpstreamStatus = errors.New("catalog returned an error status")
	// ErrNotFound reports that a lookup matched no record.
	ErrNotFound = errors.New("no catalog record found")
)

// Client talks to the NDL OpenSearch endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

// NewClient creates a catalog client. An empty endpoint selects the
// public NDL API. Connection establishment is capped at 10s and the
// whole request at 20s.
func NewClient(endpoint string, logger *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
			},
		},
		logger: logger.With("component", "catalog"),
	}
}

// fetch performs one OpenSearch request and decodes the feed.
func (c *Client) fetch(ctx context.Context, params url.Values) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}

	var feed Feed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}
	return &feed, nil
}

// page fetches one fixed-size batch starting at the 1-based offset idx.
func (c *Client) page(ctx context.Context, query string, idx int) (*Feed, error) {
	params := url.Values{}
	params.Set("any", query)
	params.Set("cnt", strconv.Itoa(fetchSize))
	params.Set("idx", strconv.Itoa(idx))
	return c.fetch(ctx, params)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
