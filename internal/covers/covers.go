// Package covers resolves cover image URLs for ISBNs, trying openBD
// first and falling back to Google Books. Both providers are rate
// sensitive, so lookups pass through a small shared admission gate with
// a pause after each admission.
package covers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultOpenBDURL is the public openBD lookup endpoint.
	DefaultOpenBDURL = "https://api.openbd.jp/v1/get"
	// DefaultGoogleBooksURL is the public Google Books volumes endpoint.
	DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1/volumes"

	maxInFlight    = 3
	openBDTimeout  = 3 * time.Second
	googleTimeout  = 5 * time.Second
	admissionPause = 500 * time.Millisecond
	providerPause  = 300 * time.Millisecond
)

// Config holds resolver settings. Zero values select the public
// endpoints and the default pacing. An empty GoogleAPIKey disables the
// Google Books fallback entirely.
type Config struct {
	GoogleAPIKey   string
	OpenBDURL      string
	GoogleBooksURL string
	AdmissionPause time.Duration
	ProviderPause  time.Duration
	Logger         *slog.Logger
}

// Resolver fetches covers through the provider chain. One resolver is
// shared by all requests so the admission gate is global.
type Resolver struct {
	cfg    Config
	http   *http.Client
	gate   chan struct{}
	logger *slog.Logger
}

// NewResolver creates a cover resolver from cfg.
func NewResolver(cfg Config) *Resolver {
	if cfg.OpenBDURL == "" {
		cfg.OpenBDURL = DefaultOpenBDURL
	}
	if cfg.GoogleBooksURL == "" {
		cfg.GoogleBooksURL = DefaultGoogleBooksURL
	}
	if cfg.AdmissionPause == 0 {
		cfg.AdmissionPause = admissionPause
	}
	if cfg.ProviderPause == 0 {
		cfg.ProviderPause = providerPause
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.GoogleAPIKey == "" {
		logger.Warn("google books api key not set, fallback provider disabled")
	}
	return &Resolver{
		cfg:    cfg,
		http:   &http.Client{},
		gate:   make(chan struct{}, maxInFlight),
		logger: logger.With("component", "covers"),
	}
}

// Resolve looks up covers for all ISBNs concurrently and returns them in
// input order. Entries that resolved nothing hold "". It blocks until
// every lookup finished or the context ended.
func (r *Resolver) Resolve(ctx context.Context, isbns []string) []string {
	results := make([]string, len(isbns))
	var wg sync.WaitGroup
	for i, isbn := range isbns {
		wg.Add(1)
		go func(i int, isbn string) {
			defer wg.Done()
			select {
			case r.gate <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-r.gate }()
			if !sleepCtx(ctx, r.cfg.AdmissionPause) {
				return
			}
			results[i] = r.resolveOne(ctx, isbn)
		}(i, isbn)
	}
	wg.Wait()
	return results
}

// resolveOne walks the provider chain for a single ISBN. Provider
// failures are logged and treated as "no cover".
func (r *Resolver) resolveOne(ctx context.Context, isbn string) string {
	cover, err := r.fetchOpenBD(ctx, isbn)
	if err != nil {
		r.logger.Debug("openbd lookup failed", "isbn", isbn, "error", err)
	}
	if cover != "" {
		r.logger.Info("cover found via openbd", "isbn", isbn)
		return cover
	}

	if !sleepCtx(ctx, r.cfg.ProviderPause) {
		return ""
	}

	cover, err = r.fetchGoogle(ctx, isbn)
	if err != nil {
		r.logger.Debug("google books lookup failed", "isbn", isbn, "error", err)
	}
	return cover
}

func (r *Resolver) fetchOpenBD(ctx context.Context, isbn string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, openBDTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.OpenBDURL+"?isbn="+url.QueryEscape(isbn), nil)
	if err != nil {
		return "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openbd status %d", resp.StatusCode)
	}

	// openBD answers with one entry per requested ISBN, null for misses.
	var payload []*struct {
		Summary struct {
			Cover string `json:"cover"`
		} `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload) == 0 || payload[0] == nil {
		return "", nil
	}
	return secureURL(payload[0].Summary.Cover), nil
}

// fetchGoogle queries Google Books. A 403 means the key is throttled and
// is treated as a miss rather than an error so the batch keeps moving.
func (r *Resolver) fetchGoogle(ctx context.Context, isbn string) (string, error) {
	if r.cfg.GoogleAPIKey == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, googleTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", "isbn:"+isbn)
	params.Set("key", r.cfg.GoogleAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.GoogleBooksURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		r.logger.Warn("google books rate limited, skipping", "isbn", isbn)
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google books status %d", resp.StatusCode)
	}

	var payload struct {
		Items []struct {
			VolumeInfo struct {
				ImageLinks struct {
					Thumbnail string `json:"thumbnail"`
				} `json:"imageLinks"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 {
		return "", nil
	}
	return secureURL(payload.Items[0].VolumeInfo.ImageLinks.Thumbnail), nil
}

// secureURL upgrades provider image links to https. Both providers still
// hand out plain http links for older records.
func secureURL(u string) string {
	return strings.Replace(u, "http://", "https://", 1)
}

// sleepCtx waits for d, returning false if the context ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
