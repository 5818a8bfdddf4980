package covers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastConfig(openBD, google *httptest.Server, key string) Config {
	cfg := Config{
		GoogleAPIKey:   key,
		AdmissionPause: time.Millisecond,
		ProviderPause:  time.Millisecond,
	}
	if openBD != nil {
		cfg.OpenBDURL = openBD.URL
	}
	if google != nil {
		cfg.GoogleBooksURL = google.URL
	}
	return cfg
}

func openBDHit(cover string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"summary":{"cover":%q}}]`, cover)
	}
}

func openBDMiss() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[null]`)
	}
}

func TestResolvePrimaryProviderWins(t *testing.T) {
	openBD := httptest.NewServer(openBDHit("https://cover.openbd.jp/1.jpg"))
	defer openBD.Close()
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("google books must not be called when openbd hits")
	}))
	defer google.Close()

	r := NewResolver(fastConfig(openBD, google, "key"))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if len(got) != 1 || got[0] != "https://cover.openbd.jp/1.jpg" {
		t.Errorf("Resolve = %v", got)
	}
}

func TestResolveFallsBackToGoogle(t *testing.T) {
	openBD := httptest.NewServer(openBDMiss())
	defer openBD.Close()
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "isbn:9784101010014" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "key" {
			t.Errorf("key = %q", got)
		}
		fmt.Fprint(w, `{"items":[{"volumeInfo":{"imageLinks":{"thumbnail":"http://books.google.com/t.jpg"}}}]}`)
	}))
	defer google.Close()

	r := NewResolver(fastConfig(openBD, google, "key"))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if got[0] != "https://books.google.com/t.jpg" {
		t.Errorf("thumbnail not rewritten to https: %q", got[0])
	}
}

func TestResolveRewritesOpenBDToHTTPS(t *testing.T) {
	openBD := httptest.NewServer(openBDHit("http://cover.openbd.jp/1.jpg"))
	defer openBD.Close()

	r := NewResolver(fastConfig(openBD, nil, ""))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if got[0] != "https://cover.openbd.jp/1.jpg" {
		t.Errorf("openbd cover not rewritten to https: %q", got[0])
	}
}

func TestResolveSkipsGoogleWithoutKey(t *testing.T) {
	openBD := httptest.NewServer(openBDMiss())
	defer openBD.Close()
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("google books must not be called without an api key")
	}))
	defer google.Close()

	r := NewResolver(fastConfig(openBD, google, ""))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if got[0] != "" {
		t.Errorf("Resolve = %q, want empty", got[0])
	}
}

func TestResolveTreatsRateLimitAsMiss(t *testing.T) {
	openBD := httptest.NewServer(openBDMiss())
	defer openBD.Close()
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer google.Close()

	r := NewResolver(fastConfig(openBD, google, "key"))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if got[0] != "" {
		t.Errorf("Resolve = %q, want empty on 403", got[0])
	}
}

func TestResolveProviderFailureIsMiss(t *testing.T) {
	openBD := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer openBD.Close()
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer google.Close()

	r := NewResolver(fastConfig(openBD, google, "key"))
	got := r.Resolve(context.Background(), []string{"9784101010014"})
	if got[0] != "" {
		t.Errorf("Resolve = %q, want empty when both providers fail", got[0])
	}
}

func TestResolvePreservesOrder(t *testing.T) {
	openBD := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[{"summary":{"cover":"https://cover/%s"}}]`, r.URL.Query().Get("isbn"))
	}))
	defer openBD.Close()

	r := NewResolver(fastConfig(openBD, nil, ""))
	isbns := []string{"111", "222", "333", "444", "555"}
	got := r.Resolve(context.Background(), isbns)
	for i, isbn := range isbns {
		if want := "https://cover/" + isbn; got[i] != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want)
		}
	}
}

func TestResolveLimitsConcurrency(t *testing.T) {
	var inFlight, peak int64
	openBD := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		fmt.Fprint(w, `[{"summary":{"cover":"https://cover/x.jpg"}}]`)
	}))
	defer openBD.Close()

	r := NewResolver(fastConfig(openBD, nil, ""))
	isbns := make([]string, 10)
	for i := range isbns {
		isbns[i] = fmt.Sprintf("97841010100%02d", i)
	}
	r.Resolve(context.Background(), isbns)

	if p := atomic.LoadInt64(&peak); p > 3 {
		t.Errorf("peak concurrent lookups = %d, want at most 3", p)
	}
}

func TestResolveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(fastConfig(nil, nil, ""))
	got := r.Resolve(ctx, []string{"111", "222"})
	for i, v := range got {
		if v != "" {
			t.Errorf("got[%d] = %q, want empty after cancellation", i, v)
		}
	}
}
