package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/api"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/catalog"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/db"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/graph"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/hand"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/layout"
	"github.com/ImoImoImokenpi/Growth-bookshelf/internal/svcctx"
)

const feedHeader = `<rss version="2.0"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
  xmlns:openSearch="http://a9.com/-/spec/opensearchrss/1.0/">`

func feedXML(total int, items ...string) string {
	return fmt.Sprintf(`%s<channel>
  <openSearch:totalResults>%d</openSearch:totalResults>
  %s
</channel></rss>`, feedHeader, total, strings.Join(items, "\n"))
}

func itemXML(isbn, title string) string {
	return fmt.Sprintf(`<item>
  <dc:title>%s</dc:title>
  <link>https://ndlsearch.ndl.go.jp/books/%s</link>
  <dc:creator>夏目漱石</dc:creator>
  <dc:identifier xsi:type="dcndl:ISBN">%s</dc:identifier>
</item>`, title, isbn, isbn)
}

// catalogUpstream serves a minimal NDL feed. An isbn query returns one
// matching item, everything else returns two hits.
func catalogUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isbn := r.URL.Query().Get("isbn"); isbn != "" {
			if isbn == "9999999999999" {
				fmt.Fprint(w, feedXML(0))
				return
			}
			fmt.Fprint(w, feedXML(1, itemXML(isbn, "こころ")))
			return
		}
		fmt.Fprint(w, feedXML(2,
			itemXML("9784101010014", "こころ"),
			itemXML("9784101010021", "坊っちゃん"),
		))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testServices wires real SQLite-backed stores and a catalog resolver
// against the fake upstream. The graph store is lazily connected and
// never dialed by these tests.
func testServices(t *testing.T) *svcctx.Services {
	t.Helper()

	upstream := catalogUpstream(t)

	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	handStore, err := hand.NewStore(sqlDB)
	if err != nil {
		t.Fatalf("hand store: %v", err)
	}
	layoutStore, err := layout.NewStore(sqlDB)
	if err != nil {
		t.Fatalf("layout store: %v", err)
	}

	graphStore, err := graph.NewStore("bolt://localhost:9", "neo4j", "test", nil)
	if err != nil {
		t.Fatalf("graph store: %v", err)
	}
	t.Cleanup(func() { graphStore.Close(t.Context()) })

	resolver := catalog.NewResolver(catalog.NewClient(upstream.URL, nil), nil, nil)

	return &svcctx.Services{
		Catalog:   resolver,
		Graph:     graphStore,
		Hand:      handStore,
		Layout:    layoutStore,
		Rebuilder: layout.NewRebuilder(graphStore, layoutStore, 5, 3, nil),
	}
}

// do runs one request through a registered endpoint handler with the
// services attached, using a mux so path values resolve.
func do(t *testing.T, svcs *svcctx.Services, req *http.Request, eps ...api.Endpoint) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	for _, ep := range eps {
		method, path, handler := ep.Route()
		mux.HandleFunc(method+" "+path, handler)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req.WithContext(svcctx.WithServices(req.Context(), svcs)))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, &svcctx.Services{}, httptest.NewRequest("GET", "/health", nil), &HealthEndpoint{})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
}

func TestSearchEndpoint(t *testing.T) {
	svcs := testServices(t)

	rec := do(t, svcs, httptest.NewRequest("GET", "/search?q=kokoro", nil), &SearchEndpoint{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var res catalog.SearchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(res.Books) != 2 || res.TotalItems != 2 {
		t.Errorf("got %d books, total %d, want 2/2", len(res.Books), res.TotalItems)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	svcs := testServices(t)

	rec := do(t, svcs, httptest.NewRequest("GET", "/search", nil), &SearchEndpoint{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandLifecycle(t *testing.T) {
	svcs := testServices(t)
	eps := []api.Endpoint{
		&HandListEndpoint{}, &AddToHandEndpoint{}, &RemoveFromHandEndpoint{},
	}

	// Stage a book
	body := strings.NewReader(`{"isbn":"9784101010014"}`)
	req := httptest.NewRequest("POST", "/books/add_to_hand", body)
	rec := do(t, svcs, req, eps...)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, body %s", rec.Code, rec.Body)
	}
	var added AddToHandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if added.Message != "added" || added.ISBN != "9784101010014" {
		t.Errorf("add response = %+v", added)
	}

	// Staging again reports the existing row
	body = strings.NewReader(`{"isbn":"9784101010014"}`)
	rec = do(t, svcs, httptest.NewRequest("POST", "/books/add_to_hand", body), eps...)
	var again AddToHandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &again); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if again.Message != "already exists" || again.ID != added.ID {
		t.Errorf("repeat add = %+v, want existing id %d", again, added.ID)
	}

	// List shows the staged book with fetched metadata
	rec = do(t, svcs, httptest.NewRequest("GET", "/books/myhand", nil), eps...)
	var books []hand.Book
	if err := json.Unmarshal(rec.Body.Bytes(), &books); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(books) != 1 || books[0].Title != "こころ" {
		t.Fatalf("list = %+v", books)
	}

	// Remove it
	rec = do(t, svcs, httptest.NewRequest("DELETE", "/books/remove_from_hand/9784101010014", nil), eps...)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body %s", rec.Code, rec.Body)
	}

	rec = do(t, svcs, httptest.NewRequest("GET", "/books/myhand", nil), eps...)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("list after remove = %s, want []", body)
	}
}

func TestAddToHandUnknownISBN(t *testing.T) {
	svcs := testServices(t)

	body := strings.NewReader(`{"isbn":"9999999999999"}`)
	rec := do(t, svcs, httptest.NewRequest("POST", "/books/add_to_hand", body), &AddToHandEndpoint{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddToHandRequiresISBN(t *testing.T) {
	svcs := testServices(t)

	rec := do(t, svcs, httptest.NewRequest("POST", "/books/add_to_hand", strings.NewReader(`{}`)), &AddToHandEndpoint{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRemoveFromHandMissing(t *testing.T) {
	svcs := testServices(t)

	rec := do(t, svcs, httptest.NewRequest("DELETE", "/books/remove_from_hand/9784101010014", nil), &RemoveFromHandEndpoint{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddFromHandRequiresISBNs(t *testing.T) {
	svcs := testServices(t)

	rec := do(t, svcs, httptest.NewRequest("POST", "/books/add_from_hand", strings.NewReader(`{"isbns":[]}`)), &AddFromHandEndpoint{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSplitPair(t *testing.T) {
	cases := []struct {
		in         string
		key, value string
		ok         bool
	}{
		{"isbn=note text", "isbn", "note text", true},
		{"a=b=c", "a", "b=c", true},
		{"=text", "", "", false},
		{"no separator", "", "", false},
	}
	for _, tc := range cases {
		key, value, ok := splitPair(tc.in)
		if key != tc.key || value != tc.value || ok != tc.ok {
			t.Errorf("splitPair(%q) = %q %q %v, want %q %q %v",
				tc.in, key, value, ok, tc.key, tc.value, tc.ok)
		}
	}
}
