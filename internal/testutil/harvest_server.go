package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FakeToken is the API token FakeHarvest accepts.
const FakeToken = "test-token"

// FakeHarvest is an in-memory Harvest API: paginated collections, single documents and
// unauthenticated attachment files, with per-path failure injection and request counters.
type FakeHarvest struct {
	// IgnoreDateFilter makes collections ignore created_after/created_before.
	IgnoreDateFilter bool

	server *httptest.Server

	mu           sync.Mutex
	collections  map[string][]map[string]any
	documents    map[string]any
	files        map[string][]byte
	failures     map[string]int
	pageFailures map[string]int
	hits         map[string]int
	queries      map[string][]url.Values
	auth         map[string][]bool
}

// NewFakeHarvest starts a fake server that is closed when the test ends.
func NewFakeHarvest(t TestingTB) *FakeHarvest {
	t.Helper()
	f := &FakeHarvest{
		collections:  make(map[string][]map[string]any),
		documents:    make(map[string]any),
		files:        make(map[string][]byte),
		failures:     make(map[string]int),
		pageFailures: make(map[string]int),
		hits:         make(map[string]int),
		queries:      make(map[string][]url.Values),
		auth:         make(map[string][]bool),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL is the API root to configure clients with.
func (f *FakeHarvest) BaseURL() string {
	return f.server.URL + "/v1/"
}

// Client returns the server's HTTP client.
func (f *FakeHarvest) Client() *http.Client {
	return f.server.Client()
}

// FileURL returns a signed-looking download URL for a file registered with SetFile.
func (f *FakeHarvest) FileURL(name string) string {
	return f.server.URL + "/files/" + name + "?signature=s3cr3t"
}

// SetCollection replaces the items served under a list resource such as "candidates".
func (f *FakeHarvest) SetCollection(resource string, items ...map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collections[resource] = items
}

// SetDocument serves doc as JSON at resource, e.g. "candidates/12/activity_feed".
func (f *FakeHarvest) SetDocument(resource string, doc any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents[resource] = doc
}

// SetFile serves body at FileURL(name).
func (f *FakeHarvest) SetFile(name string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = body
}

// Fail makes every request to resource (or "files/<name>") answer with status.
func (f *FakeHarvest) Fail(resource string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[resource] = status
}

// FailPage makes one page of a collection answer with status.
func (f *FakeHarvest) FailPage(resource string, page, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageFailures[pageKey(resource, page)] = status
}

// Hits returns how many requests reached resource (or "files/<name>").
func (f *FakeHarvest) Hits(resource string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[resource]
}

// Queries returns the query strings received for a collection, in order.
func (f *FakeHarvest) Queries(resource string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.queries[resource]...)
}

// Authenticated reports, per request, whether basic auth credentials were sent to resource.
func (f *FakeHarvest) Authenticated(resource string) []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.auth[resource]...)
}

func (f *FakeHarvest) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	resource := strings.TrimPrefix(r.URL.Path, "/")
	resource = strings.TrimPrefix(resource, "v1/")
	f.hits[resource]++
	user, _, hasAuth := r.BasicAuth()
	f.auth[resource] = append(f.auth[resource], hasAuth)

	if status, ok := f.failures[resource]; ok {
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "30")
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	if name, ok := strings.CutPrefix(resource, "files/"); ok {
		body, found := f.files[name]
		if !found {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
		return
	}

	if !hasAuth || user != FakeToken {
		http.Error(w, `{"message":"Invalid Basic Auth credentials"}`, http.StatusUnauthorized)
		return
	}

	if doc, ok := f.documents[resource]; ok {
		writeJSON(w, doc)
		return
	}
	items, ok := f.collections[resource]
	if !ok {
		http.Error(w, `{"message":"Resource not found"}`, http.StatusNotFound)
		return
	}
	f.queries[resource] = append(f.queries[resource], r.URL.Query())
	f.servePage(w, r, resource, items)
}

func (f *FakeHarvest) servePage(w http.ResponseWriter, r *http.Request, resource string, items []map[string]any) {
	q := r.URL.Query()
	perPage := atoiDefault(q.Get("per_page"), 100)
	page := atoiDefault(q.Get("page"), 1)

	if status, ok := f.pageFailures[pageKey(resource, page)]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}

	if !f.IgnoreDateFilter {
		items = filterCreated(items, q.Get("created_after"), q.Get("created_before"))
	}

	start := min((page-1)*perPage, len(items))
	end := min(start+perPage, len(items))
	if end < len(items) {
		next := *r.URL
		nq := next.Query()
		nq.Set("page", strconv.Itoa(page+1))
		next.RawQuery = nq.Encode()
		w.Header().Set("Link", `<http://`+r.Host+next.RequestURI()+`>; rel="next"`)
	}

	out := items[start:end]
	if out == nil {
		out = []map[string]any{}
	}
	writeJSON(w, out)
}

func filterCreated(items []map[string]any, after, before string) []map[string]any {
	lo, hasLo := parseQueryTime(after)
	hi, hasHi := parseQueryTime(before)
	if !hasLo && !hasHi {
		return items
	}
	var out []map[string]any
	for _, item := range items {
		raw, _ := item["created_at"].(string)
		created, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			out = append(out, item)
			continue
		}
		if hasLo && created.Before(lo) {
			continue
		}
		if hasHi && !created.Before(hi) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func parseQueryTime(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	return t, err == nil
}

func pageKey(resource string, page int) string {
	return resource + "#" + strconv.Itoa(page)
}

func atoiDefault(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
