package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/demofrager/whoami/internal/indexer"
	"github.com/demofrager/whoami/internal/model"
)

func writeFile(t *testing.T, dir, name, text string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// newSite builds a server over a temp content tree with four posts and a
// handful of roadmap entries.
func newSite(t *testing.T, logger *zap.Logger) *Server {
	t.Helper()
	root := t.TempDir()
	blogs := filepath.Join(root, "blogs")
	roadmap := filepath.Join(root, "roadmap")
	for _, d := range []string{blogs, roadmap} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, blogs, "oldest.md", "# Oldest\nfirst words", base)
	writeFile(t, blogs, "older.md", "# Older\nolder words", base.Add(time.Hour))
	writeFile(t, blogs, "newer.md", "# Newer\ndate: 2026-01-01\nnewer words", base.Add(2*time.Hour))
	writeFile(t, blogs, "newest.md", "# Newest\nnewest words <script>alert(1)</script>", base.Add(3*time.Hour))

	writeFile(t, roadmap, "half.md", "# Half\nstatus: Now\nprogress: 50\nhalf way", base)
	writeFile(t, roadmap, "almost.md", "# Almost\nstatus: Next\nprogress: 95%\nnearly", base)
	writeFile(t, roadmap, "finished.md", "# Finished\nstatus: Done\nprogress: 100\ndone", base)
	writeFile(t, roadmap, "someday.md", "# Someday\nstatus: Later\nsome day", base)

	if logger == nil {
		logger = zap.NewNop()
	}
	s, err := New(Options{
		Loader:     indexer.New(indexer.Options{Logger: logger}),
		BlogDir:    blogs,
		RoadmapDir: roadmap,
		GitHubURL:  "https://github.com/example",
		LogIPs:     true,
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndex_ShowsTopPostsAndHomepageRoadmap(t *testing.T) {
	rr := get(t, newSite(t, nil), "/", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Newest", "Newer", "Older", "Almost", "Half", "https://github.com/example"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, "Oldest") {
		t.Error("index should show only the three most recent posts")
	}
	if strings.Contains(body, "Finished") || strings.Contains(body, "Someday") {
		t.Error("index should only show in-progress roadmap entries")
	}
	if strings.Index(body, "Almost") > strings.Index(body, "Half") {
		t.Error("higher progress should come first")
	}
}

func TestVentingPages(t *testing.T) {
	s := newSite(t, nil)

	rr := get(t, s, "/venting", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Oldest") {
		t.Fatalf("/venting = %d", rr.Code)
	}

	rr = get(t, s, "/venting/newer", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("/venting/newer = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<h1>Newer</h1>") {
		t.Errorf("post page should render the title heading: %s", body)
	}
	if !strings.Contains(body, `datetime="2026-01-01"`) {
		t.Errorf("post page missing publish date")
	}

	if rr := get(t, s, "/venting/missing", nil); rr.Code != http.StatusNotFound {
		t.Errorf("/venting/missing = %d, want 404", rr.Code)
	}
}

func TestRoadmapPages(t *testing.T) {
	s := newSite(t, nil)

	rr := get(t, s, "/roadmap", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("/roadmap = %d", rr.Code)
	}
	body := rr.Body.String()
	order := []string{"Half", "Almost", "Someday", "Finished"}
	last := -1
	for _, title := range order {
		i := strings.Index(body, ">"+title+"<")
		if i < 0 || i < last {
			t.Fatalf("roadmap order wrong at %q", title)
		}
		last = i
	}

	rr = get(t, s, "/roadmap/almost", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("/roadmap/almost = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "status-next") || !strings.Contains(rr.Body.String(), "95% done") {
		t.Errorf("entry page missing status or progress")
	}

	if rr := get(t, s, "/roadmap/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("/roadmap/nope = %d, want 404", rr.Code)
	}
}

func TestAPI(t *testing.T) {
	s := newSite(t, nil)

	rr := get(t, s, "/api/posts", nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("/api/posts = %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	var posts []model.Post
	if err := json.NewDecoder(rr.Body).Decode(&posts); err != nil {
		t.Fatal(err)
	}
	if len(posts) != 4 || posts[0].Slug != "newest" {
		t.Errorf("posts = %+v", posts)
	}

	rr = get(t, s, "/api/roadmap/homepage", nil)
	var entries []model.RoadmapEntry
	if err := json.NewDecoder(rr.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Slug != "almost" || entries[1].Slug != "half" {
		t.Errorf("homepage = %+v", entries)
	}

	rr = get(t, s, "/api/roadmap", nil)
	entries = nil
	if err := json.NewDecoder(rr.Body).Decode(&entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("roadmap = %d entries", len(entries))
	}
}

func TestPostHTMLIsRenderedRaw(t *testing.T) {
	rr := get(t, newSite(t, nil), "/venting/newest", nil)
	if !strings.Contains(rr.Body.String(), "<script>alert(1)</script>") {
		t.Error("content HTML should not be escaped by the page template")
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := get(t, newSite(t, nil), "/venting", nil)
	if rr.Header().Get("X-Frame-Options") != "DENY" || rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Errorf("missing security headers: %v", rr.Header())
	}
}

func TestStaticAndMetrics(t *testing.T) {
	s := newSite(t, nil)
	if rr := get(t, s, "/static/style.css", nil); rr.Code != http.StatusOK {
		t.Errorf("/static/style.css = %d", rr.Code)
	}
	get(t, s, "/venting", map[string]string{"CF-IPCountry": "NZ"})
	rr := get(t, s, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `whoami_http_requests_total{country="NZ",endpoint="/venting",http_status="200",method="GET"}`) {
		t.Errorf("request counter missing from /metrics")
	}
	if !strings.Contains(body, "whoami_documents") {
		t.Errorf("documents gauge missing from /metrics")
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newSite(t, zap.New(core))

	get(t, s, "/venting/ghost", map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
		"X-Geo-Country":   "PT",
		"User-Agent":      "curl/8",
	})
	get(t, s, "/metrics", nil)
	get(t, s, "/static/style.css", nil)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("access log entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	want := map[string]any{
		"ip":         "203.0.113.9",
		"method":     "GET",
		"path":       "/venting/ghost",
		"endpoint":   "/venting/{slug}",
		"status":     int64(404),
		"country":    "PT",
		"user_agent": "curl/8",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("%s = %#v, want %#v", k, fields[k], v)
		}
	}
}

func TestAccessLog_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newSite(t, zap.New(core))
	s.opts.LogIPs = false
	get(t, s, "/", nil)
	if n := logs.FilterMessage("request").Len(); n != 0 {
		t.Errorf("access log entries = %d, want 0", n)
	}
}

type failingLoader struct{}

func (failingLoader) LoadPosts(string) ([]model.Post, error) {
	return nil, errors.New("disk on fire")
}

func (failingLoader) LoadRoadmap(string) ([]model.RoadmapEntry, error) {
	return nil, errors.New("disk on fire")
}

func TestLoadErrorsAre500(t *testing.T) {
	s, err := New(Options{Loader: failingLoader{}})
	if err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{"/", "/venting", "/venting/x", "/roadmap", "/roadmap/x"} {
		if rr := get(t, s, path, nil); rr.Code != http.StatusInternalServerError {
			t.Errorf("%s = %d, want 500", path, rr.Code)
		}
	}
	rr := get(t, s, "/api/posts", nil)
	if rr.Code != http.StatusInternalServerError || !strings.Contains(rr.Body.String(), `"error"`) {
		t.Errorf("/api/posts = %d %s", rr.Code, rr.Body.String())
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	if rr := get(t, newSite(t, nil), "/nope", nil); rr.Code != http.StatusNotFound {
		t.Errorf("/nope = %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded first", map[string]string{"X-Forwarded-For": " 1.2.3.4 , 5.6.7.8", "X-Real-IP": "9.9.9.9"}, "10.0.0.1:5000", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": " 9.9.9.9 "}, "10.0.0.1:5000", "9.9.9.9"},
		{"remote addr", nil, "10.0.0.1:5000", "10.0.0.1"},
		{"unknown", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClientCountry(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := clientCountry(r); got != "unknown" {
		t.Errorf("no headers = %q", got)
	}
	r.Header.Set("X-Geo-Country", "DE")
	if got := clientCountry(r); got != "DE" {
		t.Errorf("geo = %q", got)
	}
	r.Header.Set("CF-IPCountry", "FR")
	if got := clientCountry(r); got != "FR" {
		t.Errorf("cloudflare = %q", got)
	}
}

func TestEndpointLabel(t *testing.T) {
	tests := map[string]string{
		"":                    "not_found",
		"GET /{$}":            "/",
		"GET /venting/{slug}": "/venting/{slug}",
		"/plain":              "/plain",
	}
	for in, want := range tests {
		if got := endpointLabel(in); got != want {
			t.Errorf("endpointLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
