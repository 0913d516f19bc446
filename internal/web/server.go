// Package web serves the site: HTML pages for posts and the roadmap, a
// read-only JSON API over the same collections, and Prometheus metrics.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/metrics"
	"github.com/demofrager/whoami/internal/model"
	"github.com/demofrager/whoami/internal/ranking"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// HomepagePosts is the number of posts shown on the homepage.
const HomepagePosts = 3

// Loader builds the ordered collections. Every request calls it afresh.
type Loader interface {
	LoadPosts(dir string) ([]model.Post, error)
	LoadRoadmap(dir string) ([]model.RoadmapEntry, error)
}

// Options configures the HTTP handler.
type Options struct {
	Loader     Loader
	BlogDir    string
	RoadmapDir string
	GitHubURL  string
	// LogIPs enables the per-request access log.
	LogIPs bool
	Logger *zap.Logger
}

// Server is the site's http.Handler.
type Server struct {
	opts    Options
	log     *zap.Logger
	pages   map[string]*template.Template
	handler http.Handler
}

var pageNames = []string{"index", "venting_list", "venting_post", "roadmap_list", "roadmap_post"}

// New parses the page templates and builds the route table.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil {
		return nil, errors.New("web: Loader is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{opts: opts, log: opts.Logger, pages: make(map[string]*template.Template)}

	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		s.pages[name] = t
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /venting", s.handlePosts)
	mux.HandleFunc("GET /venting/{slug}", s.handlePost)
	mux.HandleFunc("GET /roadmap", s.handleRoadmap)
	mux.HandleFunc("GET /roadmap/{slug}", s.handleRoadmapEntry)
	mux.HandleFunc("GET /api/posts", s.handleAPIPosts)
	mux.HandleFunc("GET /api/roadmap", s.handleAPIRoadmap)
	mux.HandleFunc("GET /api/roadmap/homepage", s.handleAPIHomepage)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	s.handler = securityHeaders(s.observe(mux))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Serve listens on addr and serves h until ctx is done, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info("serving", zap.String("addr", listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(listener) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// --- Loading ---

func (s *Server) loadPosts() ([]model.Post, error) {
	start := time.Now()
	posts, err := s.opts.Loader.LoadPosts(s.opts.BlogDir)
	if err != nil {
		return nil, err
	}
	metrics.RecordLoad("post", len(posts), time.Since(start))
	return posts, nil
}

func (s *Server) loadRoadmap() ([]model.RoadmapEntry, error) {
	start := time.Now()
	entries, err := s.opts.Loader.LoadRoadmap(s.opts.RoadmapDir)
	if err != nil {
		return nil, err
	}
	metrics.RecordLoad("roadmap", len(entries), time.Since(start))
	return entries, nil
}

// --- Pages ---

type pageData struct {
	GitHubURL string
	Posts     []model.Post
	Entries   []model.RoadmapEntry
	Post      *model.Post
	Entry     *model.RoadmapEntry
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := s.loadPosts()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	entries, err := s.loadRoadmap()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "index", pageData{
		Posts:   ranking.Top(posts, HomepagePosts),
		Entries: ranking.SelectHomepage(entries),
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.loadPosts()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "venting_list", pageData{Posts: posts})
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	posts, err := s.loadPosts()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	slug := r.PathValue("slug")
	for i := range posts {
		if posts[i].Slug == slug {
			s.render(w, r, "venting_post", pageData{Post: &posts[i]})
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadRoadmap()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.render(w, r, "roadmap_list", pageData{Entries: entries})
}

func (s *Server) handleRoadmapEntry(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadRoadmap()
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	slug := r.PathValue("slug")
	for i := range entries {
		if entries[i].Slug == slug {
			s.render(w, r, "roadmap_post", pageData{Entry: &entries[i]})
			return
		}
	}
	http.NotFound(w, r)
}

// render executes a page into a buffer first so a template error still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.GitHubURL = s.opts.GitHubURL
	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		s.serverError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// --- JSON API ---

func (s *Server) handleAPIPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.loadPosts()
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, posts)
}

func (s *Server) handleAPIRoadmap(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadRoadmap()
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleAPIHomepage(w http.ResponseWriter, r *http.Request) {
	entries, err := s.loadRoadmap()
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	writeJSON(w, ranking.SelectHomepage(entries))
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to load content")
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
