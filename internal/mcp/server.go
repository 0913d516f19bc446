// Package mcp exposes the posts and roadmap as read-only MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/model"
	"github.com/demofrager/whoami/internal/ranking"
)

// Loader builds the ordered collections.
type Loader interface {
	LoadPosts(dir string) ([]model.Post, error)
	LoadRoadmap(dir string) ([]model.RoadmapEntry, error)
}

// Options configures the MCP server.
type Options struct {
	Loader     Loader
	BlogDir    string
	RoadmapDir string
	Version    string
	Logger     *zap.Logger
}

// Server answers tool calls by loading the collections from disk each time.
type Server struct {
	opts Options
	log  *zap.Logger
}

// New returns a Server.
func New(opts Options) (*Server, error) {
	if opts.Loader == nil {
		return nil, errors.New("mcp: Loader is required")
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{opts: opts, log: opts.Logger}, nil
}

// Serve runs the MCP server on stdio until ctx is done or the client leaves.
func (s *Server) Serve(ctx context.Context) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "whoami",
		Version: s.opts.Version,
	}, nil)
	s.registerTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_posts",
		Description: "List blog posts, most recently modified first.\n\nReturns slug, title, excerpt, published date and last modified time for each post.",
	}, s.handleListPosts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_post",
		Description: "Read one blog post in full.\n\nArgs:\n  slug: Post slug as returned by list_posts\n\nReturns the post with its rendered HTML.",
	}, s.handleGetPost)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_roadmap",
		Description: "List roadmap entries in roadmap order: Now, Next, Later, Done; then nearest deadline; then most recently modified.",
	}, s.handleListRoadmap)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_roadmap_entry",
		Description: "Read one roadmap entry in full.\n\nArgs:\n  slug: Entry slug as returned by list_roadmap\n\nReturns the entry with its rendered HTML.",
	}, s.handleGetRoadmapEntry)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "homepage_roadmap",
		Description: "The in-progress highlights shown on the homepage: up to three unfinished entries with progress, furthest along first.",
	}, s.handleHomepage)
}

// Tool input types

type slugInput struct {
	Slug string `json:"slug" jsonschema:"Document slug (file name without extension)"`
}

type emptyInput struct{}

// Tool output types

type postJSON struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ContentHTML string     `json:"content_html,omitempty"`
}

type entryJSON struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	StatusClass string    `json:"status_class"`
	Deadline    string    `json:"deadline,omitempty"`
	Progress    *int      `json:"progress,omitempty"`
	Excerpt     string    `json:"excerpt"`
	UpdatedAt   time.Time `json:"updated_at"`
	ContentHTML string    `json:"content_html,omitempty"`
}

func (s *Server) postView(ctx context.Context, p model.Post, full bool) postJSON {
	v := postJSON{
		Slug:        p.Slug,
		Title:       sanitize(ctx, p.Title),
		Excerpt:     sanitize(ctx, p.Excerpt),
		PublishedAt: p.PublishedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if full {
		v.ContentHTML = sanitize(ctx, string(p.ContentHTML))
	}
	return v
}

func (s *Server) entryView(ctx context.Context, e model.RoadmapEntry, full bool) entryJSON {
	v := entryJSON{
		Slug:        e.Slug,
		Title:       sanitize(ctx, e.Title),
		Status:      e.Status,
		StatusClass: string(e.StatusClass),
		Deadline:    e.Deadline,
		Progress:    e.Progress,
		Excerpt:     sanitize(ctx, e.Excerpt),
		UpdatedAt:   e.UpdatedAt,
	}
	if full {
		v.ContentHTML = sanitize(ctx, string(e.ContentHTML))
	}
	return v
}

// Tool handlers

func (s *Server) handleListPosts(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	posts, err := s.opts.Loader.LoadPosts(s.opts.BlogDir)
	if err != nil {
		return s.loadError("posts", err), nil, nil
	}
	if len(posts) == 0 {
		return textResult("No posts found."), nil, nil
	}
	out := make([]postJSON, len(posts))
	for i, p := range posts {
		out[i] = s.postView(ctx, p, false)
	}
	return jsonResult(out), nil, nil
}

func (s *Server) handleGetPost(ctx context.Context, req *mcp.CallToolRequest, input slugInput) (*mcp.CallToolResult, any, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return textResult("Error: slug is required."), nil, nil
	}
	posts, err := s.opts.Loader.LoadPosts(s.opts.BlogDir)
	if err != nil {
		return s.loadError("posts", err), nil, nil
	}
	for _, p := range posts {
		if p.Slug == slug {
			return jsonResult(s.postView(ctx, p, true)), nil, nil
		}
	}
	return textResult(fmt.Sprintf("Post not found: %s", slug)), nil, nil
}

func (s *Server) handleListRoadmap(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	entries, err := s.opts.Loader.LoadRoadmap(s.opts.RoadmapDir)
	if err != nil {
		return s.loadError("roadmap", err), nil, nil
	}
	if len(entries) == 0 {
		return textResult("The roadmap is empty."), nil, nil
	}
	return jsonResult(s.entryViews(ctx, entries)), nil, nil
}

func (s *Server) handleGetRoadmapEntry(ctx context.Context, req *mcp.CallToolRequest, input slugInput) (*mcp.CallToolResult, any, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		return textResult("Error: slug is required."), nil, nil
	}
	entries, err := s.opts.Loader.LoadRoadmap(s.opts.RoadmapDir)
	if err != nil {
		return s.loadError("roadmap", err), nil, nil
	}
	for _, e := range entries {
		if e.Slug == slug {
			return jsonResult(s.entryView(ctx, e, true)), nil, nil
		}
	}
	return textResult(fmt.Sprintf("Roadmap entry not found: %s", slug)), nil, nil
}

func (s *Server) handleHomepage(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	entries, err := s.opts.Loader.LoadRoadmap(s.opts.RoadmapDir)
	if err != nil {
		return s.loadError("roadmap", err), nil, nil
	}
	selected := ranking.SelectHomepage(entries)
	if len(selected) == 0 {
		return textResult("Nothing in progress."), nil, nil
	}
	return jsonResult(s.entryViews(ctx, selected)), nil, nil
}

func (s *Server) entryViews(ctx context.Context, entries []model.RoadmapEntry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = s.entryView(ctx, e, false)
	}
	return out
}

// Helpers

func (s *Server) loadError(kind string, err error) *mcp.CallToolResult {
	s.log.Error("load failed", zap.String("kind", kind), zap.Error(err))
	return textResult(fmt.Sprintf("Error loading %s.", kind))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return textResult(string(data))
}
