package indexer

import (
	"time"

	"go.uber.org/zap"

	"github.com/demofrager/whoami/internal/markdown"
	"github.com/demofrager/whoami/internal/model"
	"github.com/demofrager/whoami/internal/ranking"
)

// DefaultExtension is the file extension of content documents.
const DefaultExtension = ".md"

// Options configures an Indexer. Zero fields fall back to defaults.
type Options struct {
	Source    Source
	Renderer  Renderer
	Logger    *zap.Logger
	Now       func() time.Time
	Extension string
	// FrontMatterBlock enables a leading YAML block as an extra field source.
	FrontMatterBlock bool
}

// Indexer loads collections from disk. Nothing is cached: every call reads
// the directory again, so concurrent callers never share state.
type Indexer struct {
	src    Source
	render Renderer
	log    *zap.Logger
	now    func() time.Time
	ext    string
	block  bool
}

// New returns an Indexer.
func New(opts Options) *Indexer {
	ix := &Indexer{
		src:    opts.Source,
		render: opts.Renderer,
		log:    opts.Logger,
		now:    opts.Now,
		ext:    opts.Extension,
		block:  opts.FrontMatterBlock,
	}
	if ix.src == nil {
		ix.src = DirSource{}
	}
	if ix.render == nil {
		ix.render = markdown.New(true)
	}
	if ix.log == nil {
		ix.log = zap.NewNop()
	}
	if ix.now == nil {
		ix.now = time.Now
	}
	if ix.ext == "" {
		ix.ext = DefaultExtension
	}
	return ix
}

// LoadPosts builds every post in dir, newest-modified first.
func (ix *Indexer) LoadPosts(dir string) ([]model.Post, error) {
	docs, err := readAll(ix.src, dir, ix.ext)
	if err != nil {
		return nil, err
	}
	posts := make([]model.Post, 0, len(docs))
	for _, raw := range docs {
		p, issues, err := BuildPost(raw, ix.render, ix.block)
		if err != nil {
			return nil, err
		}
		ix.logIssues(KindPost, p.Slug, issues)
		posts = append(posts, p)
	}
	ranking.SortPosts(posts)
	return posts, nil
}

// LoadRoadmap builds every roadmap entry in dir in full roadmap order.
func (ix *Indexer) LoadRoadmap(dir string) ([]model.RoadmapEntry, error) {
	docs, err := readAll(ix.src, dir, ix.ext)
	if err != nil {
		return nil, err
	}
	entries := make([]model.RoadmapEntry, 0, len(docs))
	for _, raw := range docs {
		e, issues, err := BuildRoadmapEntry(raw, ix.render, ix.block)
		if err != nil {
			return nil, err
		}
		ix.logIssues(KindRoadmap, e.Slug, issues)
		entries = append(entries, e)
	}
	ranking.SortRoadmap(entries, ix.now())
	return entries, nil
}

func (ix *Indexer) logIssues(kind Kind, slug string, issues []Issue) {
	for _, is := range issues {
		ix.log.Debug("field ignored",
			zap.String("kind", string(kind)),
			zap.String("slug", slug),
			zap.String("field", is.Field),
			zap.String("value", is.Value),
			zap.String("reason", is.Reason),
		)
	}
}
