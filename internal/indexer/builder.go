package indexer

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/demofrager/whoami/internal/markdown"
	"github.com/demofrager/whoami/internal/model"
)

// Renderer turns markdown into HTML.
type Renderer interface {
	Render(text string, exts []markdown.Extension) (string, error)
}

// BuildPost assembles a Post. The rendered HTML includes the title line.
func BuildPost(raw RawDocument, r Renderer, block bool) (model.Post, []Issue, error) {
	doc := ParseDocument(raw.Text, KindPost, block)
	meta, issues := CoercePost(doc.Fields)

	lines := doc.Body
	if doc.TitleLine != "" {
		lines = append([]string{doc.TitleLine}, doc.Body...)
	}
	html, err := r.Render(strings.TrimSpace(strings.Join(lines, "\n")), markdown.DefaultExtensions)
	if err != nil {
		return model.Post{}, nil, fmt.Errorf("%s: %w", raw.Path, err)
	}

	return model.Post{
		Slug:        raw.Slug(),
		Title:       doc.Title,
		Excerpt:     Excerpt(doc.BodyText()),
		ContentHTML: template.HTML(html),
		PublishedAt: meta.PublishedAt,
		UpdatedAt:   raw.ModTime,
	}, issues, nil
}

// BuildRoadmapEntry assembles a RoadmapEntry. Unlike posts, the title line
// is left out of the rendered HTML; the page template supplies the heading.
func BuildRoadmapEntry(raw RawDocument, r Renderer, block bool) (model.RoadmapEntry, []Issue, error) {
	doc := ParseDocument(raw.Text, KindRoadmap, block)
	meta, issues := CoerceRoadmap(doc.Fields)

	body := doc.BodyText()
	html, err := r.Render(body, markdown.DefaultExtensions)
	if err != nil {
		return model.RoadmapEntry{}, nil, fmt.Errorf("%s: %w", raw.Path, err)
	}

	return model.RoadmapEntry{
		Slug:        raw.Slug(),
		Title:       doc.Title,
		Status:      meta.Status,
		StatusClass: model.ClassifyStatus(meta.Status),
		Deadline:    meta.Deadline,
		Progress:    meta.Progress,
		Excerpt:     Excerpt(body),
		ContentHTML: template.HTML(html),
		UpdatedAt:   raw.ModTime,
	}, issues, nil
}
