// Package model defines the content entities served by whoami: journal posts
// and status-tracked roadmap entries.
package model

import (
	"html/template"
	"strings"
	"time"
)

// DefaultTitle is used when a document has no "# " title line.
const DefaultTitle = "Untitled"

// DefaultStatus is used when a roadmap entry has no status field.
const DefaultStatus = "Now"

// Post is a journal-style document. Values are built once per load and never
// mutated afterwards.
type Post struct {
	Slug        string        `json:"slug" yaml:"slug"`
	Title       string        `json:"title" yaml:"title"`
	Excerpt     string        `json:"excerpt" yaml:"excerpt"`
	ContentHTML template.HTML `json:"content_html" yaml:"content_html"`
	PublishedAt *time.Time    `json:"published_at,omitempty" yaml:"published_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at" yaml:"updated_at"`
}

// RoadmapEntry is a status-tracked document.
type RoadmapEntry struct {
	Slug        string        `json:"slug" yaml:"slug"`
	Title       string        `json:"title" yaml:"title"`
	Status      string        `json:"status" yaml:"status"`
	StatusClass StatusClass   `json:"status_class" yaml:"status_class"`
	Deadline    string        `json:"deadline,omitempty" yaml:"deadline,omitempty"` // raw, parsed only when ranking
	Progress    *int          `json:"progress,omitempty" yaml:"progress,omitempty"`
	Excerpt     string        `json:"excerpt" yaml:"excerpt"`
	ContentHTML template.HTML `json:"content_html" yaml:"content_html"`
	UpdatedAt   time.Time     `json:"updated_at" yaml:"updated_at"`
}

// StatusClass is one of the four presentation buckets a free-text status is
// normalized into.
type StatusClass string

const (
	StatusNow   StatusClass = "now"
	StatusNext  StatusClass = "next"
	StatusLater StatusClass = "later"
	StatusDone  StatusClass = "done"
)

// ClassifyStatus maps a free-text status onto its class, ignoring case and
// surrounding whitespace. Anything unrecognized is StatusNow.
func ClassifyStatus(status string) StatusClass {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "next":
		return StatusNext
	case "later":
		return StatusLater
	case "done":
		return StatusDone
	default:
		return StatusNow
	}
}

// Rank orders classes by urgency; lower sorts first.
func (c StatusClass) Rank() int {
	switch c {
	case StatusNext:
		return 1
	case StatusLater:
		return 2
	case StatusDone:
		return 3
	default:
		return 0
	}
}

// CSSClass is the class attribute used by the roadmap templates.
func (c StatusClass) CSSClass() string {
	return "status-" + string(c)
}
