// Package markdown renders document bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Extension names a rendering feature a caller can ask for.
type Extension uint8

const (
	FencedCode Extension = 1 << iota
	Tables
	SaneLists
	NewlineToBreak
)

// DefaultExtensions is the fixed set used for posts and roadmap entries.
var DefaultExtensions = []Extension{FencedCode, Tables, SaneLists, NewlineToBreak}

func (e Extension) String() string {
	switch e {
	case FencedCode:
		return "fenced_code"
	case Tables:
		return "tables"
	case SaneLists:
		return "sane_lists"
	case NewlineToBreak:
		return "nl2br"
	default:
		return fmt.Sprintf("extension(%d)", uint8(e))
	}
}

// Renderer converts markdown to HTML. The zero value omits raw HTML; set
// AllowHTML to pass it through. Safe for concurrent use.
type Renderer struct {
	AllowHTML bool

	mu    sync.Mutex
	cache map[Extension]goldmark.Markdown
}

// New returns a Renderer.
func New(allowHTML bool) *Renderer {
	return &Renderer{AllowHTML: allowHTML}
}

// Render converts text using the requested extensions.
func (r *Renderer) Render(text string, exts []Extension) (string, error) {
	md := r.engine(exts)
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) engine(exts []Extension) goldmark.Markdown {
	var set Extension
	for _, e := range exts {
		set |= e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if md, ok := r.cache[set]; ok {
		return md
	}
	if r.cache == nil {
		r.cache = make(map[Extension]goldmark.Markdown)
	}
	md := build(set, r.AllowHTML)
	r.cache[set] = md
	return md
}

// build assembles a goldmark instance. Fenced code blocks and list handling
// that starts a new list on a marker change are CommonMark behavior, so
// FencedCode and SaneLists need no extra wiring.
func build(set Extension, allowHTML bool) goldmark.Markdown {
	var (
		exts    []goldmark.Extender
		rendOps []renderer.Option
	)
	if set&Tables != 0 {
		exts = append(exts, extension.Table)
	}
	if set&NewlineToBreak != 0 {
		rendOps = append(rendOps, html.WithHardWraps())
	}
	if allowHTML {
		rendOps = append(rendOps, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendOps...),
	)
}
