// Package indexer reads a content directory, parses each document's inline
// metadata, and builds posts and roadmap entries from it.
package indexer

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/frontmatter"

	"github.com/demofrager/whoami/internal/dates"
	"github.com/demofrager/whoami/internal/model"
)

// Kind identifies a document collection.
type Kind string

const (
	KindPost    Kind = "post"
	KindRoadmap Kind = "roadmap"
)

// Recognized field keys, per kind, in application order.
var fieldKeys = map[Kind][]string{
	KindPost:    {"date"},
	KindRoadmap: {"status", "deadline", "progress"},
}

// FieldLine is a recognized "key: value" line with a non-empty value.
type FieldLine struct {
	Key   string
	Value string
}

// ParsedDocument is the result of splitting a document's text.
type ParsedDocument struct {
	Title     string
	TitleLine string // the consumed "# " line, empty if none
	Body      []string
	Fields    []FieldLine
}

// BodyText is the retained body with surrounding whitespace trimmed.
func (d ParsedDocument) BodyText() string {
	return strings.TrimSpace(strings.Join(d.Body, "\n"))
}

// ParseDocument splits text into a title, body lines and recognized field
// lines for kind. Field lines may appear anywhere; they are removed from the
// body and every other line is kept in order. When block is set, a leading
// YAML front-matter block contributes fields ahead of the inline ones.
func ParseDocument(text string, kind Kind, block bool) ParsedDocument {
	keys := fieldKeys[kind]
	doc := ParsedDocument{Title: model.DefaultTitle}

	if block {
		var blockFields []FieldLine
		blockFields, text = parseBlock(text, keys)
		doc.Fields = append(doc.Fields, blockFields...)
	}

	lines := splitLines(text)
	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		if title := strings.TrimSpace(lines[0][2:]); title != "" {
			doc.Title = title
		}
		doc.TitleLine = lines[0]
		lines = lines[1:]
	}

	for _, line := range lines {
		key, ok := matchField(line, keys)
		if !ok {
			doc.Body = append(doc.Body, line)
			continue
		}
		_, value, _ := strings.Cut(line, ":")
		if value = strings.TrimSpace(value); value != "" {
			doc.Fields = append(doc.Fields, FieldLine{Key: key, Value: value})
		}
	}
	return doc
}

// matchField reports which recognized key, if any, line starts with
// (case-insensitively, followed by a colon).
func matchField(line string, keys []string) (string, bool) {
	lower := strings.ToLower(line)
	for _, k := range keys {
		if strings.HasPrefix(lower, k+":") {
			return k, true
		}
	}
	return "", false
}

// splitLines splits on any line boundary (\n, \r, \r\n, \v, \f, \x1c-\x1e,
// U+0085, U+2028, U+2029) and trims trailing whitespace from each line. A
// final line boundary does not produce an empty last line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, strings.TrimRightFunc(text[start:i], unicode.IsSpace))
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, strings.TrimRightFunc(text[start:], unicode.IsSpace))
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// parseBlock decodes a leading front-matter block. Malformed or absent blocks
// leave text untouched.
func parseBlock(text string, keys []string) ([]FieldLine, string) {
	var meta map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil || len(meta) == 0 {
		return nil, text
	}

	lowered := make(map[string]any, len(meta))
	for k, v := range meta {
		lowered[strings.ToLower(k)] = v
	}

	var fields []FieldLine
	for _, k := range keys {
		v, ok := lowered[k]
		if !ok || v == nil {
			continue
		}
		value := strings.TrimSpace(blockValue(v))
		if value != "" {
			fields = append(fields, FieldLine{Key: k, Value: value})
		}
	}
	return fields, string(rest)
}

func blockValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Issue describes a field value that could not be used.
type Issue struct {
	Field  string
	Value  string
	Reason string
}

const (
	ReasonBadDate        = "unparseable date"
	ReasonBadDeadline    = "unparseable deadline"
	ReasonProgressRange  = "progress out of range"
	ReasonProgressNotInt = "progress not an integer"
)

// PostMeta holds the coerced post fields.
type PostMeta struct {
	PublishedAt *time.Time
}

// CoercePost applies post field lines in order. The last date wins; if it
// does not parse the date is absent.
func CoercePost(fields []FieldLine) (PostMeta, []Issue) {
	var (
		meta   PostMeta
		issues []Issue
	)
	for _, f := range fields {
		if f.Key != "date" {
			continue
		}
		t, ok := dates.ParseISO(f.Value)
		if !ok {
			meta.PublishedAt = nil
			issues = append(issues, Issue{Field: f.Key, Value: f.Value, Reason: ReasonBadDate})
			continue
		}
		meta.PublishedAt = &t
	}
	return meta, issues
}

// RoadmapMeta holds the coerced roadmap fields.
type RoadmapMeta struct {
	Status   string
	Deadline string
	Progress *int
}

// CoerceRoadmap applies roadmap field lines in order. Status and deadline
// take the last value; progress keeps the last valid value.
func CoerceRoadmap(fields []FieldLine) (RoadmapMeta, []Issue) {
	meta := RoadmapMeta{Status: model.DefaultStatus}
	var issues []Issue
	for _, f := range fields {
		switch f.Key {
		case "status":
			meta.Status = f.Value
		case "deadline":
			meta.Deadline = f.Value
		case "progress":
			p, reason := parseProgress(f.Value)
			if reason != "" {
				issues = append(issues, Issue{Field: f.Key, Value: f.Value, Reason: reason})
				continue
			}
			if p != nil {
				meta.Progress = p
			}
		}
	}
	if meta.Deadline != "" {
		if _, ok := dates.ParseDeadline(meta.Deadline); !ok {
			issues = append(issues, Issue{Field: "deadline", Value: meta.Deadline, Reason: ReasonBadDeadline})
		}
	}
	return meta, issues
}

// parseProgress strips trailing percent signs and parses an integer in
// [0,100]. A value that is empty once stripped is absent without an issue.
func parseProgress(value string) (*int, string) {
	v := strings.TrimSpace(strings.TrimRight(value, "%"))
	if v == "" {
		return nil, ""
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, ReasonProgressNotInt
	}
	if n < 0 || n > 100 {
		return nil, ReasonProgressRange
	}
	return &n, ""
}
