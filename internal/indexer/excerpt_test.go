package indexer

import "testing"

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first paragraph", "Para one.\n\nPara two.", "Para one."},
		{"joins lines", "line a\nline b\n\nnext", "line a line b"},
		{"skips blank paragraphs", "\n\n   \n\nreal one\n\nlater", "real one"},
		{"all blank", "  \n\n \n", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excerpt(tt.body); got != tt.want {
				t.Errorf("Excerpt(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
