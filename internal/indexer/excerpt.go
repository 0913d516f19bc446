package indexer

import "strings"

// Excerpt returns the first non-blank paragraph of body with its line breaks
// joined by spaces, or "" if there is none.
func Excerpt(body string) string {
	for _, para := range strings.Split(body, "\n\n") {
		if clean := strings.TrimSpace(para); clean != "" {
			return strings.ReplaceAll(clean, "\n", " ")
		}
	}
	return ""
}
