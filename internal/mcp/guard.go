package mcp

import (
	"context"
	"strings"

	"github.com/mdombrov-33/go-promptguard/detector"
)

// filteredText replaces any document text that looks like a prompt injection.
const filteredText = "[content filtered for security]"

// guardWindow is the detector's input cap. Longer text is screened in
// consecutive windows of this many runes.
const guardWindow = 1000

// promptGuard runs pattern and statistical detectors only, no LLM judge.
var promptGuard = detector.New(
	detector.WithThreshold(0.6),
	detector.WithAllDetectors(),
	detector.WithMaxInputLength(guardWindow),
)

// fallbackPatterns catch the plainest attempts regardless of detector score.
var fallbackPatterns = []string{
	"ignore previous",
	"ignore all previous",
	"ignore above",
	"disregard previous",
	"disregard all previous",
	"new instructions",
	"system prompt",
	"<system>",
	"</system>",
}

// detectInjection reports whether text is NOT safe to hand to a model.
func detectInjection(ctx context.Context, text string) bool {
	if text == "" {
		return false
	}
	runes := []rune(text)
	for start := 0; start < len(runes); start += guardWindow {
		end := min(start+guardWindow, len(runes))
		if !promptGuard.Detect(ctx, string(runes[start:end])).Safe {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, p := range fallbackPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// sanitize returns text, or filteredText when it is flagged.
func sanitize(ctx context.Context, text string) string {
	if detectInjection(ctx, text) {
		return filteredText
	}
	return text
}
