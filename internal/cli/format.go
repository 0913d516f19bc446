// Package cli provides shared formatting helpers for CLI output.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/demofrager/whoami/internal/model"
)

// ANSI color constants.
const (
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	DimCyan = "\033[2;36m"
	Dim     = "\033[2m"
	Bold    = "\033[1m"
	Reset   = "\033[0m"
)

// Box width is the inner content width (between the border characters).
const boxWidth = 40

// Margin is the left indent for all output.
const margin = "  "

// Color reports whether ANSI colors should be emitted. NO_COLOR disables it.
var Color = os.Getenv("NO_COLOR") == ""

// paint wraps s in color when colors are enabled.
func paint(color, s string) string {
	if !Color || color == "" {
		return s
	}
	return color + s + Reset
}

// Header prints a small heavy-border box with a title.
func Header(w io.Writer, title string) {
	heavyTop := margin + "┏" + strings.Repeat("━", boxWidth) + "┓"
	heavyBottom := margin + "┗" + strings.Repeat("━", boxWidth) + "┛"
	padded := padRight("  "+title, boxWidth)

	fmt.Fprintln(w)
	fmt.Fprintln(w, paint(Cyan, heavyTop))
	fmt.Fprintln(w, paint(Cyan, margin+"┃"+padded+"┃"))
	fmt.Fprintln(w, paint(Cyan, heavyBottom))
}

// Section prints a section divider line: ── Name ─────────────────
func Section(w io.Writer, name string) {
	prefix := "── " + name + " "
	remaining := max(boxWidth+2-runeLen(prefix), 0)
	rule := prefix + strings.Repeat("─", remaining)
	fmt.Fprintf(w, "\n%s%s\n\n", margin, paint(Cyan, rule))
}

// Table prints rows under a bold header, each column padded to its widest
// cell. Cells may carry a color via Cell.
func Table(w io.Writer, headers []string, rows [][]Cell) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runeLen(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runeLen(c.Text))
			}
		}
	}

	var hdr strings.Builder
	for i, h := range headers {
		hdr.WriteString(padRight(h, widths[i]))
		if i < len(headers)-1 {
			hdr.WriteString("  ")
		}
	}
	fmt.Fprintln(w, margin+paint(Bold, strings.TrimRight(hdr.String(), " ")))

	for _, row := range rows {
		var line strings.Builder
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			cell := c.Text
			if i < len(row)-1 {
				cell = padRight(cell, widths[i])
			}
			line.WriteString(paint(c.Color, cell))
			if i < len(row)-1 {
				line.WriteString("  ")
			}
		}
		fmt.Fprintln(w, margin+line.String())
	}
}

// Cell is one table cell.
type Cell struct {
	Text  string
	Color string
}

// StatusColor maps a roadmap status class to its terminal color.
func StatusColor(c model.StatusClass) string {
	switch c {
	case model.StatusNow:
		return Green
	case model.StatusNext:
		return Cyan
	case model.StatusLater:
		return Yellow
	default:
		return Dim
	}
}

// ProgressBar renders p as a fixed-width bar like "[#####-----]  50%".
// A nil p renders as blank space of the same width.
func ProgressBar(p *int, width int) string {
	if p == nil {
		return strings.Repeat(" ", width+7)
	}
	filled := *p * width / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", width-filled), *p)
}

// Truncate shortens s to at most n runes, ending in "..." when cut.
func Truncate(s string, n int) string {
	if runeLen(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}

// padRight pads s with spaces to exactly width characters.
// If s is longer than width, it is truncated.
func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		r := []rune(s)
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-n)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
