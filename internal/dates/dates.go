// Package dates parses the timestamps that appear in document field lines.
package dates

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	dateLayouts   = []string{"2006-01-02", "20060102"}
	clockLayouts  = []string{"15:04:05", "15:04", "150405", "1504", "15"}
	offsetLayouts = []string{"", "Z07:00", "Z0700", "Z07"}
)

// isoLayouts cover the ISO-8601 shapes accepted for "date:" and as the first
// deadline format: extended or basic dates, optionally followed by a time
// with an optional offset. Fractional seconds are accepted after any
// seconds field.
var isoLayouts = func() []string {
	var out []string
	for _, d := range dateLayouts {
		out = append(out, d)
		for _, c := range clockLayouts {
			for _, z := range offsetLayouts {
				out = append(out, d+"T"+c+z)
			}
		}
	}
	return out
}()

// ParseISO parses a strict ISO-8601 date or date-time. The separator between
// date and time may be any single non-digit character, and week dates
// (2024-W10-2, 2024W102, 2024-W10) are accepted. Values without an offset
// are read in the local time zone.
func ParseISO(value string) (time.Time, bool) {
	date, rest, ok := splitISO(value)
	if !ok {
		return time.Time{}, false
	}
	if isWeekDate(date) {
		d, ok := parseWeekDate(date)
		if !ok {
			return time.Time{}, false
		}
		date = d.Format("2006-01-02")
	}
	value = date + rest
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// splitISO separates the date part from the time part and normalizes the
// separator to "T".
func splitISO(value string) (date, rest string, ok bool) {
	n := dateLen(value)
	if n == 0 || len(value) < n {
		return "", "", false
	}
	date, rest = value[:n], value[n:]
	if rest == "" {
		return date, "", true
	}
	r, size := utf8.DecodeRuneInString(rest)
	if r == utf8.RuneError || unicode.IsDigit(r) || size == len(rest) {
		return "", "", false
	}
	return date, "T" + rest[size:], true
}

func dateLen(value string) int {
	switch {
	case len(value) < 7:
		return 0
	case value[4] == '-' && value[5] == 'W':
		if len(value) >= 10 && value[8] == '-' {
			return 10
		}
		return 8
	case value[4] == '-':
		return 10
	case value[4] == 'W':
		if len(value) >= 8 && isDigit(value[7]) {
			return 8
		}
		return 7
	default:
		return 8
	}
}

func isWeekDate(date string) bool {
	return strings.ContainsRune(date, 'W')
}

// parseWeekDate resolves an ISO week date. A missing weekday means Monday.
func parseWeekDate(date string) (time.Time, bool) {
	digits := strings.NewReplacer("-", "", "W", "").Replace(date)
	if len(digits) != 6 && len(digits) != 7 {
		return time.Time{}, false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i]) {
			return time.Time{}, false
		}
	}
	year, _ := strconv.Atoi(digits[:4])
	week, _ := strconv.Atoi(digits[4:6])
	day := 1
	if len(digits) == 7 {
		day = int(digits[6] - '0')
	}
	if day < 1 || day > 7 || week < 1 || week > weeksInYear(year) {
		return time.Time{}, false
	}
	return isoWeekStart(year).AddDate(0, 0, (week-1)*7+day-1), true
}

// isoWeekStart returns the Monday of ISO week 1, the week holding January 4.
func isoWeekStart(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.Local)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset)
}

func weeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.Local).ISOWeek()
	return w
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// deadlineParsers are tried in order; the first success wins. The order
// matters for strings that more than one format would accept.
var deadlineParsers = []func(string) (time.Time, bool){
	ParseISO,
	layoutParser("2006-1-2"),
	layoutParser("2006/1/2"),
}

func layoutParser(layout string) func(string) (time.Time, bool) {
	return func(value string) (time.Time, bool) {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// ParseDeadline parses a roadmap deadline: ISO-8601, then YYYY-MM-DD, then
// YYYY/MM/DD. An empty or unparseable value reports false.
func ParseDeadline(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, parse := range deadlineParsers {
		if t, ok := parse(value); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
