package dates

import (
	"testing"
	"time"
)

func TestParseISO(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
		want  time.Time
	}{
		{"2024-03-05", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024-03-05T10:30:00", true, time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local)},
		{"2024-03-05 10:30", true, time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local)},
		{"2024-03-05T10:30:00.250", true, time.Date(2024, 3, 5, 10, 30, 0, 250_000_000, time.Local)},
		{"2024-03-05T10:30:00Z", true, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T10:30:00+02:00", true, time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)},
		{"20240305", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024-03-05T1030", true, time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local)},
		{"20240305T103015", true, time.Date(2024, 3, 5, 10, 30, 15, 0, time.Local)},
		{"2024-03-05T10:30:00+02", true, time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)},
		{"2024-03-05T10:30:00+0200", true, time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)},
		{"2024-03-05T10Z", true, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)},
		{"2024-03-05_10:30", true, time.Date(2024, 3, 5, 10, 30, 0, 0, time.Local)},
		{"2024-W10-2", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024W102", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{"2024-W10", true, time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)},
		{"2021-W01-1", true, time.Date(2021, 1, 4, 0, 0, 0, 0, time.Local)},
		{"2020-W53-5", true, time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)},
		{"2021-W53-1", false, time.Time{}},
		{"2024-W10-8", false, time.Time{}},
		{"2024-W10-2T09:00", true, time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)},
		{"2024-03-0510:30", false, time.Time{}},
		{"2024-03-05T", false, time.Time{}},
		{"2024/03/05", false, time.Time{}},
		{"2024-3-5", false, time.Time{}},
		{"March 5", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseISO(tt.value)
		if ok != tt.ok {
			t.Errorf("ParseISO(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseISO(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseDeadline_FormatOrder(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
		want  time.Time
	}{
		{"2025-01-31", true, time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)},
		{"2025-01-31T18:00:00", true, time.Date(2025, 1, 31, 18, 0, 0, 0, time.Local)},
		{"2025-1-9", true, time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)},
		{"2025/01/31", true, time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)},
		{"2025/1/9", true, time.Date(2025, 1, 9, 0, 0, 0, 0, time.Local)},
		{"31/01/2025", false, time.Time{}},
		{"soon", false, time.Time{}},
		{"2025-02-30", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseDeadline(tt.value)
		if ok != tt.ok {
			t.Errorf("ParseDeadline(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDeadline(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
