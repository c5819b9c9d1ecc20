package common

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Layouts without a zone parse as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"01-02-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// monthYearLayouts describe values that name a month of a year without a day.
var monthYearLayouts = []string{
	"Jan-06",
	"January-06",
	"Jan-2006",
	"January-2006",
	"Jan 2006",
	"January 2006",
	"Jan'06",
	"2006-01",
	"01/2006",
}

// ParseDate resolves a cell value to an instant. Numbers are never treated as
// dates so that year-like integers in measure columns stay measures.
func ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		return ParseDateString(v)
	default:
		return time.Time{}, false
	}
}

// ParseDateString parses the textual date formats found in uploaded sheets,
// including month-year forms such as "Apr-24" which resolve to the first of
// that month.
func ParseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	if month, year, ok := ParseMonthYear(s); ok {
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	}

	return time.Time{}, false
}

// ParseMonthYear recognizes combined month and year tokens like "Apr-24",
// "April 2024" or "2024-04".
func ParseMonthYear(s string) (time.Month, int, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range monthYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Month(), t.Year(), true
		}
	}
	return 0, 0, false
}

// MonthFromName resolves full or abbreviated English month names, case-insensitively.
func MonthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return 0, false
	}
	if name == "sept" {
		return time.September, true
	}
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		if name == full || name == full[:3] {
			return m, true
		}
	}
	return 0, false
}

// StartOfDay returns t at 00:00:00.000 of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns t at 23:59:59.999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Quarter returns the 1-based calendar quarter of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
