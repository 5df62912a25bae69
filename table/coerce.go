package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// BEST-EFFORT COERCION
// ============================================================================
// Coercion never fails loudly: a cell that cannot be read as the target type
// reports ok=false and callers treat it as missing for that operation.
// ============================================================================

// ToFloat reads a cell as a finite number.
// Numbers pass through; strings are trimmed and parsed; everything else is missing.
func ToFloat(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return 0, false
		}
		return v.num, true
	case KindString:
		return parseFloat(v.str)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether a string parses as a finite number.
func IsNumeric(s string) bool {
	_, ok := parseFloat(s)
	return ok
}

// ToTime reads a cell as a timestamp.
// Time cells pass through; strings go through ParseTime; numbers are never dates.
func ToTime(v Value) (time.Time, bool) {
	switch v.kind {
	case KindTime:
		return v.tm, true
	case KindString:
		return ParseTime(v.str)
	default:
		return time.Time{}, false
	}
}

// DateLayouts are tried in order by ParseTime. Month-first slash dates are
// preferred over day-first ones; day-first is only reached when month-first
// fails (e.g. "25/12/2024").
var DateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006 15:04:05",
	"2/1/2006",
	"01-02-06",
	"02.01.2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Jan-2006",
	"January 2006",
	"2006-01",
}

// ParseTime parses a date string against DateLayouts and returns it in UTC.
// Purely numeric strings ("1001", "20240105", "3.5") are never dates: order
// numbers and quantities would otherwise read as years.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || IsNumeric(s) {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
