package schema

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// NORMALIZATION — header keys, missing-value tokens, calendar dates
// ============================================================================

// NormalizeHeader converts "PM2.5", "Literacy Rate" or "stateName" into a
// snake_case key ("pm2_5", "literacy_rate", "state_name").
func NormalizeHeader(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))

	var result strings.Builder
	var prev rune
	for _, r := range s {
		if unicode.IsUpper(r) && unicode.IsLower(prev) {
			result.WriteRune('_')
		}
		result.WriteRune(r)
		prev = r
	}

	s = strings.ToLower(result.String())
	s = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

// MissingTokens are cell values treated as "no value".
var MissingTokens = []string{"", "NA", "NaN", "nan", "N/A", "n/a", "null", "NULL", "None"}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	for _, tok := range MissingTokens {
		if s == tok {
			return true
		}
	}
	return false
}

// DateLayouts are tried in order. ISO first; day-first before month-first
// because the source data is Indian.
var DateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate parses s with the first matching layout and truncates it to a
// calendar date in UTC.
func ParseDate(s string, layouts ...string) (time.Time, error) {
	if len(layouts) == 0 {
		layouts = DateLayouts
	}
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
