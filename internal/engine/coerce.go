package engine

// coerce.go interprets a raw string as a column's declared type.
//
// Coercion handles the messy reality of user-provided tabular data: numbers
// with surrounding whitespace, dates in a dozen layouts, phone numbers with
// punctuation. A coercion failure produces a field error but never stops
// transformer application, so a later transform can still fix the value for
// display even when validation already flagged it.

import (
	"strconv"
	"strings"
	"time"

	"github.com/rowforge/rowforge/internal/schema"
)

// dateLayouts are tried in order for date coercion and normalize_date.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006",
	"01/02/2006",
	"1-2-2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
	time.RFC3339,
}

// coerce attempts to interpret raw as the given column type. It returns the
// typed candidate value and whether the coercion succeeded. Only numbers gain
// a non-string representation; every other type keeps the string form.
func coerce(t schema.ColumnType, raw string, options []string) (any, bool) {
	switch t {
	case schema.TypeString:
		return raw, true

	case schema.TypeNumber:
		n, ok := parseNumber(raw)
		if !ok {
			return raw, false
		}
		return n, true

	case schema.TypeEmail:
		return raw, isEmail(raw)

	case schema.TypePhone:
		return raw, digitCount(raw) >= 10

	case schema.TypeDate:
		_, ok := parseDate(raw)
		return raw, ok

	case schema.TypeSelect:
		for _, opt := range options {
			if raw == opt {
				return raw, true
			}
		}
		return raw, false
	}

	return raw, false
}

// parseNumber parses a trimmed string as a float.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDate tries each supported layout in order.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isEmail performs a syntactic local@domain check with at least one dot in
// the domain. Deliverability is out of scope.
func isEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}

	local, domain := s[:at], s[at+1:]
	if strings.ContainsAny(local, " \t") || strings.ContainsAny(domain, " \t") {
		return false
	}

	dot := strings.LastIndex(domain, ".")
	// The dot must be interior to the domain.
	return dot > 0 && dot < len(domain)-1
}

// digitCount counts the decimal digits in s.
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// typedValue returns the final representation stored in a FieldResult:
// a float64 for values that still parse as numbers after post-stage
// transforms, the string form otherwise.
func typedValue(t schema.ColumnType, s string) any {
	if t == schema.TypeNumber {
		if n, ok := parseNumber(s); ok {
			return n
		}
	}
	return s
}
