package engine

// transform.go implements the behavior of each transformer kind.
//
// Transformers consume and produce strings; they never produce validation
// errors. A transform that cannot improve its input (an unparseable date, a
// phone number with too few digits) returns the value unchanged.

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rowforge/rowforge/internal/schema"
)

// TransformFunc is a named transform capability registered by the host
// application. Custom transforms must be pure string functions: the engine's
// execution model is closed and deterministic.
type TransformFunc func(string) string

// apply runs a single transformer against value. Custom transforms were
// resolved against the registry when the Runner was built, so lookup here
// cannot fail. Default is handled by the pipeline's stage loops because its
// empty-value substitution depends on where it runs relative to validation.
func (r *Runner) apply(t schema.Transformer, value string) string {
	switch t := t.(type) {
	case schema.Trim:
		return strings.TrimSpace(value)
	case schema.Uppercase:
		return strings.ToUpper(value)
	case schema.Lowercase:
		return strings.ToLower(value)
	case schema.Capitalize:
		return capitalize(value)
	case schema.RemoveSpecialChars:
		return removeSpecialChars(value)
	case schema.NormalizePhone:
		return normalizePhone(value)
	case schema.NormalizeDate:
		return normalizeDate(value, t.Format)
	case schema.Replace:
		return strings.ReplaceAll(value, t.Find, t.Replace)
	case schema.Custom:
		if fn, ok := r.customs[t.Name]; ok {
			return fn(value)
		}
	}
	return value
}

// capitalize title-cases each word of the value.
func capitalize(s string) string {
	return cases.Title(language.Und).String(s)
}

// removeSpecialChars keeps letters, digits, and spaces.
func removeSpecialChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizePhone reformats a value containing a recognizable phone number:
// 10 digits become (NNN) NNN-NNNN, 11 digits with a leading 1 become
// +1 (NNN) NNN-NNNN. Anything else is returned unchanged so validators can
// flag it.
func normalizePhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	switch {
	case len(d) == 10:
		return "(" + d[0:3] + ") " + d[3:6] + "-" + d[6:10]
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:11]
	}
	return s
}

// normalizeDate reparses the value as a date and reformats it with the given
// Go time layout. Unparseable values pass through unchanged.
func normalizeDate(s, format string) string {
	t, ok := parseDate(s)
	if !ok {
		return s
	}
	if format == "" {
		format = "2006-01-02"
	}
	return t.Format(format)
}
