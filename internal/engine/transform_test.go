package engine

import (
	"testing"

	"github.com/rowforge/rowforge/internal/schema"
)

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello world", "Hello World"},
		{"JOHN SMITH", "John Smith"},
		{"already Capitalized", "Already Capitalized"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveSpecialChars(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abc-123!", "abc123"},
		{"keep spaces here", "keep spaces here"},
		{"(555) 123-4567", "555 1234567"},
		{"héllo", "héllo"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := removeSpecialChars(tt.in); got != tt.want {
			t.Errorf("removeSpecialChars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5551234567", "(555) 123-4567"},
		{"555.123.4567", "(555) 123-4567"},
		{"(555) 123-4567", "(555) 123-4567"},
		{"1-555-123-4567", "+1 (555) 123-4567"},
		{"15551234567", "+1 (555) 123-4567"},
		// Unrecognizable shapes pass through for validators to flag.
		{"123", "123"},
		{"25551234567", "25551234567"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizePhone(tt.in); got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format string
		want   string
	}{
		{name: "us to iso", in: "3/15/2024", format: "", want: "2024-03-15"},
		{name: "iso unchanged", in: "2024-03-15", format: "", want: "2024-03-15"},
		{name: "custom format", in: "2024-03-15", format: "01/02/2006", want: "03/15/2024"},
		{name: "month name", in: "Mar 15, 2024", format: "", want: "2024-03-15"},
		{name: "unparseable passes through", in: "someday", format: "", want: "someday"},
		{name: "empty passes through", in: "", format: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDate(tt.in, tt.format); got != tt.want {
				t.Errorf("normalizeDate(%q, %q) = %q, want %q", tt.in, tt.format, got, tt.want)
			}
		})
	}
}

func TestApply_BasicTransformers(t *testing.T) {
	r := &Runner{customs: map[string]TransformFunc{}}

	tests := []struct {
		name string
		tr   schema.Transformer
		in   string
		want string
	}{
		{name: "trim", tr: schema.Trim{}, in: "  x  ", want: "x"},
		{name: "uppercase", tr: schema.Uppercase{}, in: "abc", want: "ABC"},
		{name: "lowercase", tr: schema.Lowercase{}, in: "ABC", want: "abc"},
		{name: "replace", tr: schema.Replace{Find: "-", Replace: " "}, in: "a-b-c", want: "a b c"},
		{name: "replace with empty", tr: schema.Replace{Find: "$"}, in: "$10", want: "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.apply(tt.tr, tt.in); got != tt.want {
				t.Errorf("apply(%T, %q) = %q, want %q", tt.tr, tt.in, got, tt.want)
			}
		})
	}
}

func TestApply_CustomTransform(t *testing.T) {
	r := &Runner{customs: map[string]TransformFunc{
		"shout": func(s string) string { return s + "!" },
	}}

	if got := r.apply(schema.Custom{Name: "shout"}, "hi"); got != "hi!" {
		t.Errorf("apply(custom shout) = %q, want %q", got, "hi!")
	}
}
