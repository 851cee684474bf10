// Package engine implements the schema-driven row validation and
// transformation pipeline. It turns raw, untyped tabular input into typed,
// cleaned, validated output records plus a structured error report.
//
// This package has no storage or transport dependencies and can be driven by
// any frontend: the synchronous Runner for small in-memory datasets, or the
// Service for server-side batch jobs with polled progress.
package engine

import "fmt"

// RawRow maps column ids to the original string values read from the source
// file. Values for columns absent from the row are treated as empty strings.
// Rows are produced by an external file-parsing collaborator and read-only
// to the engine.
type RawRow map[string]string

// FieldResult is the outcome for a single field: the final (typed-or-string)
// value after all transforms, plus every validation error found.
type FieldResult struct {
	Value  any               `json:"value"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// RowResult bundles every field's outcome for one input row.
type RowResult struct {
	Index  int                    `json:"index"`
	Fields map[string]FieldResult `json:"fields"`
}

// Valid reports whether the row has no field errors.
func (r RowResult) Valid() bool {
	for _, f := range r.Fields {
		if len(f.Errors) > 0 {
			return false
		}
	}
	return true
}

// ErrorCount returns the total number of field errors on the row.
func (r RowResult) ErrorCount() int {
	n := 0
	for _, f := range r.Fields {
		n += len(f.Errors)
	}
	return n
}

// ImportResult is the output envelope for one full pass over a dataset.
// Downstream collaborators consume it unchanged.
type ImportResult struct {
	Rows       []RowResult `json:"rows"`
	Columns    []string    `json:"columns"`
	NumRows    int         `json:"num_rows"`
	NumColumns int         `json:"num_columns"`
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
}

// InvalidRowCount returns the number of rows with at least one field error.
func (r *ImportResult) InvalidRowCount() int {
	n := 0
	for _, row := range r.Rows {
		if !row.Valid() {
			n++
		}
	}
	return n
}

// ValidRows returns the rows with no field errors, in input order.
func (r *ImportResult) ValidRows() []RowResult {
	var rows []RowResult
	for _, row := range r.Rows {
		if row.Valid() {
			rows = append(rows, row)
		}
	}
	return rows
}

// InvalidRows returns the rows with at least one field error, in input order.
func (r *ImportResult) InvalidRows() []RowResult {
	var rows []RowResult
	for _, row := range r.Rows {
		if !row.Valid() {
			rows = append(rows, row)
		}
	}
	return rows
}

// summaryMessage describes the failure count when a run is not fully valid.
func summaryMessage(invalid, total int) string {
	if invalid == 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d rows failed validation", invalid, total)
}
