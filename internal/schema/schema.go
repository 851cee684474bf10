// Package schema defines the import schema model: the ordered set of columns
// a dataset is validated against, each with a declared type and ordered lists
// of validator and transformer rules.
//
// A Schema is constructed once per import job, validated up front, and never
// mutated during a run. Rule order within a column is significant and is
// preserved by the engine.
package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// ColumnType is the declared data type of a column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
	TypeEmail  ColumnType = "email"
	TypeDate   ColumnType = "date"
	TypePhone  ColumnType = "phone"
	TypeSelect ColumnType = "select"
)

// Known reports whether t is one of the supported column types.
func (t ColumnType) Known() bool {
	switch t {
	case TypeString, TypeNumber, TypeEmail, TypeDate, TypePhone, TypeSelect:
		return true
	}
	return false
}

// Column describes a single declared field of the target schema.
type Column struct {
	// ID uniquely identifies the column within the schema and keys the
	// corresponding value in each input row.
	ID string

	// Label is the human-readable column name shown to end users.
	Label string

	// Type is the declared data type used for coercion.
	Type ColumnType

	// Options lists the allowed values for TypeSelect columns.
	// Required iff Type is TypeSelect.
	Options []string

	// Validators run in declared order against the pre-transformed value.
	Validators []Validator

	// Transformers run in declared order, split across the pre and post
	// validation stages by the engine's stage table.
	Transformers []Transformer
}

// Schema is an immutable, ordered list of column definitions.
type Schema struct {
	// Key identifies the schema in the preset registry. Optional for
	// schemas supplied inline by the caller.
	Key string

	// Label is the display name for the schema.
	Label string

	Columns []Column
}

// Column returns the column with the given id.
func (s *Schema) Column(id string) (Column, bool) {
	for _, col := range s.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnIDs returns the column ids in declared order.
func (s *Schema) ColumnIDs() []string {
	ids := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		ids[i] = col.ID
	}
	return ids
}

// Validate checks the schema for structural problems. A malformed schema is
// fatal for the whole run: no row-level result can be trusted against it, so
// validation happens once, before any row is processed.
// All problems found are reported in a single error.
func (s *Schema) Validate() error {
	var errs []string

	if len(s.Columns) == 0 {
		errs = append(errs, "schema has no columns")
	}

	seen := make(map[string]bool, len(s.Columns))
	for i, col := range s.Columns {
		name := col.ID
		if name == "" {
			name = fmt.Sprintf("column %d", i)
			errs = append(errs, fmt.Sprintf("%s: empty column id", name))
		}

		if seen[col.ID] && col.ID != "" {
			errs = append(errs, fmt.Sprintf("%s: duplicate column id", name))
		}
		seen[col.ID] = true

		if !col.Type.Known() {
			errs = append(errs, fmt.Sprintf("%s: unknown column type %q", name, col.Type))
		}

		if col.Type == TypeSelect && len(col.Options) == 0 {
			errs = append(errs, fmt.Sprintf("%s: select column requires options", name))
		}
		if col.Type != TypeSelect && len(col.Options) > 0 {
			errs = append(errs, fmt.Sprintf("%s: options are only valid on select columns", name))
		}

		errs = append(errs, validateRules(name, col)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid schema: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateRules checks a column's validators and transformers for problems
// that would otherwise surface mid-run.
func validateRules(name string, col Column) []string {
	var errs []string

	var minVal, maxVal *float64
	var minLen, maxLen *int

	for _, v := range col.Validators {
		switch v := v.(type) {
		case Regex:
			if v.Pattern == "" {
				errs = append(errs, fmt.Sprintf("%s: regex validator requires a pattern", name))
			} else if _, err := regexp.Compile(v.Pattern); err != nil {
				errs = append(errs, fmt.Sprintf("%s: invalid regex pattern %q: %v", name, v.Pattern, err))
			}
		case Min:
			val := v.Value
			minVal = &val
		case Max:
			val := v.Value
			maxVal = &val
		case MinLength:
			if v.Value < 0 {
				errs = append(errs, fmt.Sprintf("%s: min_length must be non-negative", name))
			}
			val := v.Value
			minLen = &val
		case MaxLength:
			if v.Value < 0 {
				errs = append(errs, fmt.Sprintf("%s: max_length must be non-negative", name))
			}
			val := v.Value
			maxLen = &val
		}
	}

	if minVal != nil && maxVal != nil && *minVal > *maxVal {
		errs = append(errs, fmt.Sprintf("%s: min (%v) exceeds max (%v)", name, *minVal, *maxVal))
	}
	if minLen != nil && maxLen != nil && *minLen > *maxLen {
		errs = append(errs, fmt.Sprintf("%s: min_length (%d) exceeds max_length (%d)", name, *minLen, *maxLen))
	}

	for _, t := range col.Transformers {
		switch t := t.(type) {
		case Custom:
			if t.Name == "" {
				errs = append(errs, fmt.Sprintf("%s: custom transformer requires a name", name))
			}
		case Replace:
			if t.Find == "" {
				errs = append(errs, fmt.Sprintf("%s: replace transformer requires a find value", name))
			}
		}
		if st := transformerStage(t); st != StageDefault && st != StagePre && st != StagePost {
			errs = append(errs, fmt.Sprintf("%s: unknown stage %q", name, st))
		}
	}

	return errs
}
