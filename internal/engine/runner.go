package engine

// runner.go is the pipeline: for each row, for each column, apply pre-stage
// transforms, coerce and validate, apply post-stage transforms, and collect
// every field error found along the way.
//
// Validators never short-circuit each other: a field with two failing
// validators reports two errors, so a user sees every problem at once. The
// whole pass is computation-only and deterministic for a fixed schema and
// input.

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rowforge/rowforge/internal/schema"
)

// columnPlan is the per-column execution plan prepared once at Runner
// construction: stage-partitioned transforms and precompiled regex patterns.
type columnPlan struct {
	col     schema.Column
	pre     []schema.Transformer
	post    []schema.Transformer
	regexps map[int]*regexp.Regexp // validator index -> compiled pattern
}

// Runner executes the validation pipeline for one schema. A Runner is
// immutable after construction; each call to Run (or NewRun) owns its own
// uniqueness state, so a single Runner may serve concurrent runs.
type Runner struct {
	schema  *schema.Schema
	plans   []columnPlan
	customs map[string]TransformFunc
}

// NewRunner validates the schema, resolves custom transform names against the
// registry, and prepares per-column execution plans. A malformed schema or an
// unregistered custom transform aborts here, before any row is processed.
func NewRunner(s *schema.Schema, reg *Registry) (*Runner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		schema:  s,
		customs: make(map[string]TransformFunc),
	}

	for _, col := range s.Columns {
		plan := columnPlan{col: col}
		plan.pre, plan.post = partitionTransforms(col.Transformers)

		for vi, v := range col.Validators {
			rv, ok := v.(schema.Regex)
			if !ok {
				continue
			}
			re, err := regexp.Compile(rv.Pattern)
			if err != nil {
				// Validate() already checks patterns; unreachable in practice.
				return nil, fmt.Errorf("invalid schema: column %q: %w", col.ID, err)
			}
			if plan.regexps == nil {
				plan.regexps = make(map[int]*regexp.Regexp)
			}
			plan.regexps[vi] = re
		}

		for _, t := range col.Transformers {
			ct, ok := t.(schema.Custom)
			if !ok {
				continue
			}
			if _, have := r.customs[ct.Name]; have {
				continue
			}
			fn, found := lookupCustom(reg, ct.Name)
			if !found {
				return nil, fmt.Errorf("invalid schema: column %q: unknown custom transform %q", col.ID, ct.Name)
			}
			r.customs[ct.Name] = fn
		}

		r.plans = append(r.plans, plan)
	}

	return r, nil
}

func lookupCustom(reg *Registry, name string) (TransformFunc, bool) {
	if reg == nil {
		return nil, false
	}
	return reg.Lookup(name)
}

// Schema returns the schema this runner was built for.
func (r *Runner) Schema() *schema.Schema {
	return r.schema
}

// Run processes the full dataset in input order and aggregates the result.
func (r *Runner) Run(rows []RawRow) *ImportResult {
	run := r.NewRun()
	for i, row := range rows {
		run.ProcessRow(i, row)
	}
	return run.Result()
}

// Run is one pass over a dataset. It owns the uniqueness state for the pass,
// so rows must be fed in input order for first-wins duplicate reporting.
// A Run must not be shared between goroutines.
type Run struct {
	runner  *Runner
	tracker *uniqueTracker
	rows    []RowResult
	invalid int
}

// NewRun starts a fresh pass with empty uniqueness state.
func (r *Runner) NewRun() *Run {
	return &Run{
		runner:  r,
		tracker: newUniqueTracker(),
	}
}

// ProcessRow validates and transforms one row, records it, and returns the
// per-field outcome.
func (run *Run) ProcessRow(index int, raw RawRow) RowResult {
	fields := make(map[string]FieldResult, len(run.runner.plans))
	for i := range run.runner.plans {
		plan := &run.runner.plans[i]
		fields[plan.col.ID] = run.processField(plan, raw[plan.col.ID])
	}

	row := RowResult{Index: index, Fields: fields}
	run.rows = append(run.rows, row)
	if !row.Valid() {
		run.invalid++
	}
	return row
}

// Processed returns the number of rows processed so far.
func (run *Run) Processed() int {
	return len(run.rows)
}

// InvalidCount returns the number of invalid rows seen so far.
func (run *Run) InvalidCount() int {
	return run.invalid
}

// Result builds the output envelope for the rows processed so far. The caller
// owns the result; the engine retains no reference to it.
func (run *Run) Result() *ImportResult {
	rows := make([]RowResult, len(run.rows))
	copy(rows, run.rows)

	return &ImportResult{
		Rows:       rows,
		Columns:    run.runner.schema.ColumnIDs(),
		NumRows:    len(rows),
		NumColumns: len(run.runner.schema.Columns),
		Success:    run.invalid == 0,
		Message:    summaryMessage(run.invalid, len(rows)),
	}
}

// processField runs the full per-field pipeline: pre-stage transforms,
// coercion, validators (all of them, no short-circuit), then post-stage
// transforms.
func (run *Run) processField(plan *columnPlan, raw string) FieldResult {
	r := run.runner
	value := raw

	// Pre-stage transforms, each consuming the previous output. A default
	// moved to pre by an explicit stage override substitutes here, so the
	// defaulted value counts as present for coercion and validators.
	for _, t := range plan.pre {
		if d, isDefault := t.(schema.Default); isDefault {
			if value == "" {
				value = d.Value
			}
			continue
		}
		value = r.apply(t, value)
	}
	preValue := value

	var errs []ValidationError

	// Coercion failure is recorded but does not stop the pipeline.
	_, coerced := coerce(plan.col.Type, value, plan.col.Options)
	coerceIdx := -1
	if !coerced {
		errs = append(errs, ValidationError{
			Code:    CodeTypeCoercion,
			Message: fmt.Sprintf("Not a valid %s", plan.col.Type),
		})
		coerceIdx = len(errs) - 1
	}

	for vi, v := range plan.col.Validators {
		switch v := v.(type) {
		case schema.Required:
			if strings.TrimSpace(value) == "" {
				errs = append(errs, fieldError(CodeRequired, v.Message, "This field is required"))
			}

		case schema.Unique:
			if !run.tracker.checkAndRegister(plan.col.ID, value) {
				errs = append(errs, fieldError(CodeUnique, v.Message, "Value must be unique"))
			}

		case schema.Regex:
			if !plan.regexps[vi].MatchString(value) {
				errs = append(errs, fieldError(CodeRegex, v.Message, "Value does not match the required pattern"))
			}

		case schema.Min:
			n, ok := parseNumber(value)
			if !ok {
				errs = append(errs, fieldError(CodeMin, v.Message, fmt.Sprintf("Value must be at least %v", v.Value)))
				// A custom message on a numeric validator also replaces the
				// stock coercion message for the same parse failure.
				if v.Message != "" && coerceIdx >= 0 && plan.col.Type == schema.TypeNumber {
					errs[coerceIdx].Message = v.Message
				}
			} else if n < v.Value {
				errs = append(errs, fieldError(CodeMin, v.Message, fmt.Sprintf("Value must be at least %v", v.Value)))
			}

		case schema.Max:
			n, ok := parseNumber(value)
			if !ok {
				errs = append(errs, fieldError(CodeMax, v.Message, fmt.Sprintf("Value must be no more than %v", v.Value)))
				if v.Message != "" && coerceIdx >= 0 && plan.col.Type == schema.TypeNumber {
					errs[coerceIdx].Message = v.Message
				}
			} else if n > v.Value {
				errs = append(errs, fieldError(CodeMax, v.Message, fmt.Sprintf("Value must be no more than %v", v.Value)))
			}

		case schema.MinLength:
			if utf8.RuneCountInString(value) < v.Value {
				errs = append(errs, fieldError(CodeMinLength, v.Message, fmt.Sprintf("Must be at least %d characters", v.Value)))
			}

		case schema.MaxLength:
			if utf8.RuneCountInString(value) > v.Value {
				errs = append(errs, fieldError(CodeMaxLength, v.Message, fmt.Sprintf("Must be no more than %d characters", v.Value)))
			}
		}
	}

	// Post-stage transforms run regardless of errors, except default: a
	// default only fires on an empty pre-stage value, so it never masks a
	// validation failure on user-supplied input.
	for _, t := range plan.post {
		if d, isDefault := t.(schema.Default); isDefault {
			if preValue == "" {
				value = d.Value
			}
			continue
		}
		value = r.apply(t, value)
	}

	return FieldResult{
		Value:  typedValue(plan.col.Type, value),
		Errors: errs,
	}
}

// fieldError builds a ValidationError, preferring the rule's custom message.
func fieldError(code ErrorCode, custom, stock string) ValidationError {
	msg := stock
	if custom != "" {
		msg = custom
	}
	return ValidationError{Code: code, Message: msg}
}
