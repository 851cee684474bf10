package engine

// errors.go defines the field-scoped error taxonomy and the run-level
// sentinels.
//
// Field errors are non-fatal: they are collected per field and never
// interrupt processing of other fields or rows. The only fatal condition is
// a malformed schema, detected before any row is processed.

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the class of a field-level validation error.
type ErrorCode string

const (
	CodeTypeCoercion ErrorCode = "type_coercion"
	CodeRequired     ErrorCode = "required"
	CodeUnique       ErrorCode = "unique"
	CodeRegex        ErrorCode = "regex"
	CodeMin          ErrorCode = "min"
	CodeMax          ErrorCode = "max"
	CodeMinLength    ErrorCode = "min_length"
	CodeMaxLength    ErrorCode = "max_length"
)

// ValidationError is a single field-scoped problem found during a run.
type ValidationError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrJobNotFound is returned when a job id does not match any tracked job.
// Jobs are dropped from tracking after the configured retention period.
var ErrJobNotFound = errors.New("job not found")

// ErrTooManyJobs is returned when all job slots are occupied and the wait
// timeout expires. Clients should retry after a short delay.
var ErrTooManyJobs = errors.New("too many concurrent import jobs, please try again later")
