package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/datesearch/internal/searchterm"
)

// EvalError is returned when a multi-term evaluation cannot be composed.
//
// It identifies the first failing term by position and raw text and wraps the
// underlying parse or compile error, so searchterm.IsInvalidPrefix and
// searchterm.IsInvalidDateFormat still work on it.
type EvalError struct {
	// Code identifies the error category.
	Code EvalErrorCode

	// Index is the zero-based position of the failing term.
	Index int

	// Term is the raw failing term.
	Term string

	// Err is the underlying cause.
	Err error
}

// EvalErrorCode categorizes evaluation errors.
type EvalErrorCode string

const (
	// ErrCodeCompositionFailure indicates a term could not be parsed or compiled.
	ErrCodeCompositionFailure EvalErrorCode = "COMPOSITION_FAILURE"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: term %d %q: %v", e.Code, e.Index, e.Term, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EvalError) Unwrap() error {
	return e.Err
}

// IsCompositionFailure returns true if the error is a composition failure.
// Uses errors.As to handle wrapped errors.
func IsCompositionFailure(err error) bool {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeCompositionFailure
	}
	return false
}

// NewCompositionError creates an EvalError for the term at index.
func NewCompositionError(index int, term string, err error) *EvalError {
	return &EvalError{
		Code:  ErrCodeCompositionFailure,
		Index: index,
		Term:  term,
		Err:   err,
	}
}

// CauseCode returns the code of the underlying term error, or "" if the
// cause is not a term error.
func (e *EvalError) CauseCode() string {
	var te *searchterm.TermError
	if errors.As(e.Err, &te) {
		return string(te.Code)
	}
	return ""
}
