package searchterm

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes term parsing errors.
type ErrorCode string

const (
	// ErrCodeInvalidPrefix indicates a missing or unrecognized 2-letter prefix.
	ErrCodeInvalidPrefix ErrorCode = "INVALID_PREFIX"

	// ErrCodeInvalidDateFormat indicates the literal matches no supported shape
	// or fails calendar validation.
	ErrCodeInvalidDateFormat ErrorCode = "INVALID_DATE_FORMAT"
)

// TermError is returned when a search term cannot be parsed.
// It always carries the raw term so callers can echo it back to the client.
type TermError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Term is the raw term as supplied by the caller.
	Term string

	// Prefix is the offending 2-letter code, if one was extracted.
	Prefix string

	// Message is a human-readable description.
	Message string

	// Detail names the failed calendar check for date errors, if any.
	Detail string
}

// Error implements the error interface.
func (e *TermError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidPrefix reports whether err is, or wraps, an invalid prefix error.
func IsInvalidPrefix(err error) bool {
	var te *TermError
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidPrefix
	}
	return false
}

// IsInvalidDateFormat reports whether err is, or wraps, an invalid date format error.
func IsInvalidDateFormat(err error) bool {
	var te *TermError
	if errors.As(err, &te) {
		return te.Code == ErrCodeInvalidDateFormat
	}
	return false
}

func missingPrefixError(term string) *TermError {
	return &TermError{
		Code:    ErrCodeInvalidPrefix,
		Term:    term,
		Message: fmt.Sprintf("letter prefix not found in '%s'", term),
	}
}

func unknownPrefixError(prefix, term string) *TermError {
	return &TermError{
		Code:    ErrCodeInvalidPrefix,
		Term:    term,
		Prefix:  prefix,
		Message: fmt.Sprintf("two-letter prefix is not valid: '%s' in '%s'", prefix, term),
	}
}

func invalidDateError(subject, detail string) *TermError {
	msg := fmt.Sprintf("invalid date format in '%s'", subject)
	if detail != "" {
		msg += ": " + detail
	}
	return &TermError{
		Code:    ErrCodeInvalidDateFormat,
		Term:    subject,
		Message: msg,
		Detail:  detail,
	}
}
