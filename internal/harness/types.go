package harness

import (
	"errors"

	"github.com/roach88/datesearch/internal/engine"
	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/searchterm"
)

// Match is one matching record as reported in results and snapshots.
type Match struct {
	Family    string `json:"family"`
	BirthDate string `json:"birth_date"`
}

// ErrorInfo describes an evaluation failure.
type ErrorInfo struct {
	Code    string `json:"code"`
	Index   int    `json:"index"`
	Term    string `json:"term"`
	Message string `json:"message"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Predicate is the compiled predicate rendered over birth_date.
	Predicate string `json:"predicate,omitempty"`

	// SQL and Params are the statement the SQLite source ran.
	SQL    string  `json:"sql,omitempty"`
	Params []int64 `json:"params,omitempty"`

	// Matches are the records both sources returned.
	Matches []Match `json:"matches"`

	// Error is set when evaluation failed.
	Error *ErrorInfo `json:"error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Matches: []Match{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Families returns the family names of the matches in order.
func (r *Result) Families() []string {
	out := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		out[i] = m.Family
	}
	return out
}

// NewErrorInfo describes err. The code is the underlying term error code
// when err wraps one.
func NewErrorInfo(err error) *ErrorInfo {
	info := &ErrorInfo{Index: -1, Message: err.Error()}

	var ee *engine.EvalError
	if errors.As(err, &ee) {
		info.Index = ee.Index
		info.Term = ee.Term
		info.Code = string(ee.Code)
		if cause := ee.CauseCode(); cause != "" {
			info.Code = cause
		}
		info.Message = ee.Err.Error()
		return info
	}

	var te *searchterm.TermError
	if errors.As(err, &te) {
		info.Code = string(te.Code)
		info.Term = te.Term
	}
	return info
}

func toMatches(patients []patient.Patient) []Match {
	out := make([]Match, len(patients))
	for i, p := range patients {
		out[i] = Match{
			Family:    p.Family,
			BirthDate: p.BirthDate.UTC().Format(searchterm.InstantLayout),
		}
	}
	return out
}
