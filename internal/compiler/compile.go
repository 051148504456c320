// Package compiler turns a parsed search term into a queryir.Predicate.
//
// Each operator maps to exactly one predicate node:
//
//	eq  Between{min, max}             min <= v <= max
//	ne  Outside{min, max}             v < min OR v > max
//	ge  OnOrAfter{min}                v >= min
//	le  OnOrBefore{max}               v <= max
//	gt  After{max}                    v > max
//	lt  Before{min}                   v < min
//	ap  Between{min-margin, max+margin} where margin = now - max
//
// The evaluation time is always passed in by the caller so that compilation
// stays pure and approximate matches are reproducible.
package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/searchterm"
)

// Compile builds the predicate for op applied to the window r.
//
// now is only consulted for searchterm.OpAp. An operator outside the defined
// set yields a *searchterm.TermError with ErrCodeInvalidPrefix.
func Compile(op searchterm.Operator, r searchterm.Range, now time.Time) (queryir.Predicate, error) {
	switch op {
	case searchterm.OpEq:
		return queryir.Between{Min: r.Min, Max: r.Max}, nil
	case searchterm.OpNe:
		return queryir.Outside{Min: r.Min, Max: r.Max}, nil
	case searchterm.OpGe:
		return queryir.OnOrAfter{Bound: r.Min}, nil
	case searchterm.OpLe:
		return queryir.OnOrBefore{Bound: r.Max}, nil
	case searchterm.OpGt:
		return queryir.After{Bound: r.Max}, nil
	case searchterm.OpLt:
		return queryir.Before{Bound: r.Min}, nil
	case searchterm.OpAp:
		lo, hi := ApproximateWindow(r, now)
		return queryir.Between{Min: lo, Max: hi}, nil
	default:
		return nil, &searchterm.TermError{
			Code:    searchterm.ErrCodeInvalidPrefix,
			Prefix:  op.String(),
			Message: fmt.Sprintf("no predicate for operator %s", op),
		}
	}
}

// CompileTerm compiles a parsed term.
func CompileTerm(t searchterm.Term, now time.Time) (queryir.Predicate, error) {
	pred, err := Compile(t.Operator, t.Range, now)
	if err != nil {
		var te *searchterm.TermError
		if errors.As(err, &te) {
			te.Term = t.Raw
		}
		return nil, err
	}
	return pred, nil
}

// ApproximateWindow widens r by the distance between its upper bound and now
// on both sides. A window that ends after now shrinks instead and may invert,
// in which case it matches nothing.
//
// The arithmetic is done in Unix milliseconds: time.Duration saturates at
// roughly 292 years, which old windows exceed.
func ApproximateWindow(r searchterm.Range, now time.Time) (time.Time, time.Time) {
	margin := now.UnixMilli() - r.Max.UnixMilli()
	lo := time.UnixMilli(r.Min.UnixMilli() - margin).UTC()
	hi := time.UnixMilli(r.Max.UnixMilli() + margin).UTC()
	return lo, hi
}
