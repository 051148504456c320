package engine

import (
	"context"
	"time"

	"github.com/roach88/datesearch/internal/queryir"
)

// Source narrows a record collection by a predicate over one instant field.
//
// Implementations must return records in a stable order and must not mutate
// the underlying collection.
type Source[T any] interface {
	Filter(ctx context.Context, p queryir.Predicate) ([]T, error)
}

// SliceSource is an in-memory Source over a fixed slice.
type SliceSource[T any] struct {
	records []T
	field   func(T) time.Time
}

// NewSliceSource creates a source over records. field extracts the instant
// that predicates are evaluated against.
//
// The records slice is copied.
func NewSliceSource[T any](records []T, field func(T) time.Time) *SliceSource[T] {
	cp := make([]T, len(records))
	copy(cp, records)
	return &SliceSource[T]{records: cp, field: field}
}

// Len returns the number of records in the source.
func (s *SliceSource[T]) Len() int {
	return len(s.records)
}

// Filter returns the records matching p, in source order.
//
// A conjunction is applied one child at a time, each narrowing the output of
// the previous one. A nil predicate returns every record.
func (s *SliceSource[T]) Filter(ctx context.Context, p queryir.Predicate) ([]T, error) {
	candidates := make([]T, len(s.records))
	copy(candidates, s.records)

	for _, conjunct := range queryir.Conjuncts(p) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := candidates[:0:0]
		for _, rec := range candidates {
			if queryir.Eval(conjunct, s.field(rec)) {
				next = append(next, rec)
			}
		}
		candidates = next
	}

	return candidates, nil
}
