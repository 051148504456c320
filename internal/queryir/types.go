package queryir

import "time"

// Predicate is a condition over one instant field.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Between: min <= v <= max
//   - Outside: v < min OR v > max
//   - OnOrAfter: v >= bound
//   - OnOrBefore: v <= bound
//   - After: v > bound
//   - Before: v < bound
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Between matches instants inside a closed window.
//
// Semantics:
//
//	min <= v AND v <= max
//
// A window whose Min is after Max matches nothing.
type Between struct {
	Min time.Time
	Max time.Time
}

func (Between) predicateNode() {}

// Outside matches instants outside a closed window.
//
// Semantics:
//
//	v < min OR v > max
type Outside struct {
	Min time.Time
	Max time.Time
}

func (Outside) predicateNode() {}

// OnOrAfter matches instants at or after Bound.
type OnOrAfter struct {
	Bound time.Time
}

func (OnOrAfter) predicateNode() {}

// OnOrBefore matches instants at or before Bound.
type OnOrBefore struct {
	Bound time.Time
}

func (OnOrBefore) predicateNode() {}

// After matches instants strictly after Bound.
type After struct {
	Bound time.Time
}

func (After) predicateNode() {}

// Before matches instants strictly before Bound.
type Before struct {
	Bound time.Time
}

func (Before) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// Empty Predicates slice means "always true" (vacuous truth).
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}
