package queryir

import "fmt"

// ValidationResult contains a satisfiability analysis of a predicate.
//
// Predicates that can never match (an inverted Between window) are legal and
// evaluate correctly; the warnings tell callers why a search returned nothing.
type ValidationResult struct {
	// Satisfiable is false when some conjunct can never match.
	Satisfiable bool

	// Warnings lists suspicious nodes, in traversal order.
	Warnings []string
}

// Validate inspects a predicate for windows that can never match and for
// nodes that match everything.
//
// Validate is a pure function with no side effects.
func Validate(p Predicate) ValidationResult {
	v := &validator{
		warnings:    []string{},
		satisfiable: true,
	}
	v.validatePredicate(p)

	return ValidationResult{
		Satisfiable: v.satisfiable,
		Warnings:    v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings    []string
	satisfiable bool
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		// nil predicates are valid (no filter)
	case Between:
		v.validateBetween(pred)
	case *Between:
		v.validateBetween(*pred)
	case Outside:
		v.validateOutside(pred)
	case *Outside:
		v.validateOutside(*pred)
	case OnOrAfter, *OnOrAfter, OnOrBefore, *OnOrBefore, After, *After, Before, *Before:
		// Half-open comparisons always match some instant.
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addWarning("unknown predicate type: %T", p)
		v.satisfiable = false
	}
}

// validateBetween flags windows whose lower bound is after the upper bound.
func (v *validator) validateBetween(b Between) {
	if b.Min.After(b.Max) {
		v.addWarning("empty window: %s is after %s", instant(b.Min), instant(b.Max))
		v.satisfiable = false
	}
}

// validateOutside flags inverted exclusions, which match every instant.
func (v *validator) validateOutside(o Outside) {
	if o.Min.After(o.Max) {
		v.addWarning("exclusion matches everything: %s is after %s", instant(o.Min), instant(o.Max))
	}
}

// validateAnd recursively validates all sub-predicates.
func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
