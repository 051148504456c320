package searchterm

import (
	"fmt"
	"regexp"
)

// PrefixLength is the fixed width of an operator prefix.
const PrefixLength = 2

// Operator is the comparison requested by a term's prefix.
type Operator int

const (
	// OpEq matches instants inside the precision window.
	OpEq Operator = iota + 1
	// OpNe matches instants outside the precision window.
	OpNe
	// OpGt matches instants after the end of the window.
	OpGt
	// OpLt matches instants before the start of the window.
	OpLt
	// OpGe matches instants at or after the start of the window.
	OpGe
	// OpLe matches instants at or before the end of the window.
	OpLe
	// OpAp matches instants near the window. Tolerance grows with the
	// distance between the window and the evaluation time.
	OpAp
)

var prefixRegex = regexp.MustCompile(fmt.Sprintf(`^[a-z]{%d}`, PrefixLength))

// prefixes maps every accepted 2-letter code to its operator.
// "sa" (starts after) and "eb" (ends before) are aliases.
var prefixes = map[string]Operator{
	"eq": OpEq,
	"ne": OpNe,
	"ge": OpGe,
	"gt": OpGt,
	"sa": OpGt,
	"le": OpLe,
	"lt": OpLt,
	"eb": OpLt,
	"ap": OpAp,
}

// String returns the canonical prefix for the operator.
func (o Operator) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpGt:
		return "gt"
	case OpLt:
		return "lt"
	case OpGe:
		return "ge"
	case OpLe:
		return "le"
	case OpAp:
		return "ap"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// Valid reports whether o is one of the defined operators.
func (o Operator) Valid() bool {
	return o >= OpEq && o <= OpAp
}

// MarshalText renders the operator as its canonical prefix.
func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid operator %d", int(o))
	}
	return []byte(o.String()), nil
}

// LookupPrefix returns the operator for a 2-letter code.
func LookupPrefix(code string) (Operator, bool) {
	op, ok := prefixes[code]
	return op, ok
}

// ParsePrefix splits term into its operator and the remaining date literal.
//
// The term must start with exactly two lowercase ASCII letters that name a
// known operator. Returns a *TermError with ErrCodeInvalidPrefix otherwise.
func ParsePrefix(term string) (Operator, string, error) {
	code := prefixRegex.FindString(term)
	if code == "" {
		return 0, "", missingPrefixError(term)
	}

	op, ok := LookupPrefix(code)
	if !ok {
		return 0, "", unknownPrefixError(code, term)
	}

	return op, term[PrefixLength:], nil
}
