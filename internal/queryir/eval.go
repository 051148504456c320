package queryir

import (
	"fmt"
	"time"
)

// Eval reports whether the instant v satisfies p.
//
// A nil predicate matches everything. Eval is a pure function.
func Eval(p Predicate, v time.Time) bool {
	if p == nil {
		return true
	}

	switch pred := p.(type) {
	case Between:
		return !v.Before(pred.Min) && !v.After(pred.Max)
	case *Between:
		return Eval(*pred, v)
	case Outside:
		return v.Before(pred.Min) || v.After(pred.Max)
	case *Outside:
		return Eval(*pred, v)
	case OnOrAfter:
		return !v.Before(pred.Bound)
	case *OnOrAfter:
		return Eval(*pred, v)
	case OnOrBefore:
		return !v.After(pred.Bound)
	case *OnOrBefore:
		return Eval(*pred, v)
	case After:
		return v.After(pred.Bound)
	case *After:
		return Eval(*pred, v)
	case Before:
		return v.Before(pred.Bound)
	case *Before:
		return Eval(*pred, v)
	case And:
		for _, sub := range pred.Predicates {
			if !Eval(sub, v) {
				return false
			}
		}
		return true
	case *And:
		return Eval(*pred, v)
	default:
		// Unreachable: the interface is sealed.
		panic(fmt.Sprintf("queryir: unsupported predicate type %T", p))
	}
}

// Conjuncts flattens nested And nodes into their leaf predicates, in order.
// A nil predicate yields no conjuncts.
func Conjuncts(p Predicate) []Predicate {
	switch pred := p.(type) {
	case nil:
		return nil
	case And:
		var out []Predicate
		for _, sub := range pred.Predicates {
			out = append(out, Conjuncts(sub)...)
		}
		return out
	case *And:
		return Conjuncts(*pred)
	default:
		return []Predicate{p}
	}
}
