// Package queryir provides the predicate intermediate representation for
// instant-field search.
//
// A Predicate describes a comparison against a single instant-valued field
// without naming the field. Backends bind it to their storage:
//
//	[search terms] → [compiler] → [queryir.Predicate] → Eval (in memory)
//	                                                  → querysql (SQLite)
//
// SEALED INTERFACE:
//
// Predicate is sealed with a marker method so that only types in this
// package implement it. Backends can switch over every node type:
//
//	switch p := pred.(type) {
//	case Between:
//	case Outside:
//	case OnOrAfter, OnOrBefore, After, Before:
//	case And:
//	}
//
// All bounds are inclusive or exclusive exactly as documented on each node.
// Predicates are immutable values and safe to share between goroutines.
package queryir
