// Package searchterm parses date search terms of the form
// <2-letter prefix><partial timestamp>, e.g. "ge2023" or "eq2024-05-14".
//
// Parsing happens in two stages:
//
//	"eq2024-05-14" → ParsePrefix → (Eq, "2024-05-14")
//	"2024-05-14"   → ParseDate   → (Day, [2024-05-14T00:00:00.000, 2024-05-14T23:59:59.999])
//
// # Prefixes
//
//	eq  equal               ne  not equal
//	gt  greater than        sa  starts after (alias of gt)
//	lt  less than           eb  ends before (alias of lt)
//	ge  greater or equal    le  less or equal
//	ap  approximately
//
// # Precision windows
//
// A literal expands to the inclusive instant window implied by its precision.
// Shapes are tried most specific first and the first anchored match wins:
//
//	YYYY-MM-DDTHH:MM:SS.ffff   Millisecond  exact instant
//	YYYY-MM-DDTHH:MM:SS        Second       HH:MM:SS.999 .. HH:MM:SS.999
//	YYYY-MM-DDTHH:MM           Minute       HH:MM:00.999 .. HH:MM:59.999
//	YYYY-MM-DDTHH              Hour         HH:00:00.000 .. HH:59:59.999
//	YYYY-MM-DD                 Day          00:00:00.000 .. 23:59:59.999
//	YYYY-MM                    Month        first day .. last day 23:59:59.999
//	YYYY                       Year         Jan 1 .. Dec 31 23:59:59.999
//
// The Minute window starts at .999, not .000. Existing clients depend on this
// and it must not change without a migration.
//
// All instants are UTC with millisecond resolution. Everything in this
// package is pure and safe for concurrent use.
package searchterm
