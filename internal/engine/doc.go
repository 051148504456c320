// Package engine evaluates search terms against a record source.
//
// An Evaluator parses and compiles every term first and only then narrows the
// source, so a bad term never produces a partially filtered result.
// Successful terms are combined with logical AND; the order of terms does not
// change the outcome.
//
// The evaluation instant used by the approximate operator is read from the
// Evaluator's Clock exactly once per call. Tests inject a fixed clock.
//
// Evaluators hold no mutable state and are safe for concurrent use.
package engine
