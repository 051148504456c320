package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/datesearch/internal/compiler"
	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/searchterm"
)

// Evaluator turns raw terms into a single conjunctive predicate.
type Evaluator struct {
	clock  Clock
	logger *slog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock sets the clock used for approximate matches.
//
// Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Evaluator) {
		e.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now samples the evaluator's clock.
func (e *Evaluator) Now() time.Time {
	return e.clock.Now()
}

// Compile parses and compiles terms using the current clock reading.
func (e *Evaluator) Compile(terms []string) (queryir.Predicate, error) {
	return e.CompileAt(terms, e.Now())
}

// CompileAt parses and compiles every term in order and returns their
// conjunction.
//
// The first failing term aborts compilation with an *EvalError. An empty term
// list yields an empty And, which matches every record.
func (e *Evaluator) CompileAt(terms []string, now time.Time) (queryir.Predicate, error) {
	preds := make([]queryir.Predicate, 0, len(terms))

	for i, raw := range terms {
		term, err := searchterm.Parse(raw)
		if err != nil {
			e.logger.Debug("term rejected", "index", i, "term", raw, "error", err)
			return nil, NewCompositionError(i, raw, err)
		}

		pred, err := compiler.CompileTerm(term, now)
		if err != nil {
			e.logger.Debug("term rejected", "index", i, "term", raw, "error", err)
			return nil, NewCompositionError(i, raw, err)
		}

		e.logger.Debug("term compiled",
			"index", i,
			"term", raw,
			"operator", term.Operator.String(),
			"precision", term.Precision.String(),
			"range", term.Range.String(),
		)
		preds = append(preds, pred)
	}

	return queryir.And{Predicates: preds}, nil
}

// Evaluate compiles terms and narrows src by their conjunction.
//
// Nothing is read from src unless every term compiles. The clock is sampled
// once, so every approximate term in one call sees the same instant.
func Evaluate[T any](ctx context.Context, e *Evaluator, terms []string, src Source[T]) ([]T, error) {
	now := e.Now()

	pred, err := e.CompileAt(terms, now)
	if err != nil {
		return nil, err
	}

	if result := queryir.Validate(pred); !result.Satisfiable {
		e.logger.Warn("search can never match", "terms", terms, "warnings", result.Warnings)
	}

	records, err := src.Filter(ctx, pred)
	if err != nil {
		return nil, fmt.Errorf("filter records: %w", err)
	}

	e.logger.Info("search evaluated",
		"terms", len(terms),
		"now", now.Format(searchterm.InstantLayout),
		"matches", len(records),
	)
	return records, nil
}
