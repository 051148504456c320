package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/datesearch/internal/engine"
	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/querysql"
	"github.com/roach88/datesearch/internal/store"
	"github.com/roach88/datesearch/internal/testutil"
)

// Run executes a scenario with logging suppressed.
//
// The returned error reports infrastructure failures (invalid fixture,
// store errors). Expectation mismatches are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger executes a scenario, logging through logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	now, err := scenario.NowTime()
	if err != nil {
		return nil, err
	}

	patients, err := loadPatients(scenario.Patients)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.InsertPatients(ctx, patients); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	ev := engine.New(
		engine.WithClock(testutil.NewFixedClock(now)),
		engine.WithLogger(logger),
	)

	result := NewResult()

	pred, compileErr := ev.CompileAt(scenario.Terms, now)
	if compileErr == nil {
		result.Predicate = formatPredicate(pred)
		sql, params, err := querysql.NewSQLCompiler("patients", "birth_date").Compile(pred)
		if err != nil {
			return nil, fmt.Errorf("compile sql: %w", err)
		}
		result.SQL = sql
		for _, p := range params {
			result.Params = append(result.Params, p.(int64))
		}
	}

	memSource := engine.NewSliceSource(patients, patient.BirthDateOf)
	memMatches, memErr := engine.Evaluate[patient.Patient](ctx, ev, scenario.Terms, memSource)
	sqlMatches, sqlErr := engine.Evaluate[patient.Patient](ctx, ev, scenario.Terms, st.Source(logger))

	switch {
	case memErr != nil && sqlErr != nil:
		result.Error = NewErrorInfo(memErr)
	case memErr != nil || sqlErr != nil:
		return nil, fmt.Errorf("sources disagree on failure: memory=%v sqlite=%v", memErr, sqlErr)
	default:
		result.Matches = toMatches(memMatches)
		if !samePatients(memMatches, sqlMatches) {
			result.AddError(fmt.Sprintf("sources disagree: memory=%v sqlite=%v",
				familiesOf(memMatches), familiesOf(sqlMatches)))
		}
	}

	checkExpectation(scenario.Expect, result)

	logger.Info("scenario evaluated",
		"scenario", scenario.Name,
		"terms", strings.Join(scenario.Terms, ","),
		"matches", len(result.Matches),
		"pass", result.Pass,
	)
	return result, nil
}

// loadPatients converts fixture records and orders them the way the SQLite
// source returns them.
func loadPatients(records []patient.Record) ([]patient.Patient, error) {
	schema, err := patient.NewSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(patient.Fixture{Patients: records}); err != nil {
		return nil, err
	}

	patients, err := patient.FromRecords(records)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(patients, func(i, j int) bool {
		a, b := patients[i], patients[j]
		if !a.BirthDate.Equal(b.BirthDate) {
			return a.BirthDate.Before(b.BirthDate)
		}
		return a.ID.String() < b.ID.String()
	})
	return patients, nil
}

func checkExpectation(want Expectation, result *Result) {
	if want.Error != nil {
		if result.Error == nil {
			result.AddError(fmt.Sprintf("expected error %s at term %d, got %d matches",
				want.Error.Code, want.Error.Index, len(result.Matches)))
			return
		}
		got := result.Error
		if got.Code != want.Error.Code || got.Index != want.Error.Index || got.Term != want.Error.Term {
			result.AddError(fmt.Sprintf("expected error %s at term %d (%q), got %s at term %d (%q)",
				want.Error.Code, want.Error.Index, want.Error.Term, got.Code, got.Index, got.Term))
		}
		return
	}

	if result.Error != nil {
		result.AddError(fmt.Sprintf("unexpected error: %s", result.Error.Message))
		return
	}

	wantFamilies := want.Families
	if wantFamilies == nil {
		wantFamilies = []string{}
	}
	if got := result.Families(); !slices.Equal(wantFamilies, got) {
		result.AddError(fmt.Sprintf("families: expected %v, got %v", wantFamilies, got))
	}
}

func samePatients(a, b []patient.Patient) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func familiesOf(ps []patient.Patient) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Family
	}
	return out
}
