package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/searchterm"
)

func ms(year int, month time.Month, day, hour, min, sec, milli int) time.Time {
	return time.Date(year, month, day, hour, min, sec, milli*int(time.Millisecond), time.UTC)
}

var (
	day14 = searchterm.Range{
		Min: ms(2024, time.May, 14, 0, 0, 0, 0),
		Max: ms(2024, time.May, 14, 23, 59, 59, 999),
	}
	fixedNow = ms(2024, time.May, 20, 0, 0, 0, 0)
)

func TestCompile_Nodes(t *testing.T) {
	tests := []struct {
		op   searchterm.Operator
		want queryir.Predicate
	}{
		{searchterm.OpEq, queryir.Between{Min: day14.Min, Max: day14.Max}},
		{searchterm.OpNe, queryir.Outside{Min: day14.Min, Max: day14.Max}},
		{searchterm.OpGe, queryir.OnOrAfter{Bound: day14.Min}},
		{searchterm.OpLe, queryir.OnOrBefore{Bound: day14.Max}},
		{searchterm.OpGt, queryir.After{Bound: day14.Max}},
		{searchterm.OpLt, queryir.Before{Bound: day14.Min}},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, err := Compile(tt.op, day14, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Boundaries(t *testing.T) {
	lower := day14.Min
	upper := day14.Max
	beforeLower := lower.Add(-time.Millisecond)
	afterUpper := upper.Add(time.Millisecond)
	noon := ms(2024, time.May, 14, 12, 0, 0, 0)

	tests := []struct {
		name  string
		op    searchterm.Operator
		value time.Time
		want  bool
	}{
		{"eq matches inside", searchterm.OpEq, noon, true},
		{"eq matches lower bound", searchterm.OpEq, lower, true},
		{"eq matches upper bound", searchterm.OpEq, upper, true},
		{"eq rejects next day", searchterm.OpEq, afterUpper, false},
		{"ne rejects inside", searchterm.OpNe, noon, false},
		{"ne matches before", searchterm.OpNe, beforeLower, true},
		{"ne matches after", searchterm.OpNe, afterUpper, true},
		{"ge matches lower bound", searchterm.OpGe, lower, true},
		{"ge rejects just before", searchterm.OpGe, beforeLower, false},
		{"le matches upper bound", searchterm.OpLe, upper, true},
		{"le rejects just after", searchterm.OpLe, afterUpper, false},
		{"gt rejects upper bound", searchterm.OpGt, upper, false},
		{"gt matches just after", searchterm.OpGt, afterUpper, true},
		{"lt rejects lower bound", searchterm.OpLt, lower, false},
		{"lt matches just before", searchterm.OpLt, beforeLower, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := Compile(tt.op, day14, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, queryir.Eval(pred, tt.value))
		})
	}
}

func TestCompile_Approximately(t *testing.T) {
	// now is 5 days and 1ms after the end of the window.
	margin := fixedNow.Sub(day14.Max)
	require.Equal(t, 5*24*time.Hour+time.Millisecond, margin)

	pred, err := Compile(searchterm.OpAp, day14, fixedNow)
	require.NoError(t, err)

	between, ok := pred.(queryir.Between)
	require.True(t, ok, "expected Between, got %T", pred)
	assert.Equal(t, day14.Min.Add(-margin), between.Min)
	assert.Equal(t, day14.Max.Add(margin), between.Max)

	assert.True(t, queryir.Eval(pred, ms(2024, time.May, 9, 0, 0, 0, 0)))
	assert.False(t, queryir.Eval(pred, ms(2024, time.May, 8, 12, 0, 0, 0)))
	assert.True(t, queryir.Eval(pred, ms(2024, time.May, 19, 23, 0, 0, 0)))
	assert.False(t, queryir.Eval(pred, ms(2024, time.May, 20, 0, 0, 0, 1)))
}

func TestCompile_ApproximatelyDependsOnNow(t *testing.T) {
	soon := day14.Max.Add(time.Millisecond)
	later := day14.Max.Add(365 * 24 * time.Hour)

	tight, err := Compile(searchterm.OpAp, day14, soon)
	require.NoError(t, err)
	wide, err := Compile(searchterm.OpAp, day14, later)
	require.NoError(t, err)

	probe := ms(2024, time.April, 1, 0, 0, 0, 0)
	assert.False(t, queryir.Eval(tight, probe))
	assert.True(t, queryir.Eval(wide, probe))
}

func TestCompile_ApproximatelyFutureWindowInverts(t *testing.T) {
	now := ms(2024, time.May, 14, 0, 0, 0, 0)

	pred, err := Compile(searchterm.OpAp, day14, now)
	require.NoError(t, err)

	between := pred.(queryir.Between)
	assert.True(t, between.Min.After(between.Max))
	assert.False(t, queryir.Eval(pred, ms(2024, time.May, 14, 12, 0, 0, 0)))
	assert.False(t, queryir.Validate(pred).Satisfiable)
}

func TestApproximateWindow_CenturiesOld(t *testing.T) {
	r := searchterm.Range{
		Min: ms(1, time.January, 1, 0, 0, 0, 0),
		Max: ms(1, time.December, 31, 23, 59, 59, 999),
	}
	now := ms(2024, time.January, 1, 0, 0, 0, 0)

	lo, hi := ApproximateWindow(r, now)

	assert.True(t, lo.Before(r.Min))
	assert.True(t, hi.Equal(now))
	assert.Equal(t, now.UnixMilli()-r.Max.UnixMilli(), r.Min.UnixMilli()-lo.UnixMilli())
	assert.Equal(t, time.UTC, hi.Location())
}

func TestCompile_UnknownOperator(t *testing.T) {
	_, err := Compile(searchterm.Operator(99), day14, fixedNow)
	require.Error(t, err)
	assert.True(t, searchterm.IsInvalidPrefix(err))
}

func TestCompileTerm(t *testing.T) {
	term, err := searchterm.Parse("ge2024-05-14")
	require.NoError(t, err)

	pred, err := CompileTerm(term, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, queryir.OnOrAfter{Bound: day14.Min}, pred)
}

func TestCompileTerm_UnknownOperatorCarriesRaw(t *testing.T) {
	term := searchterm.Term{Raw: "xx2024", Operator: searchterm.Operator(42), Range: day14}

	_, err := CompileTerm(term, fixedNow)
	require.Error(t, err)

	var te *searchterm.TermError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "xx2024", te.Term)
}
