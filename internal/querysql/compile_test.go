package querysql

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/datesearch/internal/queryir"
)

var (
	lo = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	hi = time.Date(2023, time.December, 31, 23, 59, 59, 999_000_000, time.UTC)
)

func TestCompileWhere(t *testing.T) {
	compiler := NewSQLCompiler("patients", "birth_date")

	testCases := []struct {
		name       string
		pred       queryir.Predicate
		wantSQL    string
		wantParams []any
	}{
		{
			name:       "between",
			pred:       queryir.Between{Min: lo, Max: hi},
			wantSQL:    "birth_date BETWEEN ? AND ?",
			wantParams: []any{lo.UnixMilli(), hi.UnixMilli()},
		},
		{
			name:       "between pointer",
			pred:       &queryir.Between{Min: lo, Max: hi},
			wantSQL:    "birth_date BETWEEN ? AND ?",
			wantParams: []any{lo.UnixMilli(), hi.UnixMilli()},
		},
		{
			name:       "outside",
			pred:       queryir.Outside{Min: lo, Max: hi},
			wantSQL:    "(birth_date < ? OR birth_date > ?)",
			wantParams: []any{lo.UnixMilli(), hi.UnixMilli()},
		},
		{
			name:       "on or after",
			pred:       queryir.OnOrAfter{Bound: lo},
			wantSQL:    "birth_date >= ?",
			wantParams: []any{lo.UnixMilli()},
		},
		{
			name:       "on or before",
			pred:       queryir.OnOrBefore{Bound: hi},
			wantSQL:    "birth_date <= ?",
			wantParams: []any{hi.UnixMilli()},
		},
		{
			name:       "after",
			pred:       queryir.After{Bound: hi},
			wantSQL:    "birth_date > ?",
			wantParams: []any{hi.UnixMilli()},
		},
		{
			name:       "before",
			pred:       queryir.Before{Bound: lo},
			wantSQL:    "birth_date < ?",
			wantParams: []any{lo.UnixMilli()},
		},
		{
			name: "and",
			pred: queryir.And{Predicates: []queryir.Predicate{
				queryir.OnOrAfter{Bound: lo},
				queryir.Outside{Min: lo, Max: hi},
			}},
			wantSQL:    "birth_date >= ? AND (birth_date < ? OR birth_date > ?)",
			wantParams: []any{lo.UnixMilli(), lo.UnixMilli(), hi.UnixMilli()},
		},
		{
			name:    "empty and",
			pred:    queryir.And{},
			wantSQL: "1 = 1",
		},
		{
			name:    "nil",
			pred:    nil,
			wantSQL: "1 = 1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql, params, err := compiler.CompileWhere(tc.pred)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, sql)
			if diff := cmp.Diff(tc.wantParams, params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_FullSelect(t *testing.T) {
	compiler := NewSQLCompiler("patients", "birth_date", "id", "family", "birth_date")

	sql, params, err := compiler.Compile(queryir.And{Predicates: []queryir.Predicate{
		queryir.OnOrAfter{Bound: lo},
		queryir.OnOrBefore{Bound: hi},
	}})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, family, birth_date FROM patients WHERE birth_date >= ? AND birth_date <= ? "+
			"ORDER BY birth_date ASC, id ASC COLLATE BINARY",
		sql)
	assert.Equal(t, []any{lo.UnixMilli(), hi.UnixMilli()}, params)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	compiler := NewSQLCompiler("patients", "birth_date")

	sql, _, err := compiler.Compile(queryir.Between{Min: lo, Max: hi})
	require.NoError(t, err)

	assert.NotContains(t, sql, "2023")
	assert.NotContains(t, sql, "1672531200000")
	assert.Contains(t, sql, "ORDER BY")
}

func TestCompile_EmptyAndSelectsAll(t *testing.T) {
	sql, params, err := NewSQLCompiler("patients", "birth_date").Compile(queryir.And{})
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM patients WHERE 1 = 1 ORDER BY birth_date ASC, id ASC COLLATE BINARY", sql)
	assert.Empty(t, params)
}

func TestCompile_RejectsBadIdentifiers(t *testing.T) {
	testCases := []struct {
		name     string
		compiler *SQLCompiler
	}{
		{"table with space", NewSQLCompiler("patients; DROP", "birth_date")},
		{"empty table", NewSQLCompiler("", "birth_date")},
		{"column starting with digit", NewSQLCompiler("patients", "1col")},
		{"selected column with quote", NewSQLCompiler("patients", "birth_date", `id"`)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.compiler.Compile(queryir.And{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid")
		})
	}

	_, _, err := NewSQLCompiler("patients", "bad-col").CompileWhere(nil)
	require.Error(t, err)
}
