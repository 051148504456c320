// Package querysql compiles date predicates to parameterized SQL for SQLite.
//
// Instants are stored as INTEGER Unix milliseconds, so every bound becomes an
// int64 parameter. Values are never interpolated into the SQL text.
package querysql

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/roach88/datesearch/internal/queryir"
)

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLCompiler compiles predicates over one instant column of one table.
//
// CRITICAL: every query ends with ORDER BY <column>, id so results are
// deterministic and identical to the in-memory source.
type SQLCompiler struct {
	// Table is the table to select from.
	Table string

	// Column is the INTEGER (Unix ms) column predicates compare against.
	Column string

	// Columns lists the selected columns. Empty means "*".
	Columns []string
}

// NewSQLCompiler creates a compiler for table.column.
func NewSQLCompiler(table, column string, columns ...string) *SQLCompiler {
	return &SQLCompiler{Table: table, Column: column, Columns: columns}
}

// Compile converts a predicate to a full SELECT statement.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(p queryir.Predicate) (string, []any, error) {
	if err := c.validateIdentifiers(); err != nil {
		return "", nil, err
	}

	where, params, err := c.compilePredicate(p)
	if err != nil {
		return "", nil, fmt.Errorf("compile filter: %w", err)
	}

	selectClause := "*"
	if len(c.Columns) > 0 {
		selectClause = strings.Join(c.Columns, ", ")
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s",
		selectClause,
		c.Table,
		where,
		c.stableOrderKey())

	return sql, params, nil
}

// CompileWhere converts a predicate to a WHERE fragment without the keyword.
func (c *SQLCompiler) CompileWhere(p queryir.Predicate) (string, []any, error) {
	if !identRegex.MatchString(c.Column) {
		return "", nil, fmt.Errorf("invalid column name %q", c.Column)
	}
	return c.compilePredicate(p)
}

func (c *SQLCompiler) validateIdentifiers() error {
	if !identRegex.MatchString(c.Table) {
		return fmt.Errorf("invalid table name %q", c.Table)
	}
	if !identRegex.MatchString(c.Column) {
		return fmt.Errorf("invalid column name %q", c.Column)
	}
	for _, col := range c.Columns {
		if !identRegex.MatchString(col) {
			return fmt.Errorf("invalid column name %q", col)
		}
	}
	return nil
}

// stableOrderKey returns the ORDER BY clause.
// COLLATE BINARY ensures deterministic text ordering of the id tiebreaker.
func (c *SQLCompiler) stableOrderKey() string {
	return c.Column + " ASC, id ASC COLLATE BINARY"
}

// compilePredicate compiles a predicate to a WHERE clause fragment.
// CRITICAL: Values NEVER interpolated - always use ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil
	}

	col := c.Column

	switch pred := p.(type) {
	case queryir.Between:
		return col + " BETWEEN ? AND ?", []any{param(pred.Min), param(pred.Max)}, nil
	case *queryir.Between:
		return c.compilePredicate(*pred)
	case queryir.Outside:
		return "(" + col + " < ? OR " + col + " > ?)", []any{param(pred.Min), param(pred.Max)}, nil
	case *queryir.Outside:
		return c.compilePredicate(*pred)
	case queryir.OnOrAfter:
		return col + " >= ?", []any{param(pred.Bound)}, nil
	case *queryir.OnOrAfter:
		return c.compilePredicate(*pred)
	case queryir.OnOrBefore:
		return col + " <= ?", []any{param(pred.Bound)}, nil
	case *queryir.OnOrBefore:
		return c.compilePredicate(*pred)
	case queryir.After:
		return col + " > ?", []any{param(pred.Bound)}, nil
	case *queryir.After:
		return c.compilePredicate(*pred)
	case queryir.Before:
		return col + " < ?", []any{param(pred.Bound)}, nil
	case *queryir.Before:
		return c.compilePredicate(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileAnd compiles an And predicate to conjunction with AND.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // vacuous truth
	}

	var sqlParts []string
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	return strings.Join(sqlParts, " AND "), allParams, nil
}

// param converts an instant to its stored representation.
func param(t time.Time) int64 {
	return t.UnixMilli()
}
