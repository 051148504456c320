package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/queryir"
	"github.com/roach88/datesearch/internal/querysql"
)

// BirthDateSource filters stored patients by birth date.
// It satisfies engine.Source[patient.Patient].
type BirthDateSource struct {
	store    *Store
	compiler *querysql.SQLCompiler
	logger   *slog.Logger
}

// Source returns a record source over the birth_date column.
func (s *Store) Source(logger *slog.Logger) *BirthDateSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &BirthDateSource{
		store:    s,
		compiler: querysql.NewSQLCompiler("patients", "birth_date", patientColumns...),
		logger:   logger,
	}
}

// Filter returns the patients whose birth date satisfies p, ordered by birth
// date then id.
func (b *BirthDateSource) Filter(ctx context.Context, p queryir.Predicate) ([]patient.Patient, error) {
	query, params, err := b.compiler.Compile(p)
	if err != nil {
		return nil, fmt.Errorf("compile predicate: %w", err)
	}
	b.logger.Debug("executing query", "sql", query, "params", params)

	rows, err := b.store.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	patients := []patient.Patient{}
	for rows.Next() {
		pt, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}
