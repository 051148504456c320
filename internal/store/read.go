package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/datesearch/internal/patient"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// patientColumns is the column list every patient query selects, in scan order.
var patientColumns = []string{
	"id", "name_use", "family", "first_name", "middle_name", "gender", "birth_date", "active",
}

// GetPatient returns the patient with the given ID.
// Returns an error wrapping ErrNotFound if no such patient exists.
func (s *Store) GetPatient(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name_use, family, first_name, middle_name, gender, birth_date, active
		FROM patients
		WHERE id = ?
	`, id.String())

	p, err := scanPatient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return patient.Patient{}, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return patient.Patient{}, fmt.Errorf("get patient %s: %w", id, err)
	}
	return p, nil
}

// CountPatients returns the number of stored patients.
func (s *Store) CountPatients(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patients").Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPatient(row scanner) (patient.Patient, error) {
	var (
		id                         string
		use, first, middle, gender sql.NullString
		family                     string
		birthMillis                int64
		active                     sql.NullBool
	)
	if err := row.Scan(&id, &use, &family, &first, &middle, &gender, &birthMillis, &active); err != nil {
		return patient.Patient{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return patient.Patient{}, fmt.Errorf("parse id %q: %w", id, err)
	}

	p := patient.Patient{
		ID:         parsed,
		Use:        use.String,
		Family:     family,
		FirstName:  first.String,
		MiddleName: middle.String,
		Gender:     gender.String,
		BirthDate:  time.UnixMilli(birthMillis).UTC(),
	}
	if active.Valid {
		v := active.Bool
		p.Active = &v
	}
	return p, nil
}
