package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/datesearch/internal/patient"
)

const insertPatientSQL = `
	INSERT INTO patients (id, name_use, family, first_name, middle_name, gender, birth_date, active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertPatients writes patients in one transaction. Either all rows are
// written or none are.
//
// Each patient is normalized and validated first. A duplicate ID fails the
// whole batch.
func (s *Store) InsertPatients(ctx context.Context, patients []patient.Patient) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	stmt, err := tx.PrepareContext(ctx, insertPatientSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range patients {
		p = p.Normalize()
		if err := p.Validate(); err != nil {
			return fmt.Errorf("patient %d: %w", i, err)
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID.String(),
			nullString(p.Use),
			p.Family,
			nullString(p.FirstName),
			nullString(p.MiddleName),
			nullString(p.Gender),
			p.BirthDate.UnixMilli(),
			nullBool(p.Active),
		); err != nil {
			return fmt.Errorf("insert patient %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
