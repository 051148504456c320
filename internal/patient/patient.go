// Package patient defines the searchable patient record and loads patient
// fixtures from YAML.
//
// The birth date is the field date searches run against. Every other field
// is carried along so results are recognizable.
package patient

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// MaxGenderLength is the storage limit for the gender code.
const MaxGenderLength = 7

// Genders lists the accepted gender codes. An empty gender is also accepted.
var Genders = []string{"male", "female", "other", "unknown"}

// Patient is one searchable record.
type Patient struct {
	ID         uuid.UUID `json:"id"`
	Use        string    `json:"use,omitempty"`
	Family     string    `json:"family"`
	FirstName  string    `json:"firstName,omitempty"`
	MiddleName string    `json:"middleName,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	BirthDate  time.Time `json:"birthDate"`
	Active     *bool     `json:"active,omitempty"`
}

// BirthDateOf returns p.BirthDate. It is the field accessor handed to
// in-memory sources.
func BirthDateOf(p Patient) time.Time {
	return p.BirthDate
}

// ValidationError reports a patient field that violates a constraint.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Normalize returns a copy of p with names trimmed and NFC-normalized and the
// birth date converted to UTC at millisecond resolution.
func (p Patient) Normalize() Patient {
	p.Use = normalizeText(p.Use)
	p.Family = normalizeText(p.Family)
	p.FirstName = normalizeText(p.FirstName)
	p.MiddleName = normalizeText(p.MiddleName)
	p.Gender = strings.TrimSpace(p.Gender)
	p.BirthDate = p.BirthDate.UTC().Truncate(time.Millisecond)
	return p
}

// Validate checks the record constraints. It returns the first violation as
// a *ValidationError.
func (p Patient) Validate() error {
	if p.ID == uuid.Nil {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(p.Family) == "" {
		return &ValidationError{Field: "family", Message: "is required"}
	}
	if utf8.RuneCountInString(p.Gender) > MaxGenderLength {
		return &ValidationError{
			Field:   "gender",
			Message: fmt.Sprintf("must be at most %d characters", MaxGenderLength),
		}
	}
	if p.Gender != "" && !slices.Contains(Genders, p.Gender) {
		return &ValidationError{
			Field:   "gender",
			Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(Genders, ", "), p.Gender),
		}
	}
	if p.BirthDate.IsZero() {
		return &ValidationError{Field: "birthDate", Message: "is required"}
	}
	return nil
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
