package patient

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// birthDateLayouts are tried in order. Layouts without a zone are UTC.
var birthDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Fixture is the on-disk shape of a patient fixture file.
type Fixture struct {
	Patients []Record `yaml:"patients" json:"patients"`
}

// Record is the exchange shape of a patient: a structured name with given
// names as a list.
type Record struct {
	Name      NameRecord `yaml:"name" json:"name"`
	Gender    string     `yaml:"gender,omitempty" json:"gender,omitempty"`
	BirthDate string     `yaml:"birthDate" json:"birthDate"`
	Active    *bool      `yaml:"active,omitempty" json:"active,omitempty"`
}

// NameRecord is the name block of a Record.
type NameRecord struct {
	ID     string   `yaml:"id,omitempty" json:"id,omitempty"`
	Use    string   `yaml:"use,omitempty" json:"use,omitempty"`
	Family string   `yaml:"family" json:"family"`
	Given  []string `yaml:"given,omitempty" json:"given,omitempty"`
}

// FixtureError reports a fixture that fails schema or record validation.
type FixtureError struct {
	// Index is the zero-based patient position, or -1 for document errors.
	Index   int
	Message string
}

// Error implements the error interface.
func (e *FixtureError) Error() string {
	if e.Index < 0 {
		return "fixture: " + e.Message
	}
	return fmt.Sprintf("fixture: patient %d: %s", e.Index, e.Message)
}

// Schema validates fixtures against the embedded CUE definitions.
//
// A Schema is not safe for concurrent use.
type Schema struct {
	ctx     *cue.Context
	fixture cue.Value
}

// NewSchema compiles the embedded schema.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile patient schema: %w", err)
	}
	return &Schema{
		ctx:     ctx,
		fixture: v.LookupPath(cue.ParsePath("#Fixture")),
	}, nil
}

// Validate checks the fixture against the schema.
func (s *Schema) Validate(f Fixture) error {
	if f.Patients == nil {
		f.Patients = []Record{}
	}
	val := s.ctx.Encode(f)
	if err := val.Err(); err != nil {
		return &FixtureError{Index: -1, Message: err.Error()}
	}

	unified := s.fixture.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError flattens CUE's error list into one message.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &FixtureError{Index: -1, Message: err.Error()}
	}

	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return &FixtureError{Index: -1, Message: strings.Join(msgs, "; ")}
}

// DecodeFixture reads a YAML fixture. Unknown fields are rejected.
func DecodeFixture(r io.Reader) (Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, &FixtureError{Index: -1, Message: "empty document"}
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// LoadFixture decodes, schema-checks and converts a YAML fixture.
func LoadFixture(data []byte) ([]Patient, error) {
	f, err := DecodeFixture(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	schema, err := NewSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(f); err != nil {
		return nil, err
	}

	return f.ToPatients()
}

// ToPatients converts every record, assigning IDs where missing.
func (f Fixture) ToPatients() ([]Patient, error) {
	return FromRecords(f.Patients)
}

// FromRecords converts records to validated patients.
func FromRecords(records []Record) ([]Patient, error) {
	out := make([]Patient, 0, len(records))
	for i, rec := range records {
		p, err := rec.ToPatient()
		if err != nil {
			return nil, &FixtureError{Index: i, Message: err.Error()}
		}
		out = append(out, p)
	}
	return out, nil
}

// ToPatient converts the record. The first given name becomes FirstName and
// the second, if any, MiddleName. A missing ID is replaced by a fresh UUIDv7.
func (r Record) ToPatient() (Patient, error) {
	id, err := recordID(r.Name.ID)
	if err != nil {
		return Patient{}, err
	}

	born, err := ParseBirthDate(r.BirthDate)
	if err != nil {
		return Patient{}, err
	}

	p := Patient{
		ID:        id,
		Use:       r.Name.Use,
		Family:    r.Name.Family,
		Gender:    r.Gender,
		BirthDate: born,
		Active:    r.Active,
	}
	if len(r.Name.Given) > 0 {
		p.FirstName = r.Name.Given[0]
	}
	if len(r.Name.Given) > 1 {
		p.MiddleName = r.Name.Given[1]
	}

	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return Patient{}, err
	}
	return p, nil
}

// ToRecord converts p to its exchange shape.
func (p Patient) ToRecord() Record {
	var given []string
	if p.FirstName != "" {
		given = append(given, p.FirstName)
	}
	if p.MiddleName != "" {
		given = append(given, p.MiddleName)
	}
	return Record{
		Name: NameRecord{
			ID:     p.ID.String(),
			Use:    p.Use,
			Family: p.Family,
			Given:  given,
		},
		Gender:    p.Gender,
		BirthDate: p.BirthDate.UTC().Format("2006-01-02T15:04:05.000Z"),
		Active:    p.Active,
	}
}

// ParseBirthDate accepts RFC 3339 timestamps and zone-less date or date-time
// forms, which are read as UTC.
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, &ValidationError{Field: "birthDate", Message: fmt.Sprintf("cannot parse %q", s)}
}

func recordID(s string) (uuid.UUID, error) {
	if s == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.Nil, fmt.Errorf("generate id: %w", err)
		}
		return id, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: "id", Message: err.Error()}
	}
	return id, nil
}
