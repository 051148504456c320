package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/datesearch/internal/patient"
	"github.com/roach88/datesearch/internal/searchterm"
)

// Scenario defines one date search and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Now is the RFC 3339 evaluation instant used by approximate terms.
	Now string `yaml:"now"`

	// Patients are the candidate records.
	Patients []patient.Record `yaml:"patients"`

	// Terms are the raw search terms, ANDed together.
	Terms []string `yaml:"terms"`

	// Expect is the expected outcome.
	Expect Expectation `yaml:"expect"`
}

// Expectation is either a list of matching families or an error.
type Expectation struct {
	// Families lists the matching patients' family names in result order.
	Families []string `yaml:"families,omitempty"`

	// Error is set when evaluation must fail.
	Error *ExpectedError `yaml:"error,omitempty"`
}

// ExpectedError describes the failure a scenario expects.
type ExpectedError struct {
	// Code is the term error code, e.g. INVALID_PREFIX.
	Code string `yaml:"code"`

	// Index is the zero-based position of the failing term.
	Index int `yaml:"index"`

	// Term is the raw failing term.
	Term string `yaml:"term"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "term:" vs "terms:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// NowTime parses the scenario's evaluation instant.
func (s *Scenario) NowTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s.Now)
	if err != nil {
		return time.Time{}, fmt.Errorf("now: %w", err)
	}
	return t.UTC(), nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Now == "" {
		return fmt.Errorf("now is required")
	}
	if _, err := s.NowTime(); err != nil {
		return err
	}

	if s.Expect.Error != nil && len(s.Expect.Families) > 0 {
		return fmt.Errorf("expect: families and error are mutually exclusive")
	}

	if e := s.Expect.Error; e != nil {
		switch searchterm.ErrorCode(e.Code) {
		case searchterm.ErrCodeInvalidPrefix, searchterm.ErrCodeInvalidDateFormat:
		default:
			return fmt.Errorf("expect.error: unknown code %q", e.Code)
		}
		if e.Index < 0 || e.Index >= len(s.Terms) {
			return fmt.Errorf("expect.error: index %d out of range for %d terms", e.Index, len(s.Terms))
		}
	}

	return nil
}
