package harness

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/datesearch/internal/queryir"
)

// Snapshot captures everything a scenario produced, for golden comparison.
type Snapshot struct {
	Scenario  string     `json:"scenario"`
	Now       string     `json:"now"`
	Terms     []string   `json:"terms"`
	Predicate string     `json:"predicate,omitempty"`
	SQL       string     `json:"sql,omitempty"`
	Params    []int64    `json:"params,omitempty"`
	Matches   []Match    `json:"matches"`
	Error     *ErrorInfo `json:"error,omitempty"`
}

// NewSnapshot builds the snapshot for a scenario result.
func NewSnapshot(scenario *Scenario, result *Result) Snapshot {
	terms := scenario.Terms
	if terms == nil {
		terms = []string{}
	}
	return Snapshot{
		Scenario:  scenario.Name,
		Now:       scenario.Now,
		Terms:     terms,
		Predicate: result.Predicate,
		SQL:       result.SQL,
		Params:    result.Params,
		Matches:   result.Matches,
		Error:     result.Error,
	}
}

// Marshal renders the snapshot as indented JSON with HTML escaping disabled,
// so comparison operators stay readable.
func (s Snapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := NewSnapshot(scenario, result).Marshal()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}

func formatPredicate(p queryir.Predicate) string {
	return queryir.Format(p, "birth_date")
}
