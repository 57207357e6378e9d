// Package suite defines the persisted document types for test suites and
// test runs, plus the error taxonomy shared by the builder and runner.
package suite

import (
	"time"

	"github.com/google/uuid"
)

// Version is the document schema version stamped into suite and run metadata.
// Set at build time via ldflags.
var Version = "dev"

// TestCase is one evaluation unit: an input text and an optional reference
// output. Cases are immutable once a suite is persisted; their order is
// significant because candidate outputs are aligned with cases by index.
type TestCase struct {
	Input           string `json:"input"`
	ReferenceOutput string `json:"reference_output,omitempty"`
}

// TestSuite is a named, versioned collection of test cases bound to a
// scoring method. Identity is the name: a suite already on disk under the
// same name is always reused rather than rebuilt.
type TestSuite struct {
	Name          string     `json:"name"`
	ScoringMethod string     `json:"scoring_method"`
	Description   string     `json:"description,omitempty"`
	TestCases     []TestCase `json:"test_cases"`
	Metadata      Metadata   `json:"metadata"`
}

// TestCaseOutput pairs one candidate output with its score. Produced only as
// part of a TestRun, one per candidate, in suite order.
type TestCaseOutput struct {
	Output string  `json:"output"`
	Score  float64 `json:"score"`
}

// TestRun records one scoring pass over a suite. The outputs slice always
// has the same length as the parent suite's test cases. A run is assembled
// once and never mutated afterward.
type TestRun struct {
	Name       string           `json:"name"`
	Outputs    []TestCaseOutput `json:"test_case_outputs"`
	Provenance Provenance       `json:"provenance,omitempty"`
	Metadata   Metadata         `json:"metadata"`

	// Dir is the on-disk run directory, empty when the run was not saved.
	Dir string `json:"-"`
}

// MeanScore returns the average score across the run's outputs, 0 for a run
// with no outputs.
func (r *TestRun) MeanScore() float64 {
	if len(r.Outputs) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range r.Outputs {
		sum += o.Score
	}
	return sum / float64(len(r.Outputs))
}

// Provenance describes which model and prompt produced the candidate
// outputs for a run. All fields are optional and stored verbatim.
type Provenance struct {
	ModelName       string `json:"model_name,omitempty"`
	ModelVersion    string `json:"model_version,omitempty"`
	FoundationModel string `json:"foundation_model,omitempty"`
	PromptTemplate  string `json:"prompt_template,omitempty"`
}

// Metadata stamps an entity with its identity and creation time.
type Metadata struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"bench_version"`
}

// NewMetadata returns freshly stamped metadata for a suite or run.
func NewMetadata() Metadata {
	return Metadata{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Version:   Version,
	}
}
