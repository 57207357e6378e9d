// Package runner implements the scoring-run pipeline: building reusable
// test suites from heterogeneous data sources and scoring candidate outputs
// against them in batches.
package runner

import (
	"fmt"
	"log/slog"

	"github.com/promptbench/promptbench/internal/scoring"
	"github.com/promptbench/promptbench/internal/store"
	"github.com/promptbench/promptbench/internal/suite"
	"github.com/promptbench/promptbench/internal/tabular"
)

// Default column names for tabular data sources.
const (
	DefaultInputColumn     = "input"
	DefaultReferenceColumn = "reference_output"
	DefaultCandidateColumn = "candidate_output"
)

// Suite is a reusable pipeline for scoring candidate outputs against a
// persisted test suite.
type Suite struct {
	// Def is the suite document. Treat it as read-only: persisted test
	// cases are never mutated.
	Def *suite.TestSuite

	// Reused reports that an existing suite with the same name was found
	// on disk and loaded instead of building a new one. In that case the
	// scoring method and data arguments passed to NewSuite were ignored.
	Reused bool

	store *store.Store
}

type suiteOptions struct {
	description     string
	data            *tabular.Table
	dataPath        string
	inputColumn     string
	referenceColumn string
	inputList       []string
	referenceList   []string
	store           *store.Store
}

// SuiteOption configures suite construction.
type SuiteOption func(*suiteOptions)

// WithDescription sets a short description of the task tested by the suite.
func WithDescription(description string) SuiteOption {
	return func(o *suiteOptions) { o.description = description }
}

// WithReferenceData supplies test cases from an in-memory table.
func WithReferenceData(data *tabular.Table) SuiteOption {
	return func(o *suiteOptions) { o.data = data }
}

// WithReferenceDataPath supplies test cases from a CSV file.
func WithReferenceDataPath(path string) SuiteOption {
	return func(o *suiteOptions) { o.dataPath = path }
}

// WithInputColumn overrides the column holding inputs (default "input").
func WithInputColumn(name string) SuiteOption {
	return func(o *suiteOptions) { o.inputColumn = name }
}

// WithReferenceColumn overrides the column holding reference outputs
// (default "reference_output").
func WithReferenceColumn(name string) SuiteOption {
	return func(o *suiteOptions) { o.referenceColumn = name }
}

// WithInputList supplies inputs as an explicit list instead of a table.
func WithInputList(inputs []string) SuiteOption {
	return func(o *suiteOptions) { o.inputList = inputs }
}

// WithReferenceList supplies reference outputs alongside WithInputList.
func WithReferenceList(references []string) SuiteOption {
	return func(o *suiteOptions) { o.referenceList = references }
}

// WithStore overrides the persistence store (default: store.New("")).
func WithStore(s *store.Store) SuiteOption {
	return func(o *suiteOptions) { o.store = s }
}

// NewSuite builds a test suite from one of three data sources, checked in
// order: in-memory table, CSV path, explicit lists. The first usable source
// wins. If no source supplies usable data, a *suite.UserInputError is
// returned.
//
// Construction is idempotent per name: when a suite with the given name
// already exists in the store, the persisted suite is loaded and returned
// as-is, including its original scoring method and test cases, and the
// scoring method and data arguments are ignored. Reuse is reported via the
// Reused flag and a log event.
//
// On first construction the suite directory is created and the suite
// document written before returning.
func NewSuite(name, scoringMethod string, opts ...SuiteOption) (*Suite, error) {
	o := &suiteOptions{
		inputColumn:     DefaultInputColumn,
		referenceColumn: DefaultReferenceColumn,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.store == nil {
		o.store = store.New("")
	}

	if o.store.SuiteExists(name) {
		def, err := o.store.LoadSuite(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing suite: %w", err)
		}
		slog.Info("found existing test suite, using existing suite", "name", name)
		if def.ScoringMethod != scoringMethod {
			slog.Warn("requested scoring method differs from existing suite, keeping existing",
				"name", name,
				"requested", scoringMethod,
				"existing", def.ScoringMethod,
			)
		}
		return &Suite{Def: def, Reused: true, store: o.store}, nil
	}

	method, err := scoring.Load(scoringMethod)
	if err != nil {
		return nil, err
	}

	cases, err := resolveSuiteCases(o, method.RequiresReference())
	if err != nil {
		return nil, err
	}

	def := &suite.TestSuite{
		Name:          name,
		ScoringMethod: scoringMethod,
		Description:   o.description,
		TestCases:     cases,
		Metadata:      suite.NewMetadata(),
	}

	if err := o.store.SaveSuite(def); err != nil {
		return nil, fmt.Errorf("failed to persist suite %q: %w", name, err)
	}

	slog.Info("created test suite",
		"name", name,
		"scoring_method", scoringMethod,
		"cases", len(cases),
	)

	return &Suite{Def: def, store: o.store}, nil
}
