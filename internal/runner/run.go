package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/promptbench/promptbench/internal/scoring"
	"github.com/promptbench/promptbench/internal/suite"
	"github.com/promptbench/promptbench/internal/tabular"
)

// DefaultBatchSize is the number of cases scored per call into the scoring
// method when no override is given.
const DefaultBatchSize = 32

type runOptions struct {
	data            *tabular.Table
	dataPath        string
	candidateColumn string
	candidateList   []string
	contextColumn   string
	contextList     []string
	batchSize       int
	save            bool
	provenance      suite.Provenance
}

// RunOption configures a scoring run.
type RunOption func(*runOptions)

// WithCandidateData supplies candidate outputs from an in-memory table.
func WithCandidateData(data *tabular.Table) RunOption {
	return func(o *runOptions) { o.data = data }
}

// WithCandidateDataPath supplies candidate outputs from a CSV file.
func WithCandidateDataPath(path string) RunOption {
	return func(o *runOptions) { o.dataPath = path }
}

// WithCandidateColumn overrides the column holding candidate outputs
// (default "candidate_output").
func WithCandidateColumn(name string) RunOption {
	return func(o *runOptions) { o.candidateColumn = name }
}

// WithCandidateList supplies candidate outputs as an explicit list.
func WithCandidateList(candidates []string) RunOption {
	return func(o *runOptions) { o.candidateList = candidates }
}

// WithContextColumn selects a table column holding supporting context.
func WithContextColumn(name string) RunOption {
	return func(o *runOptions) { o.contextColumn = name }
}

// WithContextList supplies supporting context as an explicit list.
func WithContextList(contexts []string) RunOption {
	return func(o *runOptions) { o.contextList = contexts }
}

// WithBatchSize overrides the scoring batch size (default 32).
func WithBatchSize(n int) RunOption {
	return func(o *runOptions) { o.batchSize = n }
}

// WithSave controls whether the run (and refreshed suite) are persisted.
// Saving is on by default.
func WithSave(save bool) RunOption {
	return func(o *runOptions) { o.save = save }
}

// WithModelName records the name of the model that produced the candidates.
func WithModelName(name string) RunOption {
	return func(o *runOptions) { o.provenance.ModelName = name }
}

// WithModelVersion records the version of the model that produced the candidates.
func WithModelVersion(version string) RunOption {
	return func(o *runOptions) { o.provenance.ModelVersion = version }
}

// WithFoundationModel records the foundation model identifier.
func WithFoundationModel(name string) RunOption {
	return func(o *runOptions) { o.provenance.FoundationModel = name }
}

// WithPromptTemplate records the prompt template identifier.
func WithPromptTemplate(name string) RunOption {
	return func(o *runOptions) { o.provenance.PromptTemplate = name }
}

// Run scores one set of candidate outputs against the suite and returns the
// assembled test run.
//
// Candidates must resolve to exactly one output per test case, in suite
// order; a count mismatch is a *suite.UserValueError and nothing is written
// to disk. Cases are scored sequentially in contiguous batches; batch size
// only affects chunking, never scores or order. When saving is enabled the
// run directory is reserved before scoring begins, and any scoring failure
// deletes it again before the error (a *suite.InternalError wrapping the
// cause) is returned. No partial run is ever returned.
func (s *Suite) Run(ctx context.Context, runName string, opts ...RunOption) (*suite.TestRun, error) {
	o := &runOptions{
		candidateColumn: DefaultCandidateColumn,
		batchSize:       DefaultBatchSize,
		save:            true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.batchSize <= 0 {
		return nil, &suite.UserInputError{Msg: fmt.Sprintf("batch size must be a positive integer, got %d", o.batchSize)}
	}

	candidates, contexts, err := resolveRunData(o)
	if err != nil {
		return nil, err
	}

	cases := s.Def.TestCases
	if len(candidates) != len(cases) {
		return nil, &suite.UserValueError{
			Msg: fmt.Sprintf("candidate data has %d tests but expected %d tests", len(candidates), len(cases)),
		}
	}
	if contexts != nil && len(contexts) != len(cases) {
		return nil, &suite.UserValueError{
			Msg: fmt.Sprintf("context data has %d entries but expected %d", len(contexts), len(cases)),
		}
	}

	// The suite's stored method is authoritative, not whatever the caller
	// used when constructing the Suite value.
	method, err := scoring.Load(s.Def.ScoringMethod)
	if err != nil {
		return nil, err
	}

	var runDir string
	if o.save {
		runDir, err = s.store.CreateRunDir(s.Def.Name, runName)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve run directory: %w", err)
		}
	}

	scores, err := s.scoreBatches(ctx, method, candidates, contexts, o.batchSize)
	if err != nil {
		slog.Error("failed to create run", "run", runName, "error", err)
		if runDir != "" {
			if cleanupErr := s.store.DeleteDir(runDir); cleanupErr != nil {
				slog.Error("failed to clean up run directory", "run", runName, "error", cleanupErr)
			}
		}
		return nil, &suite.InternalError{Msg: fmt.Sprintf("failed to create run %s", runName), Err: err}
	}

	outputs := make([]suite.TestCaseOutput, len(candidates))
	for i, candidate := range candidates {
		outputs[i] = suite.TestCaseOutput{Output: candidate, Score: scores[i]}
	}

	run := &suite.TestRun{
		Name:       runName,
		Outputs:    outputs,
		Provenance: o.provenance,
		Metadata:   suite.NewMetadata(),
		Dir:        runDir,
	}

	if o.save {
		// Re-save the suite for metadata refresh; the run document is new.
		if err := s.store.SaveSuite(s.Def); err != nil {
			return nil, fmt.Errorf("failed to persist suite: %w", err)
		}
		if err := s.store.SaveRun(s.Def.Name, run); err != nil {
			return nil, fmt.Errorf("failed to persist run %q: %w", runName, err)
		}
	}

	slog.Info("test run complete",
		"suite", s.Def.Name,
		"run", runName,
		"cases", len(outputs),
		"saved", o.save,
	)

	return run, nil
}

// scoreBatches partitions the case range into contiguous chunks of
// batchSize and invokes the scoring method once per chunk with parallel,
// index-aligned slices. Scores come back concatenated in suite order.
func (s *Suite) scoreBatches(ctx context.Context, method scoring.Method, candidates, contexts []string, batchSize int) ([]float64, error) {
	cases := s.Def.TestCases
	allScores := make([]float64, 0, len(cases))

	for start := 0; start < len(cases); start += batchSize {
		end := min(start+batchSize, len(cases))

		inputs := make([]string, end-start)
		var references []string
		if method.RequiresReference() {
			references = make([]string, end-start)
		}
		for i := start; i < end; i++ {
			inputs[i-start] = cases[i].Input
			if references != nil {
				references[i-start] = cases[i].ReferenceOutput
			}
		}

		var contextBatch []string
		if contexts != nil {
			contextBatch = contexts[start:end]
		}

		scores, err := method.RunBatch(ctx, references, candidates[start:end], inputs, contextBatch)
		if err != nil {
			return nil, err
		}
		if len(scores) != end-start {
			return nil, fmt.Errorf("scoring method %s returned %d scores for %d cases", method.Name(), len(scores), end-start)
		}
		allScores = append(allScores, scores...)
	}

	return allScores, nil
}
