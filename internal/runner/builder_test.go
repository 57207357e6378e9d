package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptbench/promptbench/internal/store"
	"github.com/promptbench/promptbench/internal/suite"
	"github.com/promptbench/promptbench/internal/tabular"
)

func TestNewSuiteFromLists(t *testing.T) {
	st := store.New(t.TempDir())

	s, err := NewSuite("arithmetic", "exact_match",
		WithStore(st),
		WithDescription("basic arithmetic"),
		WithInputList([]string{"What is 2+2?", "What is 3+3?"}),
		WithReferenceList([]string{"4", "6"}),
	)
	require.NoError(t, err)

	assert.False(t, s.Reused)
	assert.Equal(t, "arithmetic", s.Def.Name)
	assert.Equal(t, "exact_match", s.Def.ScoringMethod)
	assert.Equal(t, "basic arithmetic", s.Def.Description)
	require.Len(t, s.Def.TestCases, 2)
	assert.Equal(t, suite.TestCase{Input: "What is 2+2?", ReferenceOutput: "4"}, s.Def.TestCases[0])
	assert.Equal(t, suite.TestCase{Input: "What is 3+3?", ReferenceOutput: "6"}, s.Def.TestCases[1])
	assert.NotEmpty(t, s.Def.Metadata.ID)
	assert.False(t, s.Def.Metadata.CreatedAt.IsZero())
}

func TestNewSuiteFromTable(t *testing.T) {
	st := store.New(t.TempDir())

	table, err := tabular.New(map[string][]string{
		"input":            {"q1", "q2"},
		"reference_output": {"a1", "a2"},
	})
	require.NoError(t, err)

	s, err := NewSuite("from-table", "exact_match",
		WithStore(st),
		WithReferenceData(table),
	)
	require.NoError(t, err)
	require.Len(t, s.Def.TestCases, 2)
	assert.Equal(t, "a2", s.Def.TestCases[1].ReferenceOutput)
}

func TestNewSuiteFromCSVPath(t *testing.T) {
	st := store.New(t.TempDir())

	path := filepath.Join(t.TempDir(), "cases.csv")
	require.NoError(t, os.WriteFile(path, []byte("input,reference_output\nq1,a1\nq2,a2\n"), 0o644))

	s, err := NewSuite("from-csv", "exact_match",
		WithStore(st),
		WithReferenceDataPath(path),
	)
	require.NoError(t, err)
	require.Len(t, s.Def.TestCases, 2)
	assert.Equal(t, "q1", s.Def.TestCases[0].Input)
}

func TestNewSuiteCustomColumns(t *testing.T) {
	st := store.New(t.TempDir())

	table, err := tabular.New(map[string][]string{
		"prompt": {"q1"},
		"answer": {"a1"},
	})
	require.NoError(t, err)

	s, err := NewSuite("custom-columns", "exact_match",
		WithStore(st),
		WithReferenceData(table),
		WithInputColumn("prompt"),
		WithReferenceColumn("answer"),
	)
	require.NoError(t, err)
	assert.Equal(t, suite.TestCase{Input: "q1", ReferenceOutput: "a1"}, s.Def.TestCases[0])
}

func TestNewSuiteTableTakesPrecedence(t *testing.T) {
	st := store.New(t.TempDir())

	table, err := tabular.New(map[string][]string{
		"input":            {"from-table"},
		"reference_output": {"ref"},
	})
	require.NoError(t, err)

	// Path and lists are also supplied but the table wins.
	s, err := NewSuite("precedence", "exact_match",
		WithStore(st),
		WithReferenceData(table),
		WithReferenceDataPath(filepath.Join(t.TempDir(), "does-not-exist.csv")),
		WithInputList([]string{"from-list"}),
		WithReferenceList([]string{"ref"}),
	)
	require.NoError(t, err)
	require.Len(t, s.Def.TestCases, 1)
	assert.Equal(t, "from-table", s.Def.TestCases[0].Input)
}

func TestNewSuiteNoSource(t *testing.T) {
	st := store.New(t.TempDir())

	_, err := NewSuite("empty", "exact_match", WithStore(st))
	require.Error(t, err)

	var userErr *suite.UserInputError
	assert.True(t, errors.As(err, &userErr))
	assert.NoDirExists(t, st.SuiteDir("empty"))
}

func TestNewSuiteUnknownScoringMethod(t *testing.T) {
	st := store.New(t.TempDir())

	_, err := NewSuite("bad-method", "definitely-not-a-method",
		WithStore(st),
		WithInputList([]string{"q"}),
		WithReferenceList([]string{"a"}),
	)
	require.Error(t, err)

	var userErr *suite.UserInputError
	assert.True(t, errors.As(err, &userErr))
}

func TestNewSuiteReferenceFreeMethodIgnoresReferences(t *testing.T) {
	st := store.New(t.TempDir())

	// qa_correctness does not consult references, so supplied reference
	// data is dropped from the suite.
	s, err := NewSuite("qa", "qa_correctness",
		WithStore(st),
		WithInputList([]string{"q1", "q2"}),
		WithReferenceList([]string{"a1", "a2"}),
	)
	require.NoError(t, err)
	for _, c := range s.Def.TestCases {
		assert.Empty(t, c.ReferenceOutput)
	}
}

func TestNewSuiteMissingReferenceColumn(t *testing.T) {
	st := store.New(t.TempDir())

	table, err := tabular.New(map[string][]string{
		"input": {"q1"},
	})
	require.NoError(t, err)

	_, err = NewSuite("no-refs", "exact_match",
		WithStore(st),
		WithReferenceData(table),
	)
	require.Error(t, err)

	var userErr *suite.UserInputError
	assert.True(t, errors.As(err, &userErr))
}

func TestNewSuiteListLengthMismatch(t *testing.T) {
	st := store.New(t.TempDir())

	_, err := NewSuite("mismatch", "exact_match",
		WithStore(st),
		WithInputList([]string{"q1", "q2"}),
		WithReferenceList([]string{"a1"}),
	)
	require.Error(t, err)

	var userErr *suite.UserInputError
	assert.True(t, errors.As(err, &userErr))
}

func TestNewSuiteWritesSuiteDocument(t *testing.T) {
	st := store.New(t.TempDir())

	_, err := NewSuite("persisted", "exact_match",
		WithStore(st),
		WithInputList([]string{"q"}),
		WithReferenceList([]string{"a"}),
	)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(st.SuiteDir("persisted"), "suite.json"))
}

func TestNewSuiteReuseIgnoresNewArguments(t *testing.T) {
	st := store.New(t.TempDir())

	first, err := NewSuite("reused", "exact_match",
		WithStore(st),
		WithInputList([]string{"q1", "q2"}),
		WithReferenceList([]string{"a1", "a2"}),
	)
	require.NoError(t, err)
	assert.False(t, first.Reused)

	// Second construction with a different scoring method and different
	// data: everything is ignored in favor of the persisted suite.
	second, err := NewSuite("reused", "summary_quality",
		WithStore(st),
		WithInputList([]string{"completely", "different", "inputs"}),
		WithReferenceList([]string{"x", "y", "z"}),
	)
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.Equal(t, "exact_match", second.Def.ScoringMethod)
	assert.Equal(t, first.Def.TestCases, second.Def.TestCases)
	assert.Equal(t, first.Def.Metadata.ID, second.Def.Metadata.ID)
}

func TestNewSuiteReuseWithoutAnyData(t *testing.T) {
	st := store.New(t.TempDir())

	_, err := NewSuite("reopen", "exact_match",
		WithStore(st),
		WithInputList([]string{"q"}),
		WithReferenceList([]string{"a"}),
	)
	require.NoError(t, err)

	// Reopening an existing suite needs no data source at all.
	s, err := NewSuite("reopen", "exact_match", WithStore(st))
	require.NoError(t, err)
	assert.True(t, s.Reused)
	assert.Len(t, s.Def.TestCases, 1)
}
