package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptbench/promptbench/internal/suite"
)

func testSuiteDef(name string) *suite.TestSuite {
	return &suite.TestSuite{
		Name:          name,
		ScoringMethod: "exact_match",
		TestCases: []suite.TestCase{
			{Input: "What is 2+2?", ReferenceOutput: "4"},
			{Input: "What is 3+3?", ReferenceOutput: "6"},
		},
		Metadata: suite.NewMetadata(),
	}
}

func TestSaveAndLoadSuite(t *testing.T) {
	st := New(t.TempDir())

	def := testSuiteDef("arithmetic")
	require.NoError(t, st.SaveSuite(def))
	assert.True(t, st.SuiteExists("arithmetic"))

	loaded, err := st.LoadSuite("arithmetic")
	require.NoError(t, err)
	assert.Equal(t, def.Name, loaded.Name)
	assert.Equal(t, def.ScoringMethod, loaded.ScoringMethod)
	assert.Equal(t, def.TestCases, loaded.TestCases)
	assert.Equal(t, def.Metadata.ID, loaded.Metadata.ID)
}

func TestLoadSuiteNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.LoadSuite("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSuiteExistsRequiresDocument(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	// A bare directory without suite.json is not a suite.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	assert.False(t, st.SuiteExists("empty"))
}

func TestSaveAndLoadRun(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.SaveSuite(testSuiteDef("qa")))

	dir, err := st.CreateRunDir("qa", "run-1")
	require.NoError(t, err)

	run := &suite.TestRun{
		Name: "run-1",
		Outputs: []suite.TestCaseOutput{
			{Output: "4", Score: 1.0},
			{Output: "six", Score: 0.0},
		},
		Provenance: suite.Provenance{ModelName: "my-model"},
		Metadata:   suite.NewMetadata(),
		Dir:        dir,
	}
	require.NoError(t, st.SaveRun("qa", run))

	loaded, err := st.LoadRun("qa", "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Outputs, loaded.Outputs)
	assert.Equal(t, "my-model", loaded.Provenance.ModelName)
	assert.Equal(t, dir, loaded.Dir)
}

func TestLoadRunNotFound(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.LoadRun("qa", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListSuites(t *testing.T) {
	st := New(t.TempDir())

	require.NoError(t, st.SaveSuite(testSuiteDef("beta")))
	require.NoError(t, st.SaveSuite(testSuiteDef("alpha")))

	names, err := st.ListSuites()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)
}

func TestListSuitesEmptyRoot(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "does-not-exist"))

	names, err := st.ListSuites()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListRuns(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.SaveSuite(testSuiteDef("qa")))

	for _, name := range []string{"run-b", "run-a"} {
		dir, err := st.CreateRunDir("qa", name)
		require.NoError(t, err)
		run := &suite.TestRun{Name: name, Metadata: suite.NewMetadata(), Dir: dir}
		require.NoError(t, st.SaveRun("qa", run))
	}

	// A reserved directory without a run document is not listed.
	_, err := st.CreateRunDir("qa", "aborted")
	require.NoError(t, err)

	names, err := st.ListRuns("qa")
	require.NoError(t, err)
	assert.Equal(t, []string{"run-a", "run-b"}, names)
}

func TestDeleteDir(t *testing.T) {
	st := New(t.TempDir())

	dir, err := st.CreateRunDir("qa", "doomed")
	require.NoError(t, err)
	require.DirExists(t, dir)

	require.NoError(t, st.DeleteDir(dir))
	assert.NoDirExists(t, dir)
}

func TestNewDefaultRoot(t *testing.T) {
	t.Setenv(EnvRootDir, "/tmp/bench-test-root")
	assert.Equal(t, "/tmp/bench-test-root", New("").Root())

	t.Setenv(EnvRootDir, "")
	assert.Equal(t, defaultRootDir, New("").Root())

	assert.Equal(t, "explicit", New("explicit").Root())
}
