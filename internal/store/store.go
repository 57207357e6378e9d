// Package store persists test suites and test runs on the local filesystem.
//
// Layout: one directory per suite under the root, keyed by suite name, with
// a suite.json document; one subdirectory per run under the suite directory,
// keyed by run name, with a run.json document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/promptbench/promptbench/internal/suite"
)

const (
	suiteFile = "suite.json"
	runFile   = "run.json"

	// EnvRootDir overrides the default storage root.
	EnvRootDir = "PROMPTBENCH_DIR"

	defaultRootDir = "bench_runs"
)

// ErrNotFound is returned when a suite or run does not exist in the store.
var ErrNotFound = errors.New("not found")

// Store reads and writes suite and run documents under a root directory.
type Store struct {
	root string
}

// New creates a store rooted at dir. When dir is empty, the PROMPTBENCH_DIR
// environment variable is used, falling back to ./bench_runs.
func New(dir string) *Store {
	if dir == "" {
		dir = os.Getenv(EnvRootDir)
	}
	if dir == "" {
		dir = defaultRootDir
	}
	return &Store{root: dir}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// SuiteDir returns the directory for the named suite.
func (s *Store) SuiteDir(name string) string {
	return filepath.Join(s.root, name)
}

// RunDir returns the directory for the named run within a suite.
func (s *Store) RunDir(suiteName, runName string) string {
	return filepath.Join(s.root, suiteName, runName)
}

// SuiteExists reports whether a suite document exists for the given name.
func (s *Store) SuiteExists(name string) bool {
	info, err := os.Stat(filepath.Join(s.SuiteDir(name), suiteFile))
	return err == nil && !info.IsDir()
}

// LoadSuite reads the persisted suite document for the given name.
// Returns ErrNotFound when no such suite exists.
func (s *Store) LoadSuite(name string) (*suite.TestSuite, error) {
	data, err := os.ReadFile(filepath.Join(s.SuiteDir(name), suiteFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("suite %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read suite %q: %w", name, err)
	}

	var ts suite.TestSuite
	if err := json.Unmarshal(data, &ts); err != nil {
		return nil, fmt.Errorf("failed to parse suite %q: %w", name, err)
	}
	return &ts, nil
}

// CreateSuiteDir creates the directory for a new suite and returns its path.
func (s *Store) CreateSuiteDir(name string) (string, error) {
	dir := s.SuiteDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create suite directory: %w", err)
	}
	return dir, nil
}

// CreateRunDir creates the directory for a new run and returns its path.
func (s *Store) CreateRunDir(suiteName, runName string) (string, error) {
	dir := s.RunDir(suiteName, runName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return dir, nil
}

// DeleteDir removes a directory and its contents. Best effort: the caller is
// cleaning up after a failure and has nothing useful to do with an error here
// beyond logging it.
func (s *Store) DeleteDir(dir string) error {
	return os.RemoveAll(dir)
}

// SaveSuite writes the suite document into the suite's directory, creating
// the directory if needed.
func (s *Store) SaveSuite(ts *suite.TestSuite) error {
	dir, err := s.CreateSuiteDir(ts.Name)
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, suiteFile), ts)
}

// SaveRun writes the run document into the run's directory. The directory
// must already exist: it is reserved before scoring begins.
func (s *Store) SaveRun(suiteName string, run *suite.TestRun) error {
	dir := run.Dir
	if dir == "" {
		dir = s.RunDir(suiteName, run.Name)
	}
	return writeJSON(filepath.Join(dir, runFile), run)
}

// LoadRun reads a persisted run document.
func (s *Store) LoadRun(suiteName, runName string) (*suite.TestRun, error) {
	data, err := os.ReadFile(filepath.Join(s.RunDir(suiteName, runName), runFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run %q: %w", runName, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read run %q: %w", runName, err)
	}

	var run suite.TestRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to parse run %q: %w", runName, err)
	}
	run.Dir = s.RunDir(suiteName, runName)
	return &run, nil
}

// ListSuites returns the names of all suites with a suite document, sorted.
func (s *Store) ListSuites() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read store root: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && s.SuiteExists(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListRuns returns the names of all persisted runs for a suite, sorted.
func (s *Store) ListRuns(suiteName string) ([]string, error) {
	entries, err := os.ReadDir(s.SuiteDir(suiteName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read suite directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.SuiteDir(suiteName), e.Name(), runFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
