// Package scoring defines the pluggable scoring method interface and the
// registry that resolves method names to implementations.
package scoring

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/promptbench/promptbench/internal/suite"
)

// Method scores a batch of candidate outputs against their test cases.
type Method interface {
	// Name returns the method identifier (e.g. "exact_match").
	Name() string

	// RequiresReference reports whether the method needs reference outputs.
	// Suites built for methods that return false drop reference data.
	RequiresReference() bool

	// RunBatch scores candidates[i] for inputs[i], returning one score per
	// candidate in the same order. references is nil when the method does
	// not require references; contexts is nil when the caller supplied no
	// context. Non-nil slices are index-aligned with candidates.
	RunBatch(ctx context.Context, references, candidates, inputs, contexts []string) ([]float64, error)
}

// Factory produces a ready-to-use scoring method.
type Factory func() (Method, error)

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register adds a scoring method factory under the given name, replacing
// any previous registration.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Load resolves a method name to an implementation. Unknown names are a
// user input error.
func Load(name string) (Method, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()

	if !ok {
		return nil, &suite.UserInputError{Msg: fmt.Sprintf("unknown scoring method: %s", name)}
	}

	method, err := factory()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scoring method %q: %w", name, err)
	}
	return method, nil
}

// Names returns all registered method names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
