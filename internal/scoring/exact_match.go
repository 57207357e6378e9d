package scoring

import (
	"context"
	"fmt"
	"strings"
)

func init() {
	Register("exact_match", func() (Method, error) {
		return &ExactMatch{}, nil
	})
}

// ExactMatch scores 1.0 when the candidate equals the reference output after
// trimming surrounding whitespace, 0.0 otherwise.
type ExactMatch struct {
	// CaseSensitive preserves letter case during comparison.
	CaseSensitive bool
}

func (m *ExactMatch) Name() string {
	return "exact_match"
}

func (m *ExactMatch) RequiresReference() bool {
	return true
}

func (m *ExactMatch) RunBatch(_ context.Context, references, candidates, _, _ []string) ([]float64, error) {
	if len(references) != len(candidates) {
		return nil, fmt.Errorf("got %d references for %d candidates", len(references), len(candidates))
	}

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		ref := strings.TrimSpace(references[i])
		cand := strings.TrimSpace(candidate)
		if !m.CaseSensitive {
			ref = strings.ToLower(ref)
			cand = strings.ToLower(cand)
		}
		if ref == cand {
			scores[i] = 1.0
		}
	}
	return scores, nil
}
