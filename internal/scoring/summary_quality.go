package scoring

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/promptbench/promptbench/internal/llm"
)

func init() {
	Register("summary_quality", func() (Method, error) {
		client := llm.NewOpenAIClient(llm.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
		return NewSummaryQuality(client, ""), nil
	})
}

// SummaryQuality uses an LLM judge to compare each candidate summary against
// the reference summary of the same source text.
type SummaryQuality struct {
	client llm.Client
	model  string
}

// NewSummaryQuality creates a summary_quality method backed by the given
// client. An empty model selects DefaultJudgeModel.
func NewSummaryQuality(client llm.Client, model string) *SummaryQuality {
	if model == "" {
		model = DefaultJudgeModel
	}
	return &SummaryQuality{client: client, model: model}
}

func (m *SummaryQuality) Name() string {
	return "summary_quality"
}

func (m *SummaryQuality) RequiresReference() bool {
	return true
}

func (m *SummaryQuality) RunBatch(ctx context.Context, references, candidates, inputs, _ []string) ([]float64, error) {
	if len(references) != len(candidates) || len(inputs) != len(candidates) {
		return nil, fmt.Errorf("got %d references and %d inputs for %d candidates",
			len(references), len(inputs), len(candidates))
	}

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		var b strings.Builder
		fmt.Fprintf(&b, "SOURCE TEXT: %s\n", inputs[i])
		fmt.Fprintf(&b, "REFERENCE SUMMARY: %s\n", references[i])
		fmt.Fprintf(&b, "CANDIDATE SUMMARY: %s\n", candidate)

		verdict, err := judge(ctx, m.client, m.model, SummaryQualityPrompt, b.String())
		if err != nil {
			return nil, fmt.Errorf("summary_quality judge failed on item %d: %w", i, err)
		}
		scores[i] = verdict
	}
	return scores, nil
}
