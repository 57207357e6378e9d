package scoring

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/promptbench/promptbench/internal/llm"
)

// DefaultJudgeModel is the default model used for LLM-as-judge methods.
const DefaultJudgeModel = "gpt-4o-mini"

func init() {
	Register("qa_correctness", func() (Method, error) {
		client := llm.NewOpenAIClient(llm.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
		return NewQACorrectness(client, ""), nil
	})
}

// QACorrectness uses an LLM judge to decide whether each candidate answer
// correctly answers its question. Reference outputs are not consulted, so
// suites for this method can be built without reference data. Supporting
// context, when supplied, is shown to the judge.
type QACorrectness struct {
	client llm.Client
	model  string
}

// NewQACorrectness creates a qa_correctness method backed by the given
// client. An empty model selects DefaultJudgeModel.
func NewQACorrectness(client llm.Client, model string) *QACorrectness {
	if model == "" {
		model = DefaultJudgeModel
	}
	return &QACorrectness{client: client, model: model}
}

func (m *QACorrectness) Name() string {
	return "qa_correctness"
}

func (m *QACorrectness) RequiresReference() bool {
	return false
}

func (m *QACorrectness) RunBatch(ctx context.Context, _, candidates, inputs, contexts []string) ([]float64, error) {
	if len(inputs) != len(candidates) {
		return nil, fmt.Errorf("got %d inputs for %d candidates", len(inputs), len(candidates))
	}

	scores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		var b strings.Builder
		fmt.Fprintf(&b, "QUESTION: %s\n", inputs[i])
		if contexts != nil {
			fmt.Fprintf(&b, "CONTEXT: %s\n", contexts[i])
		}
		fmt.Fprintf(&b, "CANDIDATE ANSWER: %s\n", candidate)

		verdict, err := judge(ctx, m.client, m.model, QACorrectnessPrompt, b.String())
		if err != nil {
			return nil, fmt.Errorf("qa_correctness judge failed on item %d: %w", i, err)
		}
		scores[i] = verdict
	}
	return scores, nil
}

// judge sends one grading request and parses the binary verdict.
func judge(ctx context.Context, client llm.Client, model, systemPrompt, userMessage string) (float64, error) {
	resp, err := client.ChatCompletion(ctx, llm.ChatRequest{
		Model:         model,
		SystemMessage: systemPrompt,
		UserMessage:   userMessage,
		Temperature:   llm.Float64Ptr(0),
	})
	if err != nil {
		return 0, err
	}
	return parseVerdict(resp.Content)
}

// parseVerdict extracts the binary verdict from a judge reply. Judges are
// prompted to answer with a bare "1" or "0" but occasionally decorate the
// digit with quotes or trailing punctuation, so those are stripped before
// matching.
func parseVerdict(text string) (float64, error) {
	s := strings.TrimSpace(text)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimRight(s, ".!")
	switch s {
	case "1":
		return 1.0, nil
	case "0":
		return 0.0, nil
	}
	return 0, fmt.Errorf("could not parse judge verdict from %q", text)
}
