// Package testutil provides shared test helpers.
package testutil

import (
	"context"

	"github.com/promptbench/promptbench/internal/llm"
)

var _ llm.Client = (*MockLLMClient)(nil)

// MockLLMClient is a canned-response llm.Client for exercising the judge
// scoring methods without a live API.
type MockLLMClient struct {
	// Responses maps user messages to canned responses; DefaultResponse is
	// used when no entry matches.
	Responses       map[string]string
	DefaultResponse string

	// Err, when set, fails every ChatCompletion call.
	Err error

	// Calls counts ChatCompletion invocations; LastRequest keeps the most
	// recent request for assertions on prompt contents.
	Calls       int
	LastRequest llm.ChatRequest
}

func (m *MockLLMClient) ChatCompletion(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.Calls++
	m.LastRequest = req

	if m.Err != nil {
		return nil, m.Err
	}
	if resp, ok := m.Responses[req.UserMessage]; ok {
		return &llm.ChatResponse{Content: resp}, nil
	}
	if m.DefaultResponse != "" {
		return &llm.ChatResponse{Content: m.DefaultResponse}, nil
	}
	return &llm.ChatResponse{Content: "mock response"}, nil
}
