package llm

import (
	"context"
	"fmt"
)

// MockClient is a test double for Client. Each field, when set, overrides the
// default canned behavior.
type MockClient struct {
	GenerateFunc     func(ctx context.Context, prompt string) (string, error)
	GenerateJSONFunc func(ctx context.Context, prompt string, out any) error
	ClassifyFunc     func(ctx context.Context, instruction, utterance string, labels []string) (string, error)

	// Prompts records every prompt seen, for assertions.
	Prompts []string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return "mock response", nil
}

func (m *MockClient) GenerateJSON(ctx context.Context, prompt string, out any) error {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, out)
	}
	return fmt.Errorf("mock: no GenerateJSONFunc configured")
}

func (m *MockClient) Classify(ctx context.Context, instruction, utterance string, labels []string) (string, error) {
	m.Prompts = append(m.Prompts, utterance)
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, instruction, utterance, labels)
	}
	if len(labels) > 0 {
		return labels[0], nil
	}
	return "", fmt.Errorf("mock: no labels")
}
