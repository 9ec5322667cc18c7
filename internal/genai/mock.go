package genai

import (
	"context"

	"github.com/openai/openai-go"
)

// MockClient is a test double for ClientInterface. The zero value echoes the
// user prompt back.
type MockClient struct {
	Response string
	Err      error
	Calls    int
}

var _ ClientInterface = (*MockClient)(nil)

func (m *MockClient) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	if m.Response != "" {
		return m.Response, nil
	}
	return userPrompt, nil
}

func (m *MockClient) GenerateWithMessages(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
