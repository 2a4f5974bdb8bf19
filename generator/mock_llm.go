package generator

import (
	"context"
	"encoding/json"
	"sync"
)

// mockQuestions 本地调试用的固定问题，不调用外部模型。
var mockQuestions = []string{
	"What does the protagonist want, and what stands in the way?",
	"Why should the reader care about the outcome?",
	"Is the ending earned by the events that precede it?",
}

// MockResponse is one canned reply for MockLLM.
type MockResponse struct {
	Content string
	Err     error
}

// MockLLM returns canned replies in FIFO order and records every request.
// Once the queue is drained it answers with mockQuestions as JSON.
type MockLLM struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []Request
}

func NewMockLLM(responses ...MockResponse) *MockLLM {
	return &MockLLM{responses: responses}
}

func (m *MockLLM) Complete(_ context.Context, req Request) (*Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.responses) == 0 {
		body, err := json.Marshal(critiqueResponse{QuestionsAsked: mockQuestions})
		if err != nil {
			return nil, err
		}
		return &Completion{Content: string(body), Model: "mock", StopReason: "end"}, nil
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Completion{Content: resp.Content, Model: "mock", StopReason: "end"}, nil
}

func (m *MockLLM) ModelID() string {
	return "mock"
}

// CallCount returns the number of Complete calls made.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
