package generator

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     2 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetryRecoversFromUnavailable(t *testing.T) {
	mock := NewMockLLM(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
		MockResponse{Content: `{"questions_asked":["Why?"]}`},
	)
	c := WithRetry(mock, fastRetry(3))

	resp, err := c.Complete(context.Background(), Request{User: "story"})
	require.NoError(t, err)
	assert.Equal(t, `{"questions_asked":["Why?"]}`, resp.Content)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetryGivesUp(t *testing.T) {
	mock := NewMockLLM(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}},
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503 again")}},
	)
	c := WithRetry(mock, fastRetry(2))

	_, err := c.Complete(context.Background(), Request{})
	assert.EqualError(t, err, "llm provider unavailable: 503 again")
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetrySkipsInvalidResponse(t *testing.T) {
	mock := NewMockLLM(MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad json")}})
	c := WithRetry(mock, fastRetry(3))

	_, err := c.Complete(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryDisabledReturnsInner(t *testing.T) {
	mock := NewMockLLM()
	assert.Same(t, LLMClient(mock), WithRetry(mock, DefaultRetryConfig()))
}

func TestLoggingPassesThrough(t *testing.T) {
	mock := NewMockLLM(MockResponse{Content: "ok"}, MockResponse{Err: ErrEmptyResult})
	c := WithLogging(mock, nil)

	resp, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)

	_, err = c.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Equal(t, "mock", c.ModelID())
}

func TestBuildGeminiSchema(t *testing.T) {
	schema := buildGeminiSchema(questionSchema.Definition)

	assert.Equal(t, genai.TypeObject, schema.Type)
	require.Contains(t, schema.Properties, "questions_asked")
	list := schema.Properties["questions_asked"]
	assert.Equal(t, genai.TypeArray, list.Type)
	require.NotNil(t, list.Items)
	assert.Equal(t, genai.TypeString, list.Items.Type)
	assert.Equal(t, []string{"questions_asked"}, schema.Required)
}

func TestClassifyStatus(t *testing.T) {
	base := errors.New("upstream")

	var rl *ErrRateLimit
	assert.ErrorAs(t, classifyStatus(429, nil, base), &rl)
	assert.Zero(t, rl.RetryAfter)

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, classifyStatus(401, nil, base), &unavail)
	assert.ErrorIs(t, classifyStatus(500, nil, base), base)
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, parseRetryAfter(nil))
	assert.Zero(t, parseRetryAfter(h))

	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, parseRetryAfter(h))

	h.Set("Retry-After", "-3")
	assert.Zero(t, parseRetryAfter(h))

	h.Set("Retry-After", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	d := parseRetryAfter(h)
	assert.Greater(t, d, 50*time.Minute)
	assert.LessOrEqual(t, d, time.Hour)

	h.Set("Retry-After", "soon")
	assert.Zero(t, parseRetryAfter(h))
}

func TestProviderErrorsCarryRetryAfter(t *testing.T) {
	resp := &http.Response{StatusCode: 429, Header: http.Header{"Retry-After": []string{"4"}}}

	var rl *ErrRateLimit
	require.ErrorAs(t, mapOpenAIError(&openai.Error{StatusCode: 429, Response: resp}), &rl)
	assert.Equal(t, 4*time.Second, rl.RetryAfter)

	rl = nil
	require.ErrorAs(t, mapAnthropicError(&anthropic.Error{StatusCode: 429, Response: resp}), &rl)
	assert.Equal(t, 4*time.Second, rl.RetryAfter)

	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, mapOpenAIError(&openai.Error{StatusCode: 503}), &unavail)
}

func TestBackoffHonorsRetryAfter(t *testing.T) {
	r := &retryLLM{config: fastRetry(3)}
	assert.Equal(t, 2*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 2 * time.Second}))
	assert.LessOrEqual(t, r.backoff(0, &ErrRateLimit{}), 2*time.Millisecond)
}

func TestNewLLM(t *testing.T) {
	ctx := context.Background()

	_, err := NewLLM(ctx, LLMSettings{Provider: "nope"}, DefaultRetryConfig(), nil)
	assert.EqualError(t, err, "llm provider nope not supported")

	_, err = NewLLM(ctx, LLMSettings{Provider: "deepseek", APIKey: "k"}, DefaultRetryConfig(), nil)
	assert.Error(t, err)

	_, err = NewLLM(ctx, LLMSettings{Provider: "openai"}, DefaultRetryConfig(), nil)
	assert.Error(t, err)

	c, err := NewLLM(ctx, LLMSettings{Provider: "ollama"}, DefaultRetryConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "llama3:8b-instruct-q4_0", c.ModelID())

	c, err = NewLLM(ctx, LLMSettings{Provider: "openai", APIKey: "k", Model: "gpt-4o"}, fastRetry(2), nil)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.ModelID())

	c, err = NewLLM(ctx, LLMSettings{Provider: "mock"}, DefaultRetryConfig(), nil)
	require.NoError(t, err)
	agent, err := NewAgent(c)
	require.NoError(t, err)
	questions, err := agent.Generate(ctx, "story")
	require.NoError(t, err)
	assert.Equal(t, QuestionList(mockQuestions), questions)
}
