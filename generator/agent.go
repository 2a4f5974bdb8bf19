package generator

import (
	"context"
	"errors"
	"fmt"
)

// Agent 负责根据故事生成评审问题。
type Agent struct {
	llm         LLMClient
	strategy    Strategy
	maxTokens   int
	temperature float64
}

// Option customizes an Agent.
type Option func(*Agent)

func WithStrategy(s Strategy) Option {
	return func(a *Agent) {
		if s != "" {
			a.strategy = s
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(a *Agent) { a.maxTokens = n }
}

func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = t }
}

func NewAgent(llm LLMClient, opts ...Option) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	a := &Agent{llm: llm, strategy: StrategyStructured}
	for _, opt := range opts {
		opt(a)
	}
	switch a.strategy {
	case StrategyStructured, StrategyReformat:
	default:
		return nil, fmt.Errorf("unknown strategy %q", a.strategy)
	}
	return a, nil
}

// Generate returns the critique questions for story. The story is embedded in
// the prompt verbatim.
func (a *Agent) Generate(ctx context.Context, story string) (QuestionList, error) {
	if a.strategy == StrategyReformat {
		return a.generateReformat(ctx, story)
	}
	return a.generateStructured(ctx, story)
}

func (a *Agent) generateStructured(ctx context.Context, story string) (QuestionList, error) {
	req := a.prepare(BuildCritiquePrompt(story))
	req.Schema = questionSchema

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := validateResponse(questionSchema, resp.Content); err != nil {
		return nil, err
	}
	return ParseStructured(resp.Content)
}

// generateReformat 两次调用：先要自由文本，再让模型自己转成 JSON。
func (a *Agent) generateReformat(ctx context.Context, story string) (QuestionList, error) {
	first, err := a.llm.Complete(ctx, a.prepare(BuildCritiquePrompt(story)))
	if err != nil {
		return nil, err
	}
	second, err := a.llm.Complete(ctx, a.prepare(BuildReformatPrompt(first.Content)))
	if err != nil {
		return nil, err
	}
	return ExtractQuoted(second.Content)
}

func (a *Agent) prepare(req Request) Request {
	req.MaxTokens = a.maxTokens
	req.Temperature = a.temperature
	return req
}
