package generator

import "context"

// LLMClient 抽象大模型客户端，便于替换/Mock。
type LLMClient interface {
	// Complete sends one prompt. When req.Schema is set the provider uses its
	// native structured output and Content holds the JSON body; otherwise
	// Content is the raw text reply.
	Complete(ctx context.Context, req Request) (*Completion, error)

	// ModelID returns the model the client is configured for.
	ModelID() string
}

// Request is one prompt sent to a provider.
type Request struct {
	System      string
	User        string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema declares the JSON shape a structured response must follow.
type Schema struct {
	// Name identifies the schema (OpenAI schema name, validator cache key).
	Name        string
	Description string
	Definition  map[string]any
}

// Completion is the provider's reply.
type Completion struct {
	Content    string
	Model      string
	Usage      Usage
	StopReason string
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// LLMSettings 提供给具体实现的基础配置。
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// resolveModel falls back to def when no model is configured.
func resolveModel(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
