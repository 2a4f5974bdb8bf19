package generator

import (
	"context"
	"fmt"
	"log/slog"
)

// defaultModels 各 provider 未配置 model 时的默认值。
var defaultModels = map[string]string{
	"gemini":    "gemini-2.0-flash",
	"openai":    "gpt-4o-mini",
	"deepseek":  "deepseek-chat",
	"anthropic": "claude-haiku-4-5-20251001",
	"ollama":    "llama3:8b-instruct-q4_0",
}

// NewLLM builds the client for cfg.Provider wrapped as
// caller -> retry -> logging -> provider.
func NewLLM(ctx context.Context, cfg LLMSettings, retry RetryConfig, logger *slog.Logger) (LLMClient, error) {
	cfg.Model = resolveModel(cfg.Model, defaultModels[cfg.Provider])

	var base LLMClient
	var err error
	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiLLM(ctx, &cfg)
	case "openai":
		base, err = NewOpenAILLMFromConfig(&cfg)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url（例如官方/网关地址）。
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		var o *OpenAILLM
		o, err = NewOpenAILLMFromConfig(&cfg)
		if err == nil {
			o.JSONObjectOnly = true
			base = o
		}
	case "anthropic":
		base, err = NewAnthropicLLM(&cfg)
	case "ollama":
		base, err = NewOllamaLLM(&cfg)
	case "mock":
		base = NewMockLLM()
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, logger), retry), nil
}
