package generator

import (
	"context"
	"encoding/json"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAILLM implements LLMClient using the official openai-go SDK (chat completions).
type OpenAILLM struct {
	Model string
	Opts  []option.RequestOption
	// JSONObjectOnly is set for OpenAI-compatible backends (DeepSeek) that
	// accept json_object but not json_schema response formats.
	JSONObjectOnly bool
}

func NewOpenAILLMFromConfig(cfg *LLMSettings) (*OpenAILLM, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key missing; provide llm.api_key or llm.api_key_env")
	}
	if cfg.Model == "" {
		return nil, errors.New("llm model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAILLM{Model: cfg.Model, Opts: opts}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, req Request) (*Completion, error) {
	client := openai.NewClient(o.Opts...)

	system := req.System
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	if req.Schema != nil {
		if o.JSONObjectOnly {
			// json_object mode only guarantees valid JSON, so the shape goes in the prompt.
			def, err := json.Marshal(req.Schema.Definition)
			if err != nil {
				return nil, err
			}
			system += "\nRespond with a JSON object matching this JSON schema:\n" + string(def)
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
			}
		} else {
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
					JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:        req.Schema.Name,
						Description: openai.String(req.Schema.Description),
						Schema:      req.Schema.Definition,
						Strict:      openai.Bool(true),
					},
				},
			}
		}
	}

	params.Messages = []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(req.User),
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("openai: empty choices")}
	}
	choice := resp.Choices[0]
	return &Completion{
		Content: choice.Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		StopReason: choice.FinishReason,
	}, nil
}

func (o *OpenAILLM) ModelID() string {
	return o.Model
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.StatusCode, responseHeader(apiErr.Response), err)
	}
	return &ErrProviderUnavailable{Err: err}
}
