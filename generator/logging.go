package generator

import (
	"context"
	"log/slog"
	"time"
)

type loggingLLM struct {
	inner  LLMClient
	logger *slog.Logger
}

// WithLogging logs one line per provider call.
func WithLogging(c LLMClient, logger *slog.Logger) LLMClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingLLM{inner: c, logger: logger}
}

func (l *loggingLLM) Complete(ctx context.Context, req Request) (*Completion, error) {
	start := time.Now()
	resp, err := l.inner.Complete(ctx, req)

	attrs := []any{
		slog.String("model", l.inner.ModelID()),
		slog.Bool("structured", req.Schema != nil),
		slog.Duration("latency", time.Since(start)),
	}
	if err != nil {
		l.logger.WarnContext(ctx, "[LLM] request failed", append(attrs, slog.Any("error", err))...)
		return nil, err
	}
	l.logger.DebugContext(ctx, "[LLM] request done", append(attrs,
		slog.Int("input_tokens", resp.Usage.InputTokens),
		slog.Int("output_tokens", resp.Usage.OutputTokens),
		slog.String("stop_reason", resp.StopReason),
	)...)
	return resp, nil
}

func (l *loggingLLM) ModelID() string {
	return l.inner.ModelID()
}
