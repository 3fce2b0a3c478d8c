package llm

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/middleware/compacter"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
)

// NewCompactionMiddleware compresses the oldest 70% of the conversation
// history when it grows past the model context window.
func NewCompactionMiddleware(llmClient gollem.LLMClient, logger *slog.Logger) gollem.ContentBlockMiddleware {
	return compacter.NewContentBlockMiddleware(
		llmClient,
		compacter.WithCompactRatio(0.7),
		compacter.WithMaxRetries(3),
		compacter.WithLogger(logger),
		compacter.WithCompactionHook(func(ctx context.Context, event *compacter.CompactionEvent) {
			logger.Info("conversation history compacted",
				"original_size", event.OriginalDataSize,
				"compacted_size", event.CompactedDataSize,
				"input_tokens", event.InputTokens,
				"output_tokens", event.OutputTokens,
				"compression_ratio", float64(event.CompactedDataSize)/float64(event.OriginalDataSize))
		}),
	)
}

// NewThoughtMiddleware traces intermediate model texts.
func NewThoughtMiddleware() gollem.ContentBlockMiddleware {
	return func(next gollem.ContentBlockHandler) gollem.ContentBlockHandler {
		return func(ctx context.Context, req *gollem.ContentRequest) (*gollem.ContentResponse, error) {
			resp, err := next(ctx, req)
			if err == nil && resp != nil {
				for _, text := range resp.Texts {
					msg.Trace(ctx, "💭 %s", text)
				}
			}
			return resp, err
		}
	}
}

// NewToolTraceMiddleware traces every tool call and logs tool errors. A
// failing tool is reported back to the model, not to the caller.
func NewToolTraceMiddleware(logger *slog.Logger) gollem.ToolMiddleware {
	return func(next gollem.ToolHandler) gollem.ToolHandler {
		return func(ctx context.Context, req *gollem.ToolExecRequest) (*gollem.ToolExecResponse, error) {
			msg.Trace(ctx, "🤖 %s", req.Tool.Name)
			logger.Debug("execute tool", "tool", req.Tool.Name, "args", req.Tool.Arguments)

			resp, err := next(ctx, req)
			if resp != nil && resp.Error != nil {
				msg.Trace(ctx, "❌ Error: %s", resp.Error.Error())
				logger.Error("tool error", "error", resp.Error, "call", req.Tool)
			}
			return resp, err
		}
	}
}
