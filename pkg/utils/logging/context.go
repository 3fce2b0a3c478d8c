package logging

import (
	"context"
	"log/slog"
)

type ctxLoggerKey struct{}

// With binds logger to ctx. From returns it, falling back to Default.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
