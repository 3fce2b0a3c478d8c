package msg

import (
	"context"
	"fmt"

	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
)

// NotifyFunc delivers a user-facing message. TraceFunc delivers progress of
// tools and sub-agents; the chat command prints both to the terminal.
type NotifyFunc func(ctx context.Context, msg string)
type TraceFunc func(ctx context.Context, msg string)

type ctxNotifyFuncKey struct{}
type ctxTraceFuncKey struct{}

func With(ctx context.Context, notify NotifyFunc, trace TraceFunc) context.Context {
	ctx = context.WithValue(ctx, ctxNotifyFuncKey{}, notify)
	ctx = context.WithValue(ctx, ctxTraceFuncKey{}, trace)
	return ctx
}

func Notify(ctx context.Context, format string, args ...any) {
	if fn, ok := ctx.Value(ctxNotifyFuncKey{}).(NotifyFunc); ok && fn != nil {
		fn(ctx, fmt.Sprintf(format, args...))
	}
}

func Trace(ctx context.Context, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if fn, ok := ctx.Value(ctxTraceFuncKey{}).(TraceFunc); ok && fn != nil {
		fn(ctx, msg)
		return
	}
	logging.From(ctx).Debug("trace", "message", msg)
}
