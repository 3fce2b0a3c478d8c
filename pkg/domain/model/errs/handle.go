package errs

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
)

// Handle logs err and reports it to Sentry. Sentry is a no-op unless it was
// initialized by the CLI.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[CRITICAL] logger crashed during error handling: original_error=%s, panic=%v\n",
				err.Error(), r)
		}
	}()

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		values := goerr.Values(err)
		if sessionID, ok := values["session_id"].(string); ok && sessionID != "" {
			scope.SetTag("session_id", sessionID)
		}
		for k, v := range values {
			scope.SetExtra(k, v)
		}
	})
	evID := hub.CaptureException(err)

	logging.From(ctx).Error(err.Error(),
		slog.Any("error", err),
		slog.Any("sentry.id", evID),
	)
}
