// Package request_id tags one chat turn. The ID names the execution trace
// and appears in every log line of the turn.
package request_id

import (
	"context"

	"github.com/google/uuid"
)

type ctxRequestIDKey struct{}

func With(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey{}, requestID)
}

// FromContext returns "" when no ID was generated.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestIDKey{}).(string)
	return id
}

// Generate binds a fresh time-ordered ID to ctx.
func Generate(ctx context.Context) (context.Context, string) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return With(ctx, id.String()), id.String()
}
