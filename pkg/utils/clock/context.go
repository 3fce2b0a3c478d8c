package clock

import (
	"context"
	"time"
)

type ctxClockKey struct{}

type Clock func() time.Time

// Now returns the clock bound to ctx, or wall time when none is set.
func Now(ctx context.Context) time.Time {
	if clock, ok := ctx.Value(ctxClockKey{}).(Clock); ok {
		return clock()
	}
	return time.Now()
}

func Since(ctx context.Context, t time.Time) time.Duration {
	return Now(ctx).Sub(t)
}

func With(ctx context.Context, clock Clock) context.Context {
	return context.WithValue(ctx, ctxClockKey{}, clock)
}
