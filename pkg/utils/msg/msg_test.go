package msg_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
)

func TestNotify(t *testing.T) {
	var got string
	notify := func(ctx context.Context, m string) {
		got = m
	}

	ctx := msg.With(context.Background(), notify, nil)
	msg.Notify(ctx, "plot %s", "ready")

	gt.Equal(t, got, "plot ready")
}

func TestTrace(t *testing.T) {
	var traces []string
	trace := func(ctx context.Context, m string) {
		traces = append(traces, m)
	}

	ctx := msg.With(context.Background(), nil, trace)
	msg.Trace(ctx, "step %d", 1)
	msg.Trace(ctx, "step %d", 2)

	gt.A(t, traces).Length(2)
	gt.Equal(t, traces[1], "step 2")
}

func TestWithoutFuncs(t *testing.T) {
	ctx := context.Background()
	// Must not panic without registered funcs
	msg.Notify(ctx, "nothing")
	msg.Trace(ctx, "nothing")
}
