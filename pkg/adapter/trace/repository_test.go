package trace_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	gollemtrace "github.com/m-mizutani/gollem/trace"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/trace"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
)

func newTrace(id string) *gollemtrace.Trace {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &gollemtrace.Trace{
		TraceID: id,
		RootSpan: &gollemtrace.Span{
			SpanID:    "span-1",
			Kind:      gollemtrace.SpanKindAgentExecute,
			Name:      "DA_Agent",
			StartedAt: now,
			EndedAt:   now.Add(time.Second),
			Duration:  time.Second,
			Status:    gollemtrace.SpanStatusOK,
		},
		StartedAt: now,
		EndedAt:   now.Add(time.Second),
	}
}

func TestRepositorySave(t *testing.T) {
	ctx := context.Background()
	client := storage.NewMemoryClient()
	repo := trace.New(client, "analytics")

	gt.NoError(t, repo.Save(ctx, newTrace("trace-1"))).Required()
	gt.Equal(t, repo.ObjectPath("trace-1"), "analytics/v1/trace/trace-1.json")

	rc, err := client.GetObject(ctx, repo.ObjectPath("trace-1"))
	gt.NoError(t, err).Required()
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(rc)
	gt.NoError(t, err)

	var got gollemtrace.Trace
	gt.NoError(t, json.Unmarshal(raw, &got))
	gt.Equal(t, got.TraceID, "trace-1")
	gt.Equal(t, got.RootSpan.Name, "DA_Agent")
}

type failingRepository struct{}

func (failingRepository) Save(context.Context, *gollemtrace.Trace) error {
	return errors.New("bucket unavailable")
}

func TestSafeRepository(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo, logging.FormatJSON, false)

	repo := trace.NewSafe(failingRepository{}, logger)
	gt.NoError(t, repo.Save(context.Background(), newTrace("trace-2")))
	gt.S(t, buf.String()).Contains("failed to save trace").Contains("trace-2")
}
