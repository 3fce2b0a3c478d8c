package trace

import (
	"context"
	"encoding/json"
	"log/slog"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/trace"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

// Repository stores agent execution traces as JSON objects next to the
// session data.
type Repository struct {
	storage interfaces.StorageClient
	prefix  string
}

var _ trace.Repository = &Repository{}

func New(storage interfaces.StorageClient, prefix string) *Repository {
	return &Repository{storage: storage, prefix: prefix}
}

// ObjectPath is where the trace with traceID is written.
func (r *Repository) ObjectPath(traceID string) string {
	return path.Join(r.prefix, "v1", "trace", traceID+".json")
}

func (r *Repository) Save(ctx context.Context, t *trace.Trace) error {
	objectPath := r.ObjectPath(t.TraceID)

	w := r.storage.PutObject(ctx, objectPath)
	if err := json.NewEncoder(w).Encode(t); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to encode trace",
			goerr.TV(errs.ObjectKey, objectPath),
			goerr.V("trace_id", t.TraceID),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to write trace",
			goerr.TV(errs.ObjectKey, objectPath),
			goerr.T(errs.TagExternal),
		)
	}

	return nil
}

// safeRepository never fails Save: a trace that cannot be stored must not
// fail the turn that produced it.
type safeRepository struct {
	inner  trace.Repository
	logger *slog.Logger
}

var _ trace.Repository = &safeRepository{}

func NewSafe(repo trace.Repository, logger *slog.Logger) trace.Repository {
	return &safeRepository{inner: repo, logger: logger}
}

func (r *safeRepository) Save(ctx context.Context, t *trace.Trace) error {
	if err := r.inner.Save(ctx, t); err != nil {
		r.logger.WarnContext(ctx, "failed to save trace", "error", err, "trace_id", t.TraceID)
	}
	return nil
}
