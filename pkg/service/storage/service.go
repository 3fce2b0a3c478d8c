// Package storage persists conversation history and sandbox artifacts of a
// session in object storage.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/artifact"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/safe"
)

const StorageSchemaVersion = "v1"

type Service struct {
	prefix        string
	storageClient interfaces.StorageClient
}

func New(storageClient interfaces.StorageClient, opts ...Option) *Service {
	s := &Service{storageClient: storageClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

func WithPrefix(prefix string) Option {
	return func(s *Service) {
		s.prefix = prefix
	}
}

// Client exposes the underlying storage, e.g. for trace recording.
func (s *Service) Client() interfaces.StorageClient {
	return s.storageClient
}

func (s *Service) Prefix() string {
	return s.prefix
}

func pathToHistory(prefix string, sessionID types.SessionID) string {
	return path.Join(prefix, StorageSchemaVersion, "session", sessionID.String(), "history.json")
}

func (s *Service) PutHistory(ctx context.Context, sessionID types.SessionID, history *gollem.History) error {
	objectPath := pathToHistory(s.prefix, sessionID)

	raw, err := json.Marshal(history)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal history", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}

	w := s.storageClient.PutObject(ctx, objectPath)
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write history",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close history",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}

	logging.From(ctx).Debug("saved history", "session_id", sessionID, "path", objectPath, "size", humanize.Bytes(uint64(len(raw))))
	return nil
}

// GetHistory returns nil without error when the session has no history yet.
func (s *Service) GetHistory(ctx context.Context, sessionID types.SessionID) (*gollem.History, error) {
	objectPath := pathToHistory(s.prefix, sessionID)

	r, err := s.storageClient.GetObject(ctx, objectPath)
	if err != nil {
		if goerr.HasTag(err, errs.TagNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get history",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}
	defer safe.Close(ctx, r)

	var history gollem.History
	if err := json.NewDecoder(r).Decode(&history); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal history",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}

	return &history, nil
}

func (s *Service) PutArtifact(ctx context.Context, a *artifact.Artifact) error {
	objectPath, err := artifact.ObjectPath(s.prefix, a.SessionID, a.Name)
	if err != nil {
		return goerr.Wrap(err, "failed to save artifact", goerr.TV(errs.SessionIDKey, a.SessionID.String()))
	}

	w := s.storageClient.PutObject(ctx, objectPath)
	if _, err := w.Write(a.Data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write artifact",
			goerr.TV(errs.SessionIDKey, a.SessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close artifact",
			goerr.TV(errs.SessionIDKey, a.SessionID.String()),
			goerr.TV(errs.ObjectKey, objectPath),
		)
	}

	logging.From(ctx).Debug("saved artifact", "name", a.Name, "mime_type", a.MIMEType, "size", humanize.Bytes(uint64(len(a.Data))))
	return nil
}

func (s *Service) GetArtifact(ctx context.Context, sessionID types.SessionID, name types.ArtifactName) ([]byte, error) {
	objectPath, err := artifact.ObjectPath(s.prefix, sessionID, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get artifact", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}

	r, err := s.storageClient.GetObject(ctx, objectPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get artifact",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.V("artifact", name),
		)
	}
	defer safe.Close(ctx, r)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.V("artifact", name),
		)
	}
	return data, nil
}

// ListArtifacts returns artifact names of the session in lexical order.
func (s *Service) ListArtifacts(ctx context.Context, sessionID types.SessionID) ([]types.ArtifactName, error) {
	prefix := artifact.ObjectPrefix(s.prefix, sessionID)

	objects, err := s.storageClient.ListObjects(ctx, prefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list artifacts", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}

	names := make([]types.ArtifactName, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		names = append(names, types.ArtifactName(name))
	}
	return names, nil
}

func (s *Service) String() string {
	return fmt.Sprintf("storage(prefix=%q)", s.prefix)
}
