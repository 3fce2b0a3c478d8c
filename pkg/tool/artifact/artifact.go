// Package artifact provides load_artifacts, which lets the root agent list
// and read files produced by the analytics agent.
package artifact

import (
	"context"
	"encoding/base64"
	"mime"
	"path"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

const (
	ToolName = "load_artifacts"
	namesArg = "artifact_names"
)

// Store reads artifacts of a session.
type Store interface {
	ListArtifacts(ctx context.Context, sessionID types.SessionID) ([]types.ArtifactName, error)
	GetArtifact(ctx context.Context, sessionID types.SessionID, name types.ArtifactName) ([]byte, error)
}

type Tool struct {
	store     Store
	sessionID types.SessionID
}

var _ gollem.ToolSet = &Tool{}

func New(store Store, sessionID types.SessionID) *Tool {
	return &Tool{store: store, sessionID: sessionID}
}

func (x *Tool) Specs(ctx context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{
		{
			Name:        ToolName,
			Description: "Lists artifacts (plots and other files) of this conversation. When artifact_names is given, returns the named artifacts with base64 content.",
			Parameters: map[string]*gollem.Parameter{
				namesArg: {
					Type:        gollem.TypeArray,
					Description: "Names of artifacts to load. Omit to list available artifacts.",
					Items:       &gollem.Parameter{Type: gollem.TypeString},
				},
			},
		},
	}, nil
}

func (x *Tool) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if name != ToolName {
		return nil, goerr.New("invalid function name", goerr.V("name", name))
	}

	names, err := stringList(args[namesArg])
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return x.list(ctx)
	}
	return x.load(ctx, names)
}

func (x *Tool) list(ctx context.Context) (map[string]any, error) {
	names, err := x.store.ListArtifacts(ctx, x.sessionID)
	if err != nil {
		return nil, err
	}

	result := make([]any, 0, len(names))
	for _, n := range names {
		result = append(result, n.String())
	}
	return map[string]any{"artifact_names": result}, nil
}

func (x *Tool) load(ctx context.Context, names []string) (map[string]any, error) {
	for _, n := range names {
		if err := types.ArtifactName(n).Validate(); err != nil {
			return nil, goerr.Wrap(err, "artifact_names must be plain names returned by listing")
		}
	}

	artifacts := make([]any, 0, len(names))
	for _, n := range names {
		data, err := x.store.GetArtifact(ctx, x.sessionID, types.ArtifactName(n))
		if err != nil {
			if goerr.HasTag(err, errs.TagNotFound) {
				artifacts = append(artifacts, map[string]any{
					"name":  n,
					"error": "artifact not found",
				})
				continue
			}
			return nil, err
		}

		artifacts = append(artifacts, map[string]any{
			"name":           n,
			"mime_type":      mimeType(n),
			"size":           len(data),
			"content_base64": base64.StdEncoding.EncodeToString(data),
		})
	}
	return map[string]any{"artifacts": artifacts}, nil
}

func mimeType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func stringList(v any) ([]string, error) {
	switch vv := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, goerr.New("artifact_names must be a list of strings",
					goerr.T(errs.TagValidation), goerr.V("item", item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, goerr.New("artifact_names must be a list of strings",
			goerr.T(errs.TagValidation), goerr.V("value", v))
	}
}
