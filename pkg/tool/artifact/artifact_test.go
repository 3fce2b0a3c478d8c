package artifact_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	model "github.com/secmon-lab/analytics-agent/pkg/domain/model/artifact"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	storagesvc "github.com/secmon-lab/analytics-agent/pkg/service/storage"
	"github.com/secmon-lab/analytics-agent/pkg/tool/artifact"
)

func setup(t *testing.T) (*artifact.Tool, types.SessionID) {
	store := storagesvc.New(storage.NewMemoryClient())
	sessionID := types.NewSessionID()
	putPNG(t, store, sessionID, []byte("png"))
	return artifact.New(store, sessionID), sessionID
}

func putPNG(t *testing.T, store *storagesvc.Service, sessionID types.SessionID, data []byte) {
	t.Helper()
	gt.NoError(t, store.PutArtifact(context.Background(), &model.Artifact{
		Name:      model.NewName(1, 0, "image/png"),
		SessionID: sessionID,
		MIMEType:  "image/png",
		Size:      len(data),
		CreatedAt: time.Now(),
		Data:      data,
	})).Required()
}

func TestLoadArtifactsList(t *testing.T) {
	tool, _ := setup(t)
	out := gt.R1(tool.Run(context.Background(), artifact.ToolName, map[string]any{})).NoError(t)
	gt.A(t, out["artifact_names"].([]any)).Equal([]any{"turn001_output00.png"})
}

func TestLoadArtifactsByName(t *testing.T) {
	tool, _ := setup(t)
	out := gt.R1(tool.Run(context.Background(), artifact.ToolName, map[string]any{
		"artifact_names": []any{"turn001_output00.png", "missing.png"},
	})).NoError(t)

	items := out["artifacts"].([]any)
	gt.A(t, items).Length(2)

	first := items[0].(map[string]any)
	gt.Equal(t, first["mime_type"], any("image/png"))
	gt.Equal(t, first["size"], any(3))
	gt.Equal(t, first["content_base64"], any(base64.StdEncoding.EncodeToString([]byte("png"))))

	second := items[1].(map[string]any)
	gt.Equal(t, second["error"], any("artifact not found"))
}

func TestLoadArtifactsInvalidArgs(t *testing.T) {
	tool, _ := setup(t)
	_, err := tool.Run(context.Background(), artifact.ToolName, map[string]any{
		"artifact_names": "turn001_output00.png",
	})
	gt.True(t, goerr.HasTag(err, errs.TagValidation))

	_, err = tool.Run(context.Background(), "other", nil)
	gt.Error(t, err)
}

func TestLoadArtifactsStaysInSession(t *testing.T) {
	ctx := context.Background()
	store := storagesvc.New(storage.NewMemoryClient())
	owner := types.NewSessionID()
	putPNG(t, store, owner, []byte("SECRET"))

	other := artifact.New(store, types.NewSessionID())
	for _, name := range []string{
		"../../" + owner.String() + "/artifacts/turn001_output00.png",
		"../history.json",
		"sub/turn001_output00.png",
	} {
		out, err := other.Run(ctx, artifact.ToolName, map[string]any{
			"artifact_names": []any{name},
		})
		gt.True(t, goerr.HasTag(err, errs.TagValidation))
		gt.Nil(t, out)
	}

	// The owner still reads its own artifact.
	own := artifact.New(store, owner)
	out := gt.R1(own.Run(ctx, artifact.ToolName, map[string]any{
		"artifact_names": []any{"turn001_output00.png"},
	})).NoError(t)
	item := out["artifacts"].([]any)[0].(map[string]any)
	gt.Equal(t, item["content_base64"], any(base64.StdEncoding.EncodeToString([]byte("SECRET"))))
}
