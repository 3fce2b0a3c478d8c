package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

func TestSessionID(t *testing.T) {
	id := types.NewSessionID()
	gt.NoError(t, id.Validate())
	gt.NotEqual(t, id, types.NewSessionID())

	gt.Error(t, types.EmptySessionID.Validate())
	gt.Error(t, types.SessionID("not-a-uuid").Validate())
}

func TestArtifactNameValidate(t *testing.T) {
	gt.NoError(t, types.ArtifactName("turn001_output00.png").Validate())

	for _, name := range []types.ArtifactName{"", ".", "..", "../x.png", "a/b.png", `a\b.png`, "/abs.png"} {
		gt.Error(t, name.Validate())
	}
}
