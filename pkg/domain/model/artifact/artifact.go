package artifact

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

// Artifact is a file produced by the code-execution sandbox, typically a
// rendered plot.
type Artifact struct {
	Name      types.ArtifactName `json:"name"`
	SessionID types.SessionID    `json:"session_id"`
	MIMEType  string             `json:"mime_type"`
	Size      int                `json:"size"`
	CreatedAt time.Time          `json:"created_at"`
	Data      []byte             `json:"-"`
}

var extensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/svg+xml":   ".svg",
	"text/csv":        ".csv",
	"application/pdf": ".pdf",
}

// NewName returns a stable artifact name for the n-th output of a turn.
func NewName(turn, n int, mimeType string) types.ArtifactName {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = ".bin"
	}
	return types.ArtifactName(fmt.Sprintf("turn%03d_output%02d%s", turn, n, ext))
}

// ParseTurn extracts the turn number from a name built by NewName.
func ParseTurn(name types.ArtifactName) (int, bool) {
	rest, ok := strings.CutPrefix(name.String(), "turn")
	if !ok {
		return 0, false
	}
	digits, _, ok := strings.Cut(rest, "_output")
	if !ok {
		return 0, false
	}
	turn, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return turn, true
}

// ObjectPath is where the artifact lives in object storage. Names that would
// leave the session's artifact directory are rejected.
func ObjectPath(prefix string, sessionID types.SessionID, name types.ArtifactName) (string, error) {
	if err := name.Validate(); err != nil {
		return "", err
	}
	return path.Join(prefix, "v1", "session", sessionID.String(), "artifacts", name.String()), nil
}

// ObjectPrefix lists every artifact of a session.
func ObjectPrefix(prefix string, sessionID types.SessionID) string {
	return path.Join(prefix, "v1", "session", sessionID.String(), "artifacts") + "/"
}
