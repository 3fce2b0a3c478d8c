package types

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

type SessionID string

func (x SessionID) String() string {
	return string(x)
}

func NewSessionID() SessionID {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return SessionID(id.String())
}

func (x SessionID) Validate() error {
	if x == EmptySessionID {
		return goerr.New("empty session ID")
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid session ID format", goerr.V("id", x))
	}
	return nil
}

const (
	EmptySessionID SessionID = ""
)

type ArtifactName string

func (x ArtifactName) String() string {
	return string(x)
}

// Validate accepts a single path element only. Names arrive from the model and
// are joined into object paths of one session.
func (x ArtifactName) Validate() error {
	name := string(x)
	switch {
	case name == "", name == ".", name == "..":
		return goerr.New("invalid artifact name", goerr.V("name", name), goerr.T(errs.TagValidation))
	case strings.ContainsAny(name, `/\`), name != path.Base(name):
		return goerr.New("artifact name must not contain a path", goerr.V("name", name), goerr.T(errs.TagValidation))
	}
	return nil
}
