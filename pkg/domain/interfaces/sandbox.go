package interfaces

import (
	"context"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
)

// Sandbox is a hosted code-execution environment.
type Sandbox interface {
	NewSession(ctx context.Context, cfg sandbox.SessionConfig) (SandboxSession, error)
}

// SandboxSession keeps interpreter state (variables, loaded files, imports)
// between Execute calls.
type SandboxSession interface {
	Execute(ctx context.Context, request string) (*sandbox.Result, error)
}
