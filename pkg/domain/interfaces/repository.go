package interfaces

import (
	"context"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/session"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

// SessionRepository persists conversation sessions between turns.
// GetSession returns (nil, nil) when the session does not exist.
type SessionRepository interface {
	GetSession(ctx context.Context, id types.SessionID) (*session.Session, error)
	PutSession(ctx context.Context, ssn *session.Session) error
}
