package session

import (
	"context"
	"time"

	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/utils/clock"
)

// Session is one conversation with the root agent. State and the LLM
// history survive across turns of the same session.
type Session struct {
	ID        types.SessionID `firestore:"id" json:"id"`
	State     State           `firestore:"state" json:"state"`
	Turns     int             `firestore:"turns" json:"turns"`
	CreatedAt time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time       `firestore:"updated_at" json:"updated_at"`
}

func New(ctx context.Context) *Session {
	now := clock.Now(ctx)
	return &Session{
		ID:        types.NewSessionID(),
		State:     NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NextTurn records that a turn finished.
func (x *Session) NextTurn(ctx context.Context) {
	x.Turns++
	x.UpdatedAt = clock.Now(ctx)
}
