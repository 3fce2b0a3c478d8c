// Package memory is an in-process SessionRepository for the local chat
// runner and tests.
package memory

import (
	"context"
	"sync"

	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/session"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

type Memory struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*session.Session

	callMu     sync.Mutex
	callCounts map[string]int
}

var _ interfaces.SessionRepository = &Memory{}

func New() *Memory {
	return &Memory{
		sessions:   make(map[types.SessionID]*session.Session),
		callCounts: make(map[string]int),
	}
}

func (r *Memory) count(name string) {
	r.callMu.Lock()
	r.callCounts[name]++
	r.callMu.Unlock()
}

// CallCount reports how many times method was called.
func (r *Memory) CallCount(method string) int {
	r.callMu.Lock()
	defer r.callMu.Unlock()
	return r.callCounts[method]
}

func clone(ssn *session.Session) *session.Session {
	copied := *ssn
	copied.State = ssn.State.Snapshot()
	if copied.State == nil {
		copied.State = session.NewState()
	}
	return &copied
}

func (r *Memory) PutSession(ctx context.Context, ssn *session.Session) error {
	r.count("PutSession")
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[ssn.ID] = clone(ssn)
	return nil
}

func (r *Memory) GetSession(ctx context.Context, id types.SessionID) (*session.Session, error) {
	r.count("GetSession")
	r.mu.RLock()
	defer r.mu.RUnlock()

	ssn, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	return clone(ssn), nil
}
