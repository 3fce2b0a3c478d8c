package interfaces

import (
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

// SubAgent is mounted as a tool named Name() on behalf of a session. The tool
// takes a single string argument, "request".
type SubAgent interface {
	Name() string
	ToolSet(sessionID types.SessionID) gollem.ToolSet
}
