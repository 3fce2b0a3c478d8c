package session

import (
	"maps"
	"slices"
)

// AnalyticsAgentOutputKey holds the most recent analytics sub-agent result.
const AnalyticsAgentOutputKey = "analytics_agent_output"

// State is the conversation state of a session: string keys to arbitrary
// values. It is written by at most one tool per turn.
type State map[string]any

func NewState() State {
	return State{}
}

func (x State) Set(key string, value any) {
	x[key] = value
}

func (x State) Get(key string) (any, bool) {
	v, ok := x[key]
	return v, ok
}

// Keys returns keys in lexical order.
func (x State) Keys() []string {
	return slices.Sorted(maps.Keys(x))
}

// Snapshot returns a shallow copy detached from the live state.
func (x State) Snapshot() State {
	return maps.Clone(x)
}
