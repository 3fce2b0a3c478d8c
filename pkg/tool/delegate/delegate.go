// Package delegate provides call_analytics_agent, the tool the root agent
// uses to hand a question to the analytics sub-agent.
package delegate

import (
	"context"
	"reflect"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/session"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
)

const (
	ToolName    = "call_analytics_agent"
	questionArg = "question"
	requestArg  = "request"
)

// Tool runs the sub-agent on behalf of one session and records its output in
// the session state.
type Tool struct {
	agent     interfaces.SubAgent
	sessionID types.SessionID
	state     session.State
}

var _ gollem.ToolSet = &Tool{}

func New(agent interfaces.SubAgent, sessionID types.SessionID, state session.State) *Tool {
	return &Tool{
		agent:     agent,
		sessionID: sessionID,
		state:     state,
	}
}

// CallAnalyticsAgent sends question as the sub-agent request and stores the
// output under session.AnalyticsAgentOutputKey. State is left unchanged when
// the sub-agent fails.
func (x *Tool) CallAnalyticsAgent(ctx context.Context, question string, state session.State) (map[string]any, error) {
	logger := logging.From(ctx)
	msg.Trace(ctx, "📨 Asking %s: %s", x.agent.Name(), question)

	output, err := x.agent.ToolSet(x.sessionID).Run(ctx, x.agent.Name(), map[string]any{requestArg: question})
	if err != nil {
		return nil, goerr.Wrap(err, "analytics agent failed",
			goerr.TV(errs.SessionIDKey, x.sessionID.String()),
			goerr.V("agent", x.agent.Name()),
		)
	}

	state.Set(session.AnalyticsAgentOutputKey, output)

	logger.Debug("analytics agent output", "output", output)
	for _, key := range state.Keys() {
		v, _ := state.Get(key)
		logger.Debug("session state", "key", key, "value", v)
	}

	return output, nil
}

func (x *Tool) Specs(ctx context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{
		{
			Name:        ToolName,
			Description: "Delegates a data analysis or plotting question to the analytics agent, which runs Python in a stateful sandbox. Include any data given by the user in the question.",
			Parameters: map[string]*gollem.Parameter{
				questionArg: {
					Type:        gollem.TypeString,
					Description: "The self-contained question for the analytics agent",
					Required:    true,
				},
			},
		},
	}, nil
}

func (x *Tool) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if name != ToolName {
		return nil, goerr.New("invalid function name", goerr.V("name", name))
	}

	question, err := getArg[string](args, questionArg)
	if err != nil {
		return nil, err
	}
	if question == "" {
		return nil, goerr.New("question is required", goerr.T(errs.TagValidation))
	}

	return x.CallAnalyticsAgent(ctx, question, x.state)
}

func getArg[T any](args map[string]any, key string) (T, error) {
	var null T
	val, ok := args[key]
	if !ok {
		return null, nil
	}

	typedVal, ok := val.(T)
	if !ok {
		return null, goerr.New("invalid parameter type",
			goerr.T(errs.TagValidation),
			goerr.V("key", key),
			goerr.V("expected_type", reflect.TypeOf(null).String()),
			goerr.V("actual_type", reflect.TypeOf(val).String()),
			goerr.V("value", val))
	}

	return typedVal, nil
}
