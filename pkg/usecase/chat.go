package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/trace"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/session"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/service/llm"
	"github.com/secmon-lab/analytics-agent/pkg/tool/artifact"
	"github.com/secmon-lab/analytics-agent/pkg/tool/delegate"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
	"github.com/secmon-lab/analytics-agent/pkg/utils/request_id"
)

// ChatResult is the outcome of one turn.
type ChatResult struct {
	SessionID types.SessionID
	Response  string
	State     session.State
}

func (x *UseCases) validate() error {
	switch {
	case x.llmClient == nil:
		return goerr.New("LLM client is not configured", goerr.T(errs.TagValidation))
	case x.repository == nil:
		return goerr.New("session repository is not configured", goerr.T(errs.TagValidation))
	case x.storage == nil:
		return goerr.New("storage is not configured", goerr.T(errs.TagValidation))
	case x.subAgent == nil:
		return goerr.New("analytics agent is not configured", goerr.T(errs.TagValidation))
	}
	return nil
}

// Chat runs one turn of the root agent. An empty sessionID starts a new
// session; an unknown one is created under that ID.
func (x *UseCases) Chat(ctx context.Context, sessionID types.SessionID, message string) (*ChatResult, error) {
	if err := x.validate(); err != nil {
		return nil, err
	}
	if message == "" {
		return nil, goerr.New("message is empty", goerr.T(errs.TagValidation))
	}

	ssn, err := x.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ctx, requestID := request_id.Generate(ctx)
	logger := logging.From(ctx).With("session_id", ssn.ID, "request_id", requestID)
	ctx = logging.With(ctx, logger)

	history, err := x.storage.GetHistory(ctx, ssn.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load history", goerr.TV(errs.SessionIDKey, ssn.ID.String()))
	}

	cfg := x.rootConfig
	cfg.Logger = logger
	cfg.Options = append(cfg.Options, x.agentOptions(ctx, requestID, history)...)

	agent := root.New(x.llmClient, cfg,
		delegate.New(x.subAgent, ssn.ID, ssn.State),
		artifact.New(x.storage, ssn.ID),
	)

	resp, err := agent.Execute(ctx, gollem.Text(message))
	if err != nil {
		msg.Notify(ctx, "💥 Execution failed: %s", err.Error())
		return nil, goerr.Wrap(err, "failed to execute agent",
			goerr.TV(errs.SessionIDKey, ssn.ID.String()),
			goerr.V("request_id", requestID),
		)
	}

	if err := x.saveHistory(ctx, ssn.ID, agent); err != nil {
		return nil, err
	}

	ssn.NextTurn(ctx)
	if err := x.repository.PutSession(ctx, ssn); err != nil {
		return nil, goerr.Wrap(err, "failed to save session", goerr.TV(errs.SessionIDKey, ssn.ID.String()))
	}

	result := &ChatResult{
		SessionID: ssn.ID,
		State:     ssn.State.Snapshot(),
	}
	if resp != nil && !resp.IsEmpty() {
		result.Response = resp.String()
		msg.Notify(ctx, "💬 %s", result.Response)
	}

	logger.Debug("chat turn finished", "turns", ssn.Turns, "state_keys", ssn.State.Keys())
	return result, nil
}

func (x *UseCases) loadSession(ctx context.Context, sessionID types.SessionID) (*session.Session, error) {
	if sessionID == "" {
		return session.New(ctx), nil
	}
	if err := sessionID.Validate(); err != nil {
		return nil, err
	}

	ssn, err := x.repository.GetSession(ctx, sessionID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}
	if ssn == nil {
		ssn = session.New(ctx)
		ssn.ID = sessionID
	}
	return ssn, nil
}

func (x *UseCases) agentOptions(ctx context.Context, requestID string, history *gollem.History) []gollem.Option {
	logger := logging.From(ctx)

	var opts []gollem.Option
	if history != nil {
		opts = append(opts, gollem.WithHistory(history))
	}

	if x.traceRepository != nil {
		recorder := trace.New(
			trace.WithTraceID(requestID),
			trace.WithRepository(x.traceRepository),
		)
		opts = append(opts, gollem.WithTrace(recorder))
	}

	if x.compaction {
		opts = append(opts, gollem.WithContentBlockMiddleware(llm.NewCompactionMiddleware(x.llmClient, logger)))
	}
	opts = append(opts,
		gollem.WithContentBlockMiddleware(llm.NewThoughtMiddleware()),
		gollem.WithToolMiddleware(llm.NewToolTraceMiddleware(logger)),
	)
	return opts
}

func (x *UseCases) saveHistory(ctx context.Context, sessionID types.SessionID, agent *gollem.Agent) error {
	ssn := agent.Session()
	if ssn == nil {
		return nil
	}

	history, err := ssn.History()
	if err != nil {
		return goerr.Wrap(err, "failed to get history from agent session", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}
	if history == nil || history.ToCount() <= 0 {
		logging.From(ctx).Debug("no history to save")
		return nil
	}

	if err := x.storage.PutHistory(ctx, sessionID, history); err != nil {
		return goerr.Wrap(err, "failed to save history", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}
	return nil
}
