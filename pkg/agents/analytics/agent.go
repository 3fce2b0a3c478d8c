package analytics

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/artifact"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/utils/clock"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
)

// ArtifactStore keeps files produced by the sandbox.
type ArtifactStore interface {
	PutArtifact(ctx context.Context, a *artifact.Artifact) error
	ListArtifacts(ctx context.Context, sessionID types.SessionID) ([]types.ArtifactName, error)
}

// Agent sends analysis requests to a hosted code-execution sandbox.
type Agent struct {
	cfg       Config
	sandbox   interfaces.Sandbox
	artifacts ArtifactStore

	mu       sync.Mutex
	sessions map[types.SessionID]*boundSession
}

type boundSession struct {
	mu   sync.Mutex
	ssn  interfaces.SandboxSession
	turn int
}

var _ interfaces.SubAgent = &Agent{}

type Option func(*Agent)

// WithArtifactStore saves sandbox files. Without it files are dropped after
// being reported in the output.
func WithArtifactStore(store ArtifactStore) Option {
	return func(a *Agent) {
		a.artifacts = store
	}
}

func New(cfg Config, sb interfaces.Sandbox, opts ...Option) *Agent {
	a := &Agent{
		cfg:      cfg,
		sandbox:  sb,
		sessions: make(map[types.SessionID]*boundSession),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) Name() string {
	return a.cfg.Name
}

func (a *Agent) Config() Config {
	return a.cfg
}

// session returns the sandbox session of sessionID, opening one on first
// use. A non-stateful agent opens a new session for every call. Remote calls
// run without a.mu held; when two callers race, the first stored session wins.
func (a *Agent) session(ctx context.Context, sessionID types.SessionID) (*boundSession, error) {
	if a.cfg.Stateful {
		a.mu.Lock()
		bound, ok := a.sessions[sessionID]
		a.mu.Unlock()
		if ok {
			return bound, nil
		}
	}

	ssn, err := a.sandbox.NewSession(ctx, a.cfg.SessionConfig())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sandbox session", goerr.TV(errs.SessionIDKey, sessionID.String()))
	}

	bound := &boundSession{ssn: ssn}
	if a.artifacts != nil {
		names, err := a.artifacts.ListArtifacts(ctx, sessionID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list existing artifacts", goerr.TV(errs.SessionIDKey, sessionID.String()))
		}
		for _, name := range names {
			if turn, ok := artifact.ParseTurn(name); ok && turn > bound.turn {
				bound.turn = turn
			}
		}
	}

	if !a.cfg.Stateful {
		return bound, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.sessions[sessionID]; ok {
		return existing, nil
	}
	a.sessions[sessionID] = bound
	return bound, nil
}

// Execute forwards request to the sandbox session bound to sessionID and
// stores produced files.
func (a *Agent) Execute(ctx context.Context, sessionID types.SessionID, request string) (*Output, error) {
	logger := logging.From(ctx).With("agent", a.cfg.Name, "session_id", sessionID)
	if request == "" {
		return nil, goerr.New("request is required", goerr.T(errs.TagValidation))
	}

	bound, err := a.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	bound.mu.Lock()
	defer bound.mu.Unlock()
	bound.turn++

	logger.Debug("sending request to sandbox", "turn", bound.turn, "request", request)
	msg.Trace(ctx, "📊 [%s] %s", a.cfg.Name, request)

	result, err := bound.ssn.Execute(ctx, request)
	if err != nil {
		return nil, goerr.Wrap(err, "analytics request failed",
			goerr.TV(errs.SessionIDKey, sessionID.String()),
			goerr.V("turn", bound.turn),
		)
	}
	if result.Failed() {
		logger.Warn("code execution reported a failure", "outputs", result.Outputs)
	}

	out := newOutput(result)
	for i, f := range result.Files {
		art := &artifact.Artifact{
			Name:      artifact.NewName(bound.turn, i, f.MIMEType),
			SessionID: sessionID,
			MIMEType:  f.MIMEType,
			Size:      len(f.Data),
			CreatedAt: clock.Now(ctx),
			Data:      f.Data,
		}
		if err := a.save(ctx, art); err != nil {
			return nil, err
		}
		out.Artifacts = append(out.Artifacts, art.Name)
	}

	logger.Debug("sandbox finished", "code_blocks", len(out.Code), "artifacts", out.Artifacts)
	return out, nil
}

func (a *Agent) save(ctx context.Context, art *artifact.Artifact) error {
	if a.artifacts == nil {
		logging.From(ctx).Debug("no artifact store, dropping file", "name", art.Name)
		return nil
	}
	if err := a.artifacts.PutArtifact(ctx, art); err != nil {
		return goerr.Wrap(err, "failed to save artifact",
			goerr.TV(errs.SessionIDKey, art.SessionID.String()),
			goerr.V("name", art.Name),
		)
	}
	return nil
}

// RequestArg is the only argument of the analytics tool.
const RequestArg = "request"

// Run executes args["request"], which must be a non-empty string.
func (a *Agent) Run(ctx context.Context, sessionID types.SessionID, args map[string]any) (map[string]any, error) {
	request, ok := args[RequestArg].(string)
	if !ok || request == "" {
		return nil, goerr.New("request must be a non-empty string",
			goerr.T(errs.TagValidation),
			goerr.V("args", args),
		)
	}

	out, err := a.Execute(ctx, sessionID, request)
	if err != nil {
		return nil, err
	}
	return out.ToMap(), nil
}

// ToolSet mounts the agent as a tool for sessionID. call_analytics_agent
// reaches the agent through it.
func (a *Agent) ToolSet(sessionID types.SessionID) gollem.ToolSet {
	return &toolSet{agent: a, sessionID: sessionID}
}

type toolSet struct {
	agent     *Agent
	sessionID types.SessionID
}

func (x *toolSet) Specs(ctx context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{
		{
			Name:        x.agent.Name(),
			Description: "Runs data analysis and plotting in a Python sandbox. Code that succeeded earlier in the session is re-run before new requests.",
			Parameters: map[string]*gollem.Parameter{
				RequestArg: {
					Type:        gollem.TypeString,
					Description: "Natural language description of the analysis to perform",
					Required:    true,
				},
			},
		},
	}, nil
}

func (x *toolSet) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	if name != x.agent.Name() {
		return nil, goerr.New("unknown tool", goerr.V("name", name))
	}
	return x.agent.Run(ctx, x.sessionID, args)
}
