// Package mock provides function-field test doubles for domain interfaces.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

type SandboxMock struct {
	NewSessionFunc func(ctx context.Context, cfg sandbox.SessionConfig) (interfaces.SandboxSession, error)

	mu    sync.Mutex
	calls []sandbox.SessionConfig
}

var _ interfaces.Sandbox = &SandboxMock{}

func (m *SandboxMock) NewSession(ctx context.Context, cfg sandbox.SessionConfig) (interfaces.SandboxSession, error) {
	m.mu.Lock()
	m.calls = append(m.calls, cfg)
	m.mu.Unlock()
	if m.NewSessionFunc == nil {
		panic("SandboxMock.NewSessionFunc: method is nil but Sandbox.NewSession was just called")
	}
	return m.NewSessionFunc(ctx, cfg)
}

func (m *SandboxMock) NewSessionCalls() []sandbox.SessionConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sandbox.SessionConfig(nil), m.calls...)
}

type SandboxSessionMock struct {
	ExecuteFunc func(ctx context.Context, request string) (*sandbox.Result, error)

	mu    sync.Mutex
	calls []string
}

var _ interfaces.SandboxSession = &SandboxSessionMock{}

func (m *SandboxSessionMock) Execute(ctx context.Context, request string) (*sandbox.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, request)
	m.mu.Unlock()
	if m.ExecuteFunc == nil {
		panic("SandboxSessionMock.ExecuteFunc: method is nil but SandboxSession.Execute was just called")
	}
	return m.ExecuteFunc(ctx, request)
}

func (m *SandboxSessionMock) ExecuteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type SubAgentMock struct {
	NameFunc func() string
	RunFunc  func(ctx context.Context, sessionID types.SessionID, args map[string]any) (map[string]any, error)

	mu    sync.Mutex
	calls []map[string]any
}

var _ interfaces.SubAgent = &SubAgentMock{}

func (m *SubAgentMock) Name() string {
	if m.NameFunc == nil {
		return "mock_agent"
	}
	return m.NameFunc()
}

func (m *SubAgentMock) ToolSet(sessionID types.SessionID) gollem.ToolSet {
	return &subAgentToolSet{mock: m, sessionID: sessionID}
}

type subAgentToolSet struct {
	mock      *SubAgentMock
	sessionID types.SessionID
}

func (x *subAgentToolSet) Specs(ctx context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{{
		Name:       x.mock.Name(),
		Parameters: map[string]*gollem.Parameter{"request": {Type: gollem.TypeString, Required: true}},
	}}, nil
}

func (x *subAgentToolSet) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	m := x.mock
	m.mu.Lock()
	m.calls = append(m.calls, args)
	m.mu.Unlock()
	if m.RunFunc == nil {
		panic("SubAgentMock.RunFunc: method is nil but the sub-agent tool was just called")
	}
	return m.RunFunc(ctx, x.sessionID, args)
}

func (m *SubAgentMock) RunCalls() []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]map[string]any(nil), m.calls...)
}

type BucketClientMock struct {
	BucketExistsFunc        func(ctx context.Context, bucket string) (bool, error)
	CreateBucketFunc        func(ctx context.Context, projectID, bucket, location string) error
	EnableUniformAccessFunc func(ctx context.Context, bucket string) error
	UploadFunc              func(ctx context.Context, bucket, object string, r io.Reader) error

	mu     sync.Mutex
	counts map[string]int
}

var _ interfaces.BucketClient = &BucketClientMock{}

func (m *BucketClientMock) count(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name]++
}

// CallCount returns how many times the named method was invoked.
func (m *BucketClientMock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func (m *BucketClientMock) BucketExists(ctx context.Context, bucket string) (bool, error) {
	m.count("BucketExists")
	if m.BucketExistsFunc == nil {
		panic("BucketClientMock.BucketExistsFunc: method is nil but BucketClient.BucketExists was just called")
	}
	return m.BucketExistsFunc(ctx, bucket)
}

func (m *BucketClientMock) CreateBucket(ctx context.Context, projectID, bucket, location string) error {
	m.count("CreateBucket")
	if m.CreateBucketFunc == nil {
		panic("BucketClientMock.CreateBucketFunc: method is nil but BucketClient.CreateBucket was just called")
	}
	return m.CreateBucketFunc(ctx, projectID, bucket, location)
}

func (m *BucketClientMock) EnableUniformAccess(ctx context.Context, bucket string) error {
	m.count("EnableUniformAccess")
	if m.EnableUniformAccessFunc == nil {
		panic("BucketClientMock.EnableUniformAccessFunc: method is nil but BucketClient.EnableUniformAccess was just called")
	}
	return m.EnableUniformAccessFunc(ctx, bucket)
}

func (m *BucketClientMock) Upload(ctx context.Context, bucket, object string, r io.Reader) error {
	m.count("Upload")
	if m.UploadFunc == nil {
		panic("BucketClientMock.UploadFunc: method is nil but BucketClient.Upload was just called")
	}
	return m.UploadFunc(ctx, bucket, object, r)
}

type AgentEngineClientMock struct {
	CreateEngineFunc func(ctx context.Context, parent string, spec *deploy.EngineSpec) (*deploy.Engine, error)
	GetEngineFunc    func(ctx context.Context, name string) (*deploy.Engine, error)
	DeleteEngineFunc func(ctx context.Context, name string, force bool) error

	mu     sync.Mutex
	counts map[string]int
}

var _ interfaces.AgentEngineClient = &AgentEngineClientMock{}

func (m *AgentEngineClientMock) count(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[name]++
}

// CallCount returns how many times the named method was invoked.
func (m *AgentEngineClientMock) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

func (m *AgentEngineClientMock) CreateEngine(ctx context.Context, parent string, spec *deploy.EngineSpec) (*deploy.Engine, error) {
	m.count("CreateEngine")
	if m.CreateEngineFunc == nil {
		panic("AgentEngineClientMock.CreateEngineFunc: method is nil but AgentEngineClient.CreateEngine was just called")
	}
	return m.CreateEngineFunc(ctx, parent, spec)
}

func (m *AgentEngineClientMock) GetEngine(ctx context.Context, name string) (*deploy.Engine, error) {
	m.count("GetEngine")
	if m.GetEngineFunc == nil {
		panic("AgentEngineClientMock.GetEngineFunc: method is nil but AgentEngineClient.GetEngine was just called")
	}
	return m.GetEngineFunc(ctx, name)
}

func (m *AgentEngineClientMock) DeleteEngine(ctx context.Context, name string, force bool) error {
	m.count("DeleteEngine")
	if m.DeleteEngineFunc == nil {
		panic("AgentEngineClientMock.DeleteEngineFunc: method is nil but AgentEngineClient.DeleteEngine was just called")
	}
	return m.DeleteEngineFunc(ctx, name, force)
}
