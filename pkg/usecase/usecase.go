package usecase

import (
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/trace"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/service/storage"
)

type UseCases struct {
	llmClient       gollem.LLMClient
	repository      interfaces.SessionRepository
	storage         *storage.Service
	subAgent        interfaces.SubAgent
	traceRepository trace.Repository

	rootConfig root.Config
	compaction bool
}

type Option func(*UseCases)

func WithLLMClient(llmClient gollem.LLMClient) Option {
	return func(u *UseCases) {
		u.llmClient = llmClient
	}
}

func WithRepository(repository interfaces.SessionRepository) Option {
	return func(u *UseCases) {
		u.repository = repository
	}
}

// WithStorage sets where histories and artifacts are kept.
func WithStorage(svc *storage.Service) Option {
	return func(u *UseCases) {
		u.storage = svc
	}
}

// WithSubAgent sets the agent called by call_analytics_agent.
func WithSubAgent(agent interfaces.SubAgent) Option {
	return func(u *UseCases) {
		u.subAgent = agent
	}
}

func WithTraceRepository(repo trace.Repository) Option {
	return func(u *UseCases) {
		u.traceRepository = repo
	}
}

func WithRootConfig(cfg root.Config) Option {
	return func(u *UseCases) {
		u.rootConfig = cfg
	}
}

// WithCompaction toggles history compaction by the LLM. Enabled by default.
func WithCompaction(enabled bool) Option {
	return func(u *UseCases) {
		u.compaction = enabled
	}
}

func New(opts ...Option) *UseCases {
	u := &UseCases{
		rootConfig: root.DefaultConfig(),
		compaction: true,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}
