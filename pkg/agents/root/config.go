package root

import (
	_ "embed"
	"log/slog"

	"github.com/m-mizutani/gollem"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/utils/ptr"
)

const (
	Name     = "DA_Agent"
	ModelEnv = "ROOT_AGENT_MODEL"

	// DelegateToolName and LoadArtifactsToolName are the tools the root
	// agent is given.
	DelegateToolName      = "call_analytics_agent"
	LoadArtifactsToolName = "load_artifacts"

	defaultLoopLimit = 16
)

//go:embed prompt/instruction.md
var instruction string

func Instruction() string {
	return instruction
}

type Config struct {
	Name        string
	Model       string
	Instruction string
	Temperature *float32
	LoopLimit   int

	// Logger and Options only apply to the local gollem agent.
	Logger  *slog.Logger
	Options []gollem.Option
}

func DefaultConfig() Config {
	return Config{
		Name:        Name,
		Model:       types.DefaultModel.String(),
		Instruction: instruction,
		Temperature: ptr.Ref[float32](0.01),
		LoopLimit:   defaultLoopLimit,
	}
}

func (x Config) Spec() deploy.AgentSpec {
	return deploy.AgentSpec{
		Name:        x.Name,
		Model:       x.Model,
		Instruction: x.Instruction,
		Temperature: x.Temperature,
		Tools:       []string{DelegateToolName, LoadArtifactsToolName},
	}
}

// WithSpec overrides x with the fields set in spec. Tools are fixed by this
// package and ignored.
func (x Config) WithSpec(spec deploy.AgentSpec) Config {
	if spec.Name != "" {
		x.Name = spec.Name
	}
	if spec.Model != "" {
		x.Model = spec.Model
	}
	if spec.Instruction != "" {
		x.Instruction = spec.Instruction
	}
	if spec.Temperature != nil {
		x.Temperature = spec.Temperature
	}
	return x
}

// Manifest describes the root agent and its sub-agents for deployment.
func Manifest(root Config, subAgents ...deploy.AgentSpec) *deploy.Manifest {
	return &deploy.Manifest{
		Version:   deploy.ManifestVersion,
		Root:      root.Spec(),
		SubAgents: subAgents,
	}
}
