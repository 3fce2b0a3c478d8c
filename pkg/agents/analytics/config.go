package analytics

import (
	_ "embed"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
)

const (
	// Name is how the root agent refers to this agent.
	Name = "Analytics_agent"

	// ModelEnv overrides the model of this agent.
	ModelEnv = "ANALYTICS_AGENT_MODEL"
)

//go:embed prompt/instruction.md
var instruction string

// Instruction returns the data-science guidelines given to the sandbox model.
func Instruction() string {
	return instruction
}

// Config binds a model, the instruction and a stateful code executor.
type Config struct {
	Name        string
	Model       string
	Instruction string
	Temperature *float32

	// Stateful keeps one sandbox session per conversation so that variables
	// and loaded data survive between requests.
	Stateful         bool
	OptimizeDataFile bool
}

func DefaultConfig() Config {
	return Config{
		Name:             Name,
		Model:            types.DefaultModel.String(),
		Instruction:      instruction,
		Stateful:         true,
		OptimizeDataFile: true,
	}
}

// SessionConfig is the sandbox configuration derived from x.
func (x Config) SessionConfig() sandbox.SessionConfig {
	return sandbox.SessionConfig{
		Model:            x.Model,
		Instruction:      x.Instruction,
		Temperature:      x.Temperature,
		OptimizeDataFile: x.OptimizeDataFile,
	}
}

// Spec is the manifest record of x.
func (x Config) Spec() deploy.AgentSpec {
	return deploy.AgentSpec{
		Name:        x.Name,
		Model:       x.Model,
		Instruction: x.Instruction,
		Temperature: x.Temperature,
		CodeExecutor: &deploy.CodeExecutorSpec{
			Stateful:         x.Stateful,
			OptimizeDataFile: x.OptimizeDataFile,
		},
	}
}

// WithSpec overrides x with the fields set in spec. The name is kept since the
// delegation tool addresses the agent by it.
func (x Config) WithSpec(spec deploy.AgentSpec) Config {
	if spec.Model != "" {
		x.Model = spec.Model
	}
	if spec.Instruction != "" {
		x.Instruction = spec.Instruction
	}
	if spec.Temperature != nil {
		x.Temperature = spec.Temperature
	}
	if spec.CodeExecutor != nil {
		x.Stateful = spec.CodeExecutor.Stateful
		x.OptimizeDataFile = spec.CodeExecutor.OptimizeDataFile
	}
	return x
}
