package deploy

import (
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// AgentSpec is the declarative record of one agent.
type AgentSpec struct {
	Name         string            `yaml:"name"`
	Model        string            `yaml:"model"`
	Instruction  string            `yaml:"instruction"`
	Temperature  *float32          `yaml:"temperature,omitempty"`
	Tools        []string          `yaml:"tools,omitempty"`
	CodeExecutor *CodeExecutorSpec `yaml:"code_executor,omitempty"`
}

type CodeExecutorSpec struct {
	Stateful         bool `yaml:"stateful"`
	OptimizeDataFile bool `yaml:"optimize_data_file"`
}

// Manifest packages the root agent and its sub-agents for deployment.
type Manifest struct {
	Version   int         `yaml:"version"`
	Root      AgentSpec   `yaml:"root"`
	SubAgents []AgentSpec `yaml:"sub_agents"`
}

const ManifestVersion = 1

func (x *Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(x)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal agent manifest")
	}
	return data, nil
}

// SubAgent returns the sub-agent record named name.
func (x *Manifest) SubAgent(name string) (AgentSpec, bool) {
	for _, spec := range x.SubAgents {
		if spec.Name == name {
			return spec, true
		}
	}
	return AgentSpec{}, false
}

func UnmarshalManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal agent manifest")
	}
	if m.Version != ManifestVersion {
		return nil, goerr.New("unsupported manifest version", goerr.V("version", m.Version))
	}
	return &m, nil
}
