package deploy_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
)

func TestManifest(t *testing.T) {
	temp := float32(0.01)
	m := &deploy.Manifest{
		Version: deploy.ManifestVersion,
		Root: deploy.AgentSpec{
			Name:        "DA_Agent",
			Model:       "gemini-2.5-flash",
			Instruction: "route requests",
			Temperature: &temp,
			Tools:       []string{"call_analytics_agent", "load_artifacts"},
		},
		SubAgents: []deploy.AgentSpec{
			{
				Name:         "Analytics_agent",
				Model:        "gemini-2.5-flash",
				Instruction:  "analyze data",
				CodeExecutor: &deploy.CodeExecutorSpec{Stateful: true, OptimizeDataFile: true},
			},
		},
	}

	data, err := m.Marshal()
	gt.NoError(t, err)
	gt.S(t, string(data)).Contains("call_analytics_agent").Contains("stateful: true")

	restored, err := deploy.UnmarshalManifest(data)
	gt.NoError(t, err)
	gt.Equal(t, restored.Root.Name, "DA_Agent")
	gt.A(t, restored.SubAgents).Length(1)
	gt.True(t, restored.SubAgents[0].CodeExecutor.Stateful)

	t.Run("unsupported version", func(t *testing.T) {
		_, err := deploy.UnmarshalManifest([]byte("version: 99\n"))
		gt.Error(t, err)
	})
}
