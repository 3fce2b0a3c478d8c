package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/cli/config"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/repository/memory"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// parse runs flags through a throwaway command so that unexported config
// fields are filled the same way the real CLI does.
func parse(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: func(ctx context.Context, c *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...))).Required()
}

func TestCloud(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GOOGLE_CLOUD_LOCATION", "")

	t.Run("flags", func(t *testing.T) {
		var cfg config.Cloud
		parse(t, cfg.Flags(), "--project_id", "my-proj", "--location", "us-central1")
		gt.Equal(t, cfg.ProjectID(), "my-proj")
		gt.Equal(t, cfg.Location(), "us-central1")
		gt.NoError(t, cfg.Validate())
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "env-proj")
		t.Setenv("GOOGLE_CLOUD_LOCATION", "asia-northeast1")
		var cfg config.Cloud
		parse(t, cfg.Flags())
		gt.Equal(t, cfg.ProjectID(), "env-proj")
		gt.Equal(t, cfg.Location(), "asia-northeast1")
	})

	t.Run("missing project", func(t *testing.T) {
		var cfg config.Cloud
		parse(t, cfg.Flags(), "--location", "us-central1")
		err := cfg.Validate()
		gt.True(t, goerr.HasTag(err, errs.TagValidation))
		gt.S(t, err.Error()).Contains("GOOGLE_CLOUD_PROJECT")
	})
}

func TestSandboxAgentConfig(t *testing.T) {
	t.Setenv("ANALYTICS_AGENT_MODEL", "")

	var cfg config.Sandbox
	parse(t, cfg.Flags(), "--analytics-model", "gemini-2.5-pro", "--sandbox-stateless")
	agentCfg := cfg.AgentConfig()
	gt.Equal(t, agentCfg.Model, "gemini-2.5-pro")
	gt.False(t, agentCfg.Stateful)
	gt.Equal(t, agentCfg.Name, "Analytics_agent")

	t.Run("env", func(t *testing.T) {
		t.Setenv("ANALYTICS_AGENT_MODEL", "gemini-2.0-flash")
		var cfg config.Sandbox
		parse(t, cfg.Flags())
		gt.Equal(t, cfg.AgentConfig().Model, "gemini-2.0-flash")
		gt.True(t, cfg.AgentConfig().Stateful)
	})
}

func TestLLMCfg(t *testing.T) {
	t.Setenv("ROOT_AGENT_MODEL", "")
	t.Setenv("ANALYTICS_CLAUDE_PROJECT_ID", "")

	var cfg config.LLMCfg
	parse(t, cfg.Flags())
	gt.Equal(t, cfg.Provider(), "gemini")
	gt.Equal(t, cfg.Model(), "gemini-2.5-flash")

	var claudeCfg config.LLMCfg
	parse(t, claudeCfg.Flags(), "--claude-project-id", "p")
	gt.Equal(t, claudeCfg.Provider(), "claude")
	gt.Equal(t, claudeCfg.Model(), "claude-sonnet-4@20250514")

	t.Run("temperature reaches both providers", func(t *testing.T) {
		temp := float32(0.01)
		gt.A(t, config.ClaudeOptions("claude-sonnet-4@20250514", &temp)).Length(2)
		gt.A(t, config.ClaudeOptions("claude-sonnet-4@20250514", nil)).Length(1)
		gt.A(t, config.GeminiOptions("gemini-2.5-flash", &temp)).Length(2)
		gt.A(t, config.GeminiOptions("gemini-2.5-flash", nil)).Length(1)
	})

	t.Run("apply keeps the given model unless overridden", func(t *testing.T) {
		base := root.DefaultConfig()
		base.Model = "gemini-2.5-pro"
		gt.Equal(t, cfg.Apply(base).Model, "gemini-2.5-pro")
		gt.Equal(t, claudeCfg.Apply(base).Model, "claude-sonnet-4@20250514")

		var flagged config.LLMCfg
		parse(t, flagged.Flags(), "--root-model", "gemini-2.0-flash")
		gt.Equal(t, flagged.Apply(base).Model, "gemini-2.0-flash")
	})
}

func TestStorageInMemory(t *testing.T) {
	t.Setenv("ANALYTICS_STORAGE_BUCKET", "")

	var cfg config.Storage
	parse(t, cfg.Flags())
	gt.False(t, cfg.IsConfigured())

	client := gt.R1(cfg.Configure(context.Background())).NoError(t)
	_, ok := client.(*storage.MemoryClient)
	gt.True(t, ok)
}

func TestFirestoreInMemory(t *testing.T) {
	t.Setenv("ANALYTICS_FIRESTORE_PROJECT_ID", "")

	var cfg config.Firestore
	parse(t, cfg.Flags())
	repo, closer, err := cfg.Configure(context.Background())
	gt.NoError(t, err)
	defer closer()
	_, ok := repo.(*memory.Memory)
	gt.True(t, ok)
}

func TestTrace(t *testing.T) {
	t.Setenv("ANALYTICS_TRACE", "")
	client := storage.NewMemoryClient()

	var disabled config.Trace
	parse(t, disabled.Flags())
	gt.Nil(t, disabled.Configure(context.Background(), client))

	var enabled config.Trace
	parse(t, enabled.Flags(), "--trace")
	gt.NotNil(t, enabled.Configure(context.Background(), client))
}

func TestLoggerInvalid(t *testing.T) {
	var cfg config.Logger
	parse(t, cfg.Flags(), "--log-level", "verbose")
	closer, err := cfg.Configure()
	defer closer()
	gt.True(t, goerr.HasTag(err, errs.TagValidation))
}

func TestLoggerFileOutput(t *testing.T) {
	prev := logging.Default()
	t.Cleanup(func() { logging.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "agent.log")
	var cfg config.Logger
	parse(t, cfg.Flags(), "--log-output", path, "--log-format", "json", "--log-level", "debug")
	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()

	logging.Default().Debug("written to file", "api_key", "should-be-masked")
	closer()

	data := gt.R1(os.ReadFile(path)).NoError(t)
	gt.S(t, string(data)).Contains("written to file").NotContains("should-be-masked")
}

func TestSentryDisabled(t *testing.T) {
	t.Setenv("ANALYTICS_SENTRY_DSN", "")

	var cfg config.Sentry
	parse(t, cfg.Flags(), "--sentry-env", "dev")
	flush, err := cfg.Configure()
	gt.NoError(t, err)
	gt.V(t, flush).NotNil()
	flush()
}
