package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/analytics-agent/pkg/adapter/sandbox"
	"github.com/secmon-lab/analytics-agent/pkg/agents/analytics"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Sandbox configures the analytics agent and its code-execution sandbox.
type Sandbox struct {
	model     string
	stateless bool
}

func (x *Sandbox) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "analytics-model",
			Usage:       "Gemini model of the analytics agent (default: " + types.DefaultModel.String() + ")",
			Category:    "Sandbox",
			Sources:     cli.EnvVars(analytics.ModelEnv),
			Destination: &x.model,
		},
		&cli.BoolFlag{
			Name:        "sandbox-stateless",
			Usage:       "Open a new sandbox session for every request",
			Category:    "Sandbox",
			Sources:     cli.EnvVars("ANALYTICS_SANDBOX_STATELESS"),
			Destination: &x.stateless,
		},
	}
}

func (x Sandbox) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("model", x.model),
		slog.Bool("stateless", x.stateless),
	)
}

// AgentConfig is the default analytics agent config with flag overrides
// applied.
func (x *Sandbox) AgentConfig() analytics.Config {
	return x.Apply(analytics.DefaultConfig())
}

// Apply overrides cfg with the flags that were given. An unset model keeps
// cfg.Model.
func (x *Sandbox) Apply(cfg analytics.Config) analytics.Config {
	if x.model != "" {
		cfg.Model = x.model
	}
	if x.stateless {
		cfg.Stateful = false
	}
	return cfg
}

func (x *Sandbox) Configure(ctx context.Context, projectID, location string) (*sandbox.Client, error) {
	return sandbox.New(ctx, projectID, location)
}
