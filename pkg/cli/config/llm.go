package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// LLMCfg selects the model of the root agent. Gemini is the default; a
// Claude project switches the root agent to Claude on Vertex AI.
type LLMCfg struct {
	rootModel string

	claudeModel     string
	claudeProjectID string
	claudeLocation  string
}

func (x *LLMCfg) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "root-model",
			Usage:       "Gemini model of the root agent (default: " + types.DefaultModel.String() + ")",
			Category:    "LLM",
			Sources:     cli.EnvVars(root.ModelEnv),
			Destination: &x.rootModel,
		},
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Claude model name",
			Category:    "Claude",
			Value:       "claude-sonnet-4@20250514",
			Sources:     cli.EnvVars("ANALYTICS_CLAUDE_MODEL"),
			Destination: &x.claudeModel,
		},
		&cli.StringFlag{
			Name:        "claude-project-id",
			Usage:       "Google Cloud Project ID for Claude Vertex AI. Root agent uses Claude when set",
			Category:    "Claude",
			Sources:     cli.EnvVars("ANALYTICS_CLAUDE_PROJECT_ID"),
			Destination: &x.claudeProjectID,
		},
		&cli.StringFlag{
			Name:        "claude-location",
			Usage:       "Google Cloud location for Claude Vertex AI",
			Category:    "Claude",
			Value:       "us-east5",
			Sources:     cli.EnvVars("ANALYTICS_CLAUDE_LOCATION"),
			Destination: &x.claudeLocation,
		},
	}
}

func (x LLMCfg) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("provider", x.Provider()),
		slog.String("root_model", x.rootModel),
	}
	if x.claudeProjectID != "" {
		attrs = append(attrs,
			slog.String("claude_model", x.claudeModel),
			slog.String("claude_project_id", x.claudeProjectID),
			slog.String("claude_location", x.claudeLocation),
		)
	}
	return slog.GroupValue(attrs...)
}

func (x *LLMCfg) Provider() string {
	if x.claudeProjectID != "" {
		return "claude"
	}
	return "gemini"
}

// Model is the model name of the root agent.
func (x *LLMCfg) Model() string {
	if x.claudeProjectID != "" {
		return x.claudeModel
	}
	if x.rootModel != "" {
		return x.rootModel
	}
	return types.DefaultModel.String()
}

// Apply sets the root model when Claude is selected or --root-model was
// given. Otherwise cfg.Model is kept.
func (x *LLMCfg) Apply(cfg root.Config) root.Config {
	if x.claudeProjectID != "" || x.rootModel != "" {
		cfg.Model = x.Model()
	}
	return cfg
}

// Configure builds the LLM client for cfg. projectID and location are used
// for Gemini on Vertex AI.
func (x *LLMCfg) Configure(ctx context.Context, projectID, location string, cfg root.Config) (gollem.LLMClient, error) {
	if x.claudeProjectID != "" {
		client, err := claude.NewWithVertex(ctx, x.claudeLocation, x.claudeProjectID,
			claudeOptions(cfg.Model, cfg.Temperature)...,
		)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude Vertex AI client",
				goerr.V("projectID", x.claudeProjectID),
				goerr.V("location", x.claudeLocation),
				goerr.V("model", cfg.Model))
		}
		return client, nil
	}

	client, err := gemini.New(ctx, projectID, location, geminiOptions(cfg.Model, cfg.Temperature)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("projectID", projectID),
			goerr.V("location", location),
			goerr.V("model", cfg.Model))
	}
	return client, nil
}

func claudeOptions(model string, temperature *float32) []claude.VertexOption {
	options := []claude.VertexOption{
		claude.WithVertexModel(model),
	}
	if temperature != nil {
		options = append(options, claude.WithVertexTemperature(float64(*temperature)))
	}
	return options
}

func geminiOptions(model string, temperature *float32) []gemini.Option {
	options := []gemini.Option{
		gemini.WithModel(model),
	}
	if temperature != nil {
		options = append(options, gemini.WithTemperature(*temperature))
	}
	return options
}
