package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/agents/analytics"
	"github.com/secmon-lab/analytics-agent/pkg/agents/root"
	"github.com/secmon-lab/analytics-agent/pkg/cli/config"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/domain/types"
	"github.com/secmon-lab/analytics-agent/pkg/service/notifier"
	"github.com/secmon-lab/analytics-agent/pkg/service/storage"
	"github.com/secmon-lab/analytics-agent/pkg/usecase"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var (
		cloud        config.Cloud
		llmCfg       config.LLMCfg
		sandboxCfg   config.Sandbox
		storageCfg   config.Storage
		firestoreCfg config.Firestore
		traceCfg     config.Trace

		query        string
		sessionID    types.SessionID
		quietTrace   bool
		manifestPath string
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "query",
				Usage:       "Query prompt (if not provided, interactive mode will start)",
				Destination: &query,
			},
			&cli.StringFlag{
				Name:        "session-id",
				Usage:       "Resume an existing session",
				Destination: (*string)(&sessionID),
			},
			&cli.BoolFlag{
				Name:        "quiet-trace",
				Usage:       "Do not print tool and sub-agent progress",
				Destination: &quietTrace,
			},
			&cli.StringFlag{
				Name:        "manifest",
				Usage:       "Agent manifest (YAML, as uploaded by deploy) to run instead of the built-in agent configs. Model flags still override it",
				Sources:     cli.EnvVars("ANALYTICS_MANIFEST"),
				Destination: &manifestPath,
			},
		},
		cloud.Flags(),
		llmCfg.Flags(),
		sandboxCfg.Flags(),
		storageCfg.Flags(),
		firestoreCfg.Flags(),
		traceCfg.Flags(),
	)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat with the data analysis agent locally",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)
			logger.Debug("chat options",
				"cloud", cloud,
				"llm", llmCfg,
				"sandbox", sandboxCfg,
				"storage", &storageCfg,
				"firestore", firestoreCfg,
				"trace", &traceCfg,
			)

			if err := cloud.Validate(); err != nil {
				return err
			}

			rootCfg, analyticsCfg, err := agentConfigs(manifestPath)
			if err != nil {
				return err
			}
			rootCfg = llmCfg.Apply(rootCfg)
			analyticsCfg = sandboxCfg.Apply(analyticsCfg)

			llmClient, err := llmCfg.Configure(ctx, cloud.ProjectID(), cloud.Location(), rootCfg)
			if err != nil {
				return err
			}

			sb, err := sandboxCfg.Configure(ctx, cloud.ProjectID(), cloud.Location())
			if err != nil {
				return err
			}

			storageClient, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure storage")
			}
			defer storageClient.Close(ctx)
			storageSvc := storage.New(storageClient, storage.WithPrefix(storageCfg.Prefix()))

			repo, closeRepo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure firestore")
			}
			defer closeRepo()

			analyticsAgent := analytics.New(analyticsCfg, sb, analytics.WithArtifactStore(storageSvc))

			uc := usecase.New(
				usecase.WithLLMClient(llmClient),
				usecase.WithRepository(repo),
				usecase.WithStorage(storageSvc),
				usecase.WithSubAgent(analyticsAgent),
				usecase.WithTraceRepository(traceCfg.Configure(ctx, storageClient)),
				usecase.WithRootConfig(rootCfg),
			)

			console := notifier.NewConsole(stdout, stderr, notifier.WithQuietTrace(quietTrace))
			ctx = console.Bind(ctx)

			if query != "" {
				result, err := uc.Chat(ctx, sessionID, query)
				if err != nil {
					return goerr.Wrap(err, "failed to process query")
				}
				console.Printf("🔖 session: %s\n", result.SessionID)
				return nil
			}

			return runInteractive(ctx, uc, console, sessionID, stdin)
		},
	}
}

// agentConfigs returns the built-in agent configs, overridden by the manifest
// at path when one is given.
func agentConfigs(path string) (root.Config, analytics.Config, error) {
	rootCfg, analyticsCfg := root.DefaultConfig(), analytics.DefaultConfig()
	if path == "" {
		return rootCfg, analyticsCfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return rootCfg, analyticsCfg, goerr.Wrap(err, "failed to read agent manifest", goerr.TV(errs.FilePathKey, path))
	}
	m, err := deploy.UnmarshalManifest(data)
	if err != nil {
		return rootCfg, analyticsCfg, goerr.Wrap(err, "invalid agent manifest",
			goerr.TV(errs.FilePathKey, path),
			goerr.T(errs.TagValidation),
		)
	}

	spec, ok := m.SubAgent(analytics.Name)
	if !ok {
		return rootCfg, analyticsCfg, goerr.New("agent manifest has no analytics agent",
			goerr.TV(errs.FilePathKey, path),
			goerr.V("name", analytics.Name),
			goerr.T(errs.TagValidation),
		)
	}

	return rootCfg.WithSpec(m.Root), analyticsCfg.WithSpec(spec), nil
}

type chatter interface {
	Chat(ctx context.Context, sessionID types.SessionID, message string) (*usecase.ChatResult, error)
}

// runInteractive reads one message per line until EOF, "exit" or "quit".
// A failed turn is reported and the loop goes on.
func runInteractive(ctx context.Context, uc chatter, console *notifier.Console, sessionID types.SessionID, in io.Reader) error {
	logger := logging.From(ctx)

	console.Printf("💬 Interactive chat mode started. Type 'exit' or 'quit' to end the session.\n")
	console.Printf("📊 Ask for an analysis or a plot of your data.\n\n")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		console.Printf("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return goerr.Wrap(err, "failed to read input")
			}
			console.Printf("\n👋 Session ended.\n")
			return nil
		}

		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		if message == "exit" || message == "quit" {
			console.Printf("👋 Session ended.\n")
			return nil
		}

		result, err := uc.Chat(ctx, sessionID, message)
		if err != nil {
			console.Errorf("Error: %s", err.Error())
			logger.Error("chat error", "error", err)
			continue
		}
		if sessionID == "" {
			sessionID = result.SessionID
			console.Printf("🔖 session: %s\n", sessionID)
		}
		console.Printf("\n")
	}
}
