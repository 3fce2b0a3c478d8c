package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/cli/config"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Output streams of commands. Replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// Run executes the command line. A non-nil error means the process must
// exit with status 1.
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		dotenv    string
		closer    func()
		flush     = func() {}
	)

	app := &cli.Command{
		Name:  "analytics-agent",
		Usage: "Data analysis agent on Vertex AI: local chat and Agent Engine deployment",
		Flags: joinFlags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:        "dotenv",
					Usage:       "Env file loaded before other flags are resolved. A missing file is ignored",
					Value:       ".env",
					Sources:     cli.EnvVars("ANALYTICS_DOTENV"),
					Destination: &dotenv,
				},
			},
			loggerCfg.Flags(),
			sentryCfg.Flags(),
		),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			closer = f
			if err != nil {
				return ctx, err
			}
			fl, err := sentryCfg.Configure()
			if err != nil {
				return ctx, err
			}
			flush = fl

			logging.Default().Debug("base options", "logger", loggerCfg, "sentry", sentryCfg, "dotenv", dotenv)
			return logging.With(ctx, logging.Default()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdDeploy(),
			cmdChat(),
		},
	}

	// The env file must be loaded before any flag reads its env source, so
	// its path is taken from the raw arguments.
	if err := loadDotenv(dotenvPath(args)); err != nil {
		errs.Handle(ctx, err)
		return err
	}

	defer func() { flush() }()
	if err := app.Run(ctx, args); err != nil {
		errs.Handle(ctx, err)
		return err
	}

	return nil
}

// loadDotenv never overrides variables already set in the environment.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.TV(errs.FilePathKey, path))
	}
	return nil
}

// dotenvPath finds --dotenv in args, falling back to ANALYTICS_DOTENV and
// then ".env".
func dotenvPath(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--dotenv="); ok {
			return v
		}
		if arg == "--dotenv" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v, ok := os.LookupEnv("ANALYTICS_DOTENV"); ok {
		return v
	}
	return ".env"
}

func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, flag := range flags {
		result = append(result, flag...)
	}
	return result
}
