package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

type Logger struct {
	level      string
	format     string
	output     string
	quiet      bool
	stacktrace bool
}

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Category:    "logging",
			Aliases:     []string{"l"},
			Sources:     cli.EnvVars("ANALYTICS_LOG_LEVEL"),
			Usage:       "Set log level [debug|info|warn|error]",
			Value:       "info",
			Destination: &x.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Category:    "logging",
			Aliases:     []string{"f"},
			Sources:     cli.EnvVars("ANALYTICS_LOG_FORMAT"),
			Usage:       "Set log format [console|json]",
			Value:       "console",
			Destination: &x.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Category:    "logging",
			Aliases:     []string{"o"},
			Sources:     cli.EnvVars("ANALYTICS_LOG_OUTPUT"),
			Usage:       "Set log output (create file other than '-', 'stdout', 'stderr'). Chat replies go to stdout",
			Value:       "stderr",
			Destination: &x.output,
		},
		&cli.BoolFlag{
			Name:        "log-quiet",
			Category:    "logging",
			Aliases:     []string{"q"},
			Usage:       "Quiet mode (no log output)",
			Sources:     cli.EnvVars("ANALYTICS_LOG_QUIET"),
			Destination: &x.quiet,
		},
		&cli.BoolFlag{
			Name:        "log-stacktrace",
			Category:    "logging",
			Aliases:     []string{"s"},
			Usage:       "Show stacktrace (only for console format)",
			Sources:     cli.EnvVars("ANALYTICS_LOG_STACKTRACE"),
			Destination: &x.stacktrace,
			Value:       true,
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// logFormat picks console output for color terminals when no format is given.
func logFormat(name string) (logging.Format, error) {
	switch strings.ToLower(name) {
	case "console":
		return logging.FormatConsole, nil
	case "json":
		return logging.FormatJSON, nil
	case "":
		term := os.Getenv("TERM")
		if strings.Contains(term, "color") || strings.Contains(term, "xterm") {
			return logging.FormatConsole, nil
		}
		return logging.FormatJSON, nil
	}
	return 0, goerr.New("invalid log format", goerr.V("format", name), goerr.T(errs.TagValidation))
}

func logLevel(name string) (slog.Level, error) {
	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return 0, goerr.New("invalid log level", goerr.V("level", name), goerr.T(errs.TagValidation))
	}
	return level, nil
}

// logOutput opens the destination. Files are appended to and closed by the
// returned closer; standard streams are never closed.
func logOutput(path string) (io.Writer, func(), error) {
	switch path {
	case "stdout", "-":
		return os.Stdout, func() {}, nil
	case "stderr", "":
		return os.Stderr, func() {}, nil
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, func() {}, goerr.Wrap(err, "failed to open log file", goerr.TV(errs.FilePathKey, path))
	}
	return f, func() { safe.Close(context.Background(), f) }, nil
}

// Configure installs the default logger. The returned closer is safe to call
// even when err is not nil.
func (x *Logger) Configure() (func(), error) {
	noop := func() {}
	if x.quiet {
		logging.Quiet()
		return noop, nil
	}

	format, err := logFormat(x.format)
	if err != nil {
		return noop, err
	}
	level, err := logLevel(x.level)
	if err != nil {
		return noop, err
	}
	w, closer, err := logOutput(x.output)
	if err != nil {
		return closer, err
	}

	logging.SetDefault(logging.New(w, level, format, x.stacktrace))
	return closer, nil
}
