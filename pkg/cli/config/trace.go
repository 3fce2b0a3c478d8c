package config

import (
	"context"
	"log/slog"

	gollemtrace "github.com/m-mizutani/gollem/trace"
	traceAdapter "github.com/secmon-lab/analytics-agent/pkg/adapter/trace"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Trace enables execution traces of the root agent, written next to the
// session data.
type Trace struct {
	enabled bool
	prefix  string
}

func (x *Trace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "trace",
			Usage:       "Record agent execution traces into storage",
			Category:    "Trace",
			Destination: &x.enabled,
			Sources:     cli.EnvVars("ANALYTICS_TRACE"),
		},
		&cli.StringFlag{
			Name:        "trace-prefix",
			Usage:       "Object prefix for trace data",
			Category:    "Trace",
			Destination: &x.prefix,
			Value:       "traces",
			Sources:     cli.EnvVars("ANALYTICS_TRACE_PREFIX"),
		},
	}
}

func (x *Trace) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.enabled),
		slog.String("prefix", x.prefix),
	)
}

// Configure returns nil when tracing is disabled.
func (x *Trace) Configure(ctx context.Context, storageClient interfaces.StorageClient) gollemtrace.Repository {
	if !x.enabled {
		return nil
	}
	return traceAdapter.NewSafe(traceAdapter.New(storageClient, x.prefix), logging.From(ctx))
}
