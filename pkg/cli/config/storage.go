package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"google.golang.org/api/option"

	"github.com/urfave/cli/v3"
)

// Storage keeps chat histories, artifacts and traces.
type Storage struct {
	bucket    string
	prefix    string
	projectID string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "GCS bucket for histories and artifacts (in-memory when empty)",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("ANALYTICS_STORAGE_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "storage-prefix",
			Usage:       "Storage prefix",
			Category:    "Storage",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("ANALYTICS_STORAGE_PREFIX"),
		},
		&cli.StringFlag{
			Name:        "storage-project-id",
			Usage:       "Storage quota project ID",
			Category:    "Storage",
			Destination: &x.projectID,
			Sources:     cli.EnvVars("ANALYTICS_STORAGE_PROJECT_ID"),
		},
	}
}

func (x *Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
		slog.String("project_id", x.projectID),
	)
}

// Configure returns a GCS client, or an in-memory one when no bucket is set.
func (x *Storage) Configure(ctx context.Context) (interfaces.StorageClient, error) {
	if x.bucket == "" {
		logging.From(ctx).Warn("storage bucket is not set, histories and artifacts are kept in memory")
		return storage.NewMemoryClient(), nil
	}

	var opts []option.ClientOption
	if x.projectID != "" {
		opts = append(opts, option.WithQuotaProject(x.projectID))
	}

	return storage.New(ctx, x.bucket, opts...)
}

func (x *Storage) Prefix() string {
	return x.prefix
}

func (x *Storage) IsConfigured() bool {
	return x.bucket != ""
}
