package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/repository/firestore"
	"github.com/secmon-lab/analytics-agent/pkg/repository/memory"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Firestore struct {
	projectID  string
	databaseID string
}

func (c *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID (in-memory sessions when empty)",
			Destination: &c.projectID,
			Category:    "Firestore",
			Sources:     cli.EnvVars("ANALYTICS_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Destination: &c.databaseID,
			Category:    "Firestore",
			Sources:     cli.EnvVars("ANALYTICS_FIRESTORE_DATABASE_ID"),
			Value:       "(default)",
		},
	}
}

func (c Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", c.projectID),
		slog.String("database_id", c.databaseID),
	)
}

// Configure returns the session repository and its closer.
func (c *Firestore) Configure(ctx context.Context) (interfaces.SessionRepository, func(), error) {
	if c.projectID == "" {
		logging.From(ctx).Warn("firestore is not configured, sessions are kept in memory")
		return memory.New(), func() {}, nil
	}

	repo, err := firestore.New(ctx, c.projectID, c.databaseID)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := repo.Close(); err != nil {
			logging.From(ctx).Warn("failed to close firestore", "error", err)
		}
	}
	return repo, closer, nil
}

func (c *Firestore) IsConfigured() bool {
	return c.projectID != ""
}
