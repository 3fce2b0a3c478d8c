package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/urfave/cli/v3"
)

// Cloud is the Google Cloud project and region shared by every command.
type Cloud struct {
	projectID string
	location  string
}

func (x *Cloud) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project_id",
			Usage:       "GCP project ID",
			Category:    "Google Cloud",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "location",
			Usage:       "GCP location (region)",
			Category:    "Google Cloud",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_LOCATION"),
			Destination: &x.location,
		},
	}
}

func (x Cloud) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("location", x.location),
	)
}

func (x *Cloud) ProjectID() string {
	return x.projectID
}

func (x *Cloud) Location() string {
	return x.location
}

// Validate requires both values. The deploy command checks them itself to
// keep its own messages and order.
func (x *Cloud) Validate() error {
	if x.projectID == "" {
		return goerr.New("missing GCP project ID. Set GOOGLE_CLOUD_PROJECT env var or use --project_id flag", goerr.T(errs.TagValidation))
	}
	if x.location == "" {
		return goerr.New("missing GCP location. Set GOOGLE_CLOUD_LOCATION env var or use --location flag", goerr.T(errs.TagValidation))
	}
	return nil
}
