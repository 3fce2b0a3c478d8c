package deploy

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

// Mode is the single operation a deploy invocation performs.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeDelete Mode = "delete"
)

const (
	DefaultPackageFile = "analytics_agent-0.1.tar.gz"
	DefaultDisplayName = "analytics Agent System"

	stagingBucketSuffix = "-analytics-agent-staging"
)

// Options are the resolved inputs of the deploy command.
type Options struct {
	ProjectID   string
	Location    string
	Bucket      string
	ResourceID  string
	Create      bool
	Delete      bool
	PackagePath string
	DisplayName string
}

// DefaultBucket derives the staging bucket name from the project.
func DefaultBucket(projectID string) string {
	return projectID + stagingBucketSuffix
}

func validationError(msg string, opts ...goerr.Option) error {
	opts = append(opts, goerr.T(errs.TagValidation))
	return goerr.Wrap(errs.ErrInvalidArgument, msg, opts...)
}

// Validate fills the default bucket and checks every argument before any
// remote call is made. It returns the selected mode.
func (x *Options) Validate() (Mode, error) {
	if x.Bucket == "" {
		if x.ProjectID == "" {
			return "", validationError("GCS bucket name is required. Set GOOGLE_CLOUD_STORAGE_BUCKET env var or use --bucket flag")
		}
		x.Bucket = DefaultBucket(x.ProjectID)
	}

	if x.ProjectID == "" {
		return "", validationError("missing required GCP project ID. Set GOOGLE_CLOUD_PROJECT env var or use --project_id flag")
	}
	if x.Location == "" {
		return "", validationError("missing required GCP location. Set GOOGLE_CLOUD_LOCATION env var or use --location flag")
	}

	switch {
	case x.Create && x.Delete:
		return "", validationError("--create and --delete are mutually exclusive")
	case !x.Create && !x.Delete:
		return "", validationError("you must specify either --create or --delete flag")
	}

	if x.Delete {
		if x.ResourceID == "" {
			return "", validationError("--resource_id is required when using the --delete flag")
		}
		return ModeDelete, nil
	}

	if x.PackagePath == "" {
		x.PackagePath = DefaultPackageFile
	}
	if x.DisplayName == "" {
		x.DisplayName = DefaultDisplayName
	}
	return ModeCreate, nil
}

// StagingURI is the gs:// URI of the staging bucket.
func (x *Options) StagingURI() string {
	return fmt.Sprintf("gs://%s", x.Bucket)
}
