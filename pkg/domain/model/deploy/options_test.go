package deploy_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

func TestOptionsValidate(t *testing.T) {
	testCases := map[string]struct {
		opts    deploy.Options
		mode    deploy.Mode
		errMsg  string
		bucket  string
		pkgPath string
	}{
		"create with defaults": {
			opts:    deploy.Options{ProjectID: "p", Location: "us-central1", Create: true},
			mode:    deploy.ModeCreate,
			bucket:  "p-analytics-agent-staging",
			pkgPath: deploy.DefaultPackageFile,
		},
		"create keeps explicit bucket": {
			opts:    deploy.Options{ProjectID: "p", Location: "l", Bucket: "b", Create: true, PackagePath: "x.tar.gz"},
			mode:    deploy.ModeCreate,
			bucket:  "b",
			pkgPath: "x.tar.gz",
		},
		"delete with resource id": {
			opts:   deploy.Options{ProjectID: "p", Location: "l", Delete: true, ResourceID: "123"},
			mode:   deploy.ModeDelete,
			bucket: "p-analytics-agent-staging",
		},
		"no bucket and no project": {
			opts:   deploy.Options{Location: "l", Create: true},
			errMsg: "GCS bucket name is required",
		},
		"no project": {
			opts:   deploy.Options{Location: "l", Bucket: "b", Create: true},
			errMsg: "missing required GCP project ID",
		},
		"no location": {
			opts:   deploy.Options{ProjectID: "p", Create: true},
			errMsg: "missing required GCP location",
		},
		"both create and delete": {
			opts:   deploy.Options{ProjectID: "p", Location: "l", Create: true, Delete: true, ResourceID: "1"},
			errMsg: "mutually exclusive",
		},
		"neither create nor delete": {
			opts:   deploy.Options{ProjectID: "p", Location: "l"},
			errMsg: "either --create or --delete",
		},
		"delete without resource id": {
			opts:   deploy.Options{ProjectID: "p", Location: "l", Delete: true},
			errMsg: "--resource_id is required",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			opts := tc.opts
			mode, err := opts.Validate()
			if tc.errMsg != "" {
				gt.Error(t, err)
				gt.S(t, err.Error()).Contains(tc.errMsg)
				gt.True(t, errors.Is(err, errs.ErrInvalidArgument))
				gt.True(t, goerr.HasTag(err, errs.TagValidation))
				return
			}

			gt.NoError(t, err)
			gt.Equal(t, mode, tc.mode)
			gt.Equal(t, opts.Bucket, tc.bucket)
			if tc.mode == deploy.ModeCreate {
				gt.Equal(t, opts.PackagePath, tc.pkgPath)
				gt.Equal(t, opts.DisplayName, deploy.DefaultDisplayName)
			}
		})
	}
}

func TestStagingURI(t *testing.T) {
	opts := deploy.Options{Bucket: "my-bucket"}
	gt.Equal(t, opts.StagingURI(), "gs://my-bucket")
}

func TestResourceName(t *testing.T) {
	gt.Equal(t,
		deploy.ResourceName("p", "us-central1", "123"),
		"projects/p/locations/us-central1/reasoningEngines/123")

	full := "projects/other/locations/europe-west1/reasoningEngines/9"
	gt.Equal(t, deploy.ResourceName("p", "us-central1", full), full)

	gt.Equal(t, deploy.ParentName("p", "l"), "projects/p/locations/l")
}

func TestRuntimeEnv(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "ROOT_AGENT_MODEL" {
			return "gemini-2.5-pro", true
		}
		return "", false
	}

	env := deploy.RuntimeEnv(lookup)
	gt.Equal(t, len(env), 1)
	gt.Equal(t, env["ROOT_AGENT_MODEL"], "gemini-2.5-pro")
	_, exists := env["ANALYTICS_AGENT_MODEL"]
	gt.False(t, exists)

	t.Run("empty but set value is omitted", func(t *testing.T) {
		env := deploy.RuntimeEnv(func(key string) (string, bool) {
			if key == "ANALYTICS_AGENT_MODEL" {
				return "gemini-2.5-flash", true
			}
			return "", true
		})
		gt.Equal(t, len(env), 1)
		gt.Equal(t, env["ANALYTICS_AGENT_MODEL"], "gemini-2.5-flash")
		_, exists := env["ROOT_AGENT_MODEL"]
		gt.False(t, exists)
	})

	t.Run("sorted names", func(t *testing.T) {
		env := map[string]string{"B": "1", "A": "2"}
		gt.A(t, deploy.SortedEnvNames(env)).Equal([]string{"A", "B"})
	})
}
