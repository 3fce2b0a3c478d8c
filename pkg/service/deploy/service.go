// Package deploy publishes the agent package to Vertex AI Agent Engine and
// removes published engines.
package deploy

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/clock"
	"github.com/secmon-lab/analytics-agent/pkg/utils/dryrun"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	"github.com/secmon-lab/analytics-agent/pkg/utils/msg"
	"github.com/secmon-lab/analytics-agent/pkg/utils/safe"
)

const stagingDir = "agent_engine"

type Service struct {
	buckets interfaces.BucketClient
	engines interfaces.AgentEngineClient
	lookup  deploy.LookupFunc
}

type Option func(*Service)

// WithLookupEnv replaces os.LookupEnv as the source of runtime env vars.
func WithLookupEnv(lookup deploy.LookupFunc) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}

func New(buckets interfaces.BucketClient, engines interfaces.AgentEngineClient, opts ...Option) *Service {
	s := &Service{
		buckets: buckets,
		engines: engines,
		lookup:  os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureStagingBucket creates the staging bucket with uniform bucket-level
// access unless it already exists. A conflict on creation means the name is
// taken, possibly by this caller in another project, and is only warned about.
func (s *Service) EnsureStagingBucket(ctx context.Context, opts *deploy.Options) (string, error) {
	logger := logging.From(ctx).With("bucket", opts.Bucket)
	uri := opts.StagingURI()

	exists, err := s.buckets.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return "", wrapBucketError(err, opts.Bucket)
	}
	if exists {
		logger.Info("staging bucket already exists", "uri", uri)
		return uri, nil
	}

	if dryrun.From(ctx) {
		logger.Info("[dry-run] would create staging bucket", "uri", uri, "location", opts.Location)
		return uri, nil
	}

	logger.Info("creating staging bucket", "uri", uri, "location", opts.Location)
	if err := s.buckets.CreateBucket(ctx, opts.ProjectID, opts.Bucket, opts.Location); err != nil {
		if goerr.HasTag(err, errs.TagConflict) {
			logger.Warn("bucket likely exists but is owned by another project or was recently deleted, proceeding assuming access", "uri", uri)
			return uri, nil
		}
		return "", wrapBucketError(err, opts.Bucket)
	}

	if err := s.buckets.EnableUniformAccess(ctx, opts.Bucket); err != nil {
		return "", wrapBucketError(err, opts.Bucket)
	}
	logger.Info("created staging bucket with uniform bucket-level access", "uri", uri)

	return uri, nil
}

func wrapBucketError(err error, bucket string) error {
	if goerr.HasTag(err, errs.TagForbidden) {
		return goerr.Wrap(err, "permission denied for staging bucket, ensure the caller has the 'Storage Admin' role",
			goerr.TV(errs.BucketKey, bucket))
	}
	return goerr.Wrap(err, "failed to create or access staging bucket", goerr.TV(errs.BucketKey, bucket))
}

// CreateAgent uploads the package and manifest to the staging bucket and
// registers a reasoning engine that runs them.
func (s *Service) CreateAgent(ctx context.Context, opts *deploy.Options, manifest *deploy.Manifest) (*deploy.Engine, error) {
	logger := logging.From(ctx)

	pkg, err := os.Open(opts.PackagePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(errs.ErrPackageNotFound, "build the agent package in the working directory first",
				goerr.TV(errs.FilePathKey, opts.PackagePath),
				goerr.T(errs.TagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to open agent package", goerr.TV(errs.FilePathKey, opts.PackagePath))
	}
	defer safe.Close(ctx, pkg)

	manifestData, err := manifest.Marshal()
	if err != nil {
		return nil, err
	}

	dir := path.Join(stagingDir, clock.Now(ctx).UTC().Format("20060102-150405"))
	pkgObject := path.Join(dir, filepath.Base(opts.PackagePath))
	manifestObject := path.Join(dir, "manifest.yaml")

	spec := &deploy.EngineSpec{
		DisplayName: opts.DisplayName,
		Description: manifest.Root.Name + " with sub-agents",
		PackageURI:  opts.StagingURI() + "/" + pkgObject,
		ManifestURI: opts.StagingURI() + "/" + manifestObject,
		Env:         deploy.RuntimeEnv(s.lookup),
	}

	logger.Info("deploying agent package",
		"package", opts.PackagePath,
		"package_uri", spec.PackageURI,
		"env", deploy.SortedEnvNames(spec.Env),
	)

	if dryrun.From(ctx) {
		logger.Info("[dry-run] would upload package and create reasoning engine", "display_name", spec.DisplayName)
		return &deploy.Engine{DisplayName: spec.DisplayName}, nil
	}

	if err := s.buckets.Upload(ctx, opts.Bucket, pkgObject, pkg); err != nil {
		return nil, goerr.Wrap(err, "failed to upload agent package", goerr.TV(errs.FilePathKey, opts.PackagePath))
	}
	if err := s.buckets.Upload(ctx, opts.Bucket, manifestObject, bytes.NewReader(manifestData)); err != nil {
		return nil, goerr.Wrap(err, "failed to upload agent manifest")
	}

	engine, err := s.engines.CreateEngine(ctx, deploy.ParentName(opts.ProjectID, opts.Location), spec)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create remote agent", goerr.TV(errs.ProjectIDKey, opts.ProjectID))
	}

	logger.Info("created remote agent", "resource_name", engine.Name)
	msg.Notify(ctx, "Successfully created agent: %s", engine.Name)
	return engine, nil
}

// DeleteAgent force-deletes the engine, including sessions it still holds.
func (s *Service) DeleteAgent(ctx context.Context, opts *deploy.Options) error {
	name := deploy.ResourceName(opts.ProjectID, opts.Location, opts.ResourceID)
	logger := logging.From(ctx).With("resource_name", name)

	logger.Info("attempting to delete agent")
	if _, err := s.engines.GetEngine(ctx, name); err != nil {
		if goerr.HasTag(err, errs.TagNotFound) {
			msg.Notify(ctx, "Agent not found: %s", opts.ResourceID)
		}
		return goerr.Wrap(err, "failed to look up agent", goerr.TV(errs.ResourceKey, name))
	}

	if dryrun.From(ctx) {
		logger.Info("[dry-run] would delete agent")
		return nil
	}

	if err := s.engines.DeleteEngine(ctx, name, true); err != nil {
		if goerr.HasTag(err, errs.TagNotFound) {
			msg.Notify(ctx, "Agent not found: %s", opts.ResourceID)
		}
		return goerr.Wrap(err, "failed to delete agent", goerr.TV(errs.ResourceKey, name))
	}

	logger.Info("deleted remote agent")
	msg.Notify(ctx, "Successfully deleted agent: %s", opts.ResourceID)
	return nil
}

// Run validates opts and performs the selected mode. Nothing remote is
// touched when validation fails.
func (s *Service) Run(ctx context.Context, opts *deploy.Options, manifest *deploy.Manifest) error {
	mode, err := opts.Validate()
	if err != nil {
		return err
	}

	logging.From(ctx).Info("deploy settings",
		"project_id", opts.ProjectID,
		"location", opts.Location,
		"bucket", opts.Bucket,
		"mode", mode,
	)

	switch mode {
	case deploy.ModeCreate:
		if _, err := s.EnsureStagingBucket(ctx, opts); err != nil {
			return err
		}
		_, err := s.CreateAgent(ctx, opts, manifest)
		return err

	case deploy.ModeDelete:
		return s.DeleteAgent(ctx, opts)

	default:
		return goerr.New("unknown deploy mode", goerr.V("mode", mode), goerr.T(errs.TagInternal))
	}
}
