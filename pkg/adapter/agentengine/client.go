// Package agentengine manages reasoning engines on Vertex AI Agent Engine.
package agentengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/logging"
	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

const defaultPollInterval = 5 * time.Second

// ManifestEnvName tells the deployed runtime where its agent manifest is.
const ManifestEnvName = "ANALYTICS_AGENT_MANIFEST_URI"

type Client struct {
	engines      *aiplatform.ProjectsLocationsReasoningEnginesService
	pollInterval time.Duration
}

var _ interfaces.AgentEngineClient = &Client{}

type Option func(*Client)

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// Endpoint is the regional API endpoint. Agent Engine is not served from the
// global endpoint.
func Endpoint(location string) string {
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/", location)
}

// New creates a client for location. Pass option.WithEndpoint to override the
// regional endpoint.
func New(ctx context.Context, location string, clientOpts []option.ClientOption, opts ...Option) (*Client, error) {
	clientOpts = append([]option.ClientOption{option.WithEndpoint(Endpoint(location))}, clientOpts...)
	svc, err := aiplatform.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create aiplatform service",
			goerr.TV(errs.LocationKey, location),
			goerr.T(errs.TagExternal),
		)
	}

	c := &Client{
		engines:      svc.Projects.Locations.ReasoningEngines,
		pollInterval: defaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (x *Client) CreateEngine(ctx context.Context, parent string, spec *deploy.EngineSpec) (*deploy.Engine, error) {
	vars := maps.Clone(spec.Env)
	if vars == nil {
		vars = map[string]string{}
	}
	if spec.ManifestURI != "" {
		vars[ManifestEnvName] = spec.ManifestURI
	}

	env := make([]*aiplatform.GoogleCloudAiplatformV1EnvVar, 0, len(vars))
	for _, name := range deploy.SortedEnvNames(vars) {
		env = append(env, &aiplatform.GoogleCloudAiplatformV1EnvVar{
			Name:  name,
			Value: vars[name],
		})
	}

	req := &aiplatform.GoogleCloudAiplatformV1ReasoningEngine{
		DisplayName: spec.DisplayName,
		Description: spec.Description,
		Spec: &aiplatform.GoogleCloudAiplatformV1ReasoningEngineSpec{
			PackageSpec: &aiplatform.GoogleCloudAiplatformV1ReasoningEngineSpecPackageSpec{
				DependencyFilesGcsUri: spec.PackageURI,
			},
			DeploymentSpec: &aiplatform.GoogleCloudAiplatformV1ReasoningEngineSpecDeploymentSpec{
				Env: env,
			},
		},
	}

	op, err := x.engines.Create(parent, req).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create reasoning engine",
			append(statusOptions(err), goerr.V("parent", parent))...)
	}

	logging.From(ctx).Info("waiting for reasoning engine creation", "operation", op.Name)
	done, err := x.wait(ctx, op)
	if err != nil {
		return nil, err
	}

	var created aiplatform.GoogleCloudAiplatformV1ReasoningEngine
	if err := json.Unmarshal(done.Response, &created); err != nil {
		return nil, goerr.Wrap(err, "failed to decode created reasoning engine",
			goerr.V("operation", done.Name),
			goerr.T(errs.TagExternal),
		)
	}

	return toEngine(&created), nil
}

func (x *Client) GetEngine(ctx context.Context, name string) (*deploy.Engine, error) {
	engine, err := x.engines.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get reasoning engine",
			append(statusOptions(err), goerr.TV(errs.ResourceKey, name))...)
	}
	return toEngine(engine), nil
}

// DeleteEngine deletes name and, with force, every session and memory it
// owns. It waits for the deletion to complete.
func (x *Client) DeleteEngine(ctx context.Context, name string, force bool) error {
	op, err := x.engines.Delete(name).Force(force).Context(ctx).Do()
	if err != nil {
		return goerr.Wrap(err, "failed to delete reasoning engine",
			append(statusOptions(err), goerr.TV(errs.ResourceKey, name))...)
	}

	if _, err := x.wait(ctx, op); err != nil {
		return goerr.Wrap(err, "reasoning engine deletion failed", goerr.TV(errs.ResourceKey, name))
	}
	return nil
}

func (x *Client) wait(ctx context.Context, op *aiplatform.GoogleLongrunningOperation) (*aiplatform.GoogleLongrunningOperation, error) {
	ticker := time.NewTicker(x.pollInterval)
	defer ticker.Stop()

	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, goerr.Wrap(ctx.Err(), "interrupted while waiting for operation", goerr.V("operation", op.Name))
		case <-ticker.C:
		}

		next, err := x.engines.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to poll operation",
				append(statusOptions(err), goerr.V("operation", op.Name))...)
		}
		op = next
		logging.From(ctx).Debug("polled operation", "operation", op.Name, "done", op.Done)
	}

	if op.Error != nil {
		return nil, goerr.New(op.Error.Message,
			goerr.V("operation", op.Name),
			goerr.V("code", op.Error.Code),
			rpcTag(codes.Code(op.Error.Code)),
		)
	}
	return op, nil
}

func toEngine(e *aiplatform.GoogleCloudAiplatformV1ReasoningEngine) *deploy.Engine {
	engine := &deploy.Engine{
		Name:        e.Name,
		DisplayName: e.DisplayName,
	}
	if t, err := time.Parse(time.RFC3339Nano, e.CreateTime); err == nil {
		engine.CreateTime = t
	}
	return engine
}

func statusOptions(err error) []goerr.Option {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return []goerr.Option{goerr.T(errs.TagExternal)}
	}

	tag := errs.TagExternal
	switch apiErr.Code {
	case http.StatusNotFound:
		tag = errs.TagNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		tag = errs.TagForbidden
	case http.StatusConflict:
		tag = errs.TagConflict
	case http.StatusBadRequest:
		tag = errs.TagValidation
	}
	return []goerr.Option{goerr.T(tag), goerr.TV(errs.HTTPStatusKey, apiErr.Code)}
}

func rpcTag(code codes.Code) goerr.Option {
	switch code {
	case codes.NotFound:
		return goerr.T(errs.TagNotFound)
	case codes.PermissionDenied, codes.Unauthenticated:
		return goerr.T(errs.TagForbidden)
	case codes.AlreadyExists, codes.Aborted:
		return goerr.T(errs.TagConflict)
	case codes.InvalidArgument, codes.FailedPrecondition:
		return goerr.T(errs.TagValidation)
	default:
		return goerr.T(errs.TagExternal)
	}
}
