package interfaces

import (
	"context"
	"io"

	"github.com/secmon-lab/analytics-agent/pkg/domain/model/deploy"
)

// BucketClient administers staging buckets.
type BucketClient interface {
	// BucketExists returns false without error when the bucket is missing.
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, projectID, bucket, location string) error
	EnableUniformAccess(ctx context.Context, bucket string) error
	Upload(ctx context.Context, bucket, object string, r io.Reader) error
}

// AgentEngineClient manages remote deployments on the managed agent runtime.
type AgentEngineClient interface {
	CreateEngine(ctx context.Context, parent string, spec *deploy.EngineSpec) (*deploy.Engine, error)
	GetEngine(ctx context.Context, name string) (*deploy.Engine, error)
	DeleteEngine(ctx context.Context, name string, force bool) error
}
