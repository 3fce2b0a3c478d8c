package storage

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/safe"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Client is a StorageClient bound to a single GCS bucket.
type Client struct {
	client *storage.Client
	bucket string
}

var _ interfaces.StorageClient = &Client{}

func New(ctx context.Context, bucket string, opts ...option.ClientOption) (*Client, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.T(errs.TagExternal))
	}

	return &Client{
		client: client,
		bucket: bucket,
	}, nil
}

func (x *Client) PutObject(ctx context.Context, object string) io.WriteCloser {
	return x.client.Bucket(x.bucket).Object(object).NewWriter(ctx)
}

func (x *Client) GetObject(ctx context.Context, object string) (io.ReadCloser, error) {
	rc, err := x.client.Bucket(x.bucket).Object(object).NewReader(ctx)
	if err != nil {
		opts := []goerr.Option{
			goerr.TV(errs.BucketKey, x.bucket),
			goerr.TV(errs.ObjectKey, object),
		}
		if errors.Is(err, storage.ErrObjectNotExist) {
			opts = append(opts, goerr.T(errs.TagNotFound))
		}
		return nil, goerr.Wrap(err, "failed to create reader", opts...)
	}

	return rc, nil
}

// ListObjects returns object names under prefix in lexical order.
func (x *Client) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	it := x.client.Bucket(x.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list objects",
				goerr.TV(errs.BucketKey, x.bucket),
				goerr.V("prefix", prefix),
				goerr.T(errs.TagExternal),
			)
		}
		names = append(names, attrs.Name)
	}

	return names, nil
}

func (x *Client) Close(ctx context.Context) {
	safe.Close(ctx, x.client)
}
