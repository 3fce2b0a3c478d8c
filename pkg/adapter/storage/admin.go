package storage

import (
	"context"
	"errors"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/safe"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Admin manages staging buckets. Unlike Client it is not bound to a bucket.
type Admin struct {
	client *storage.Client
}

var _ interfaces.BucketClient = &Admin{}

func NewAdmin(ctx context.Context, opts ...option.ClientOption) (*Admin, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.T(errs.TagExternal))
	}
	return &Admin{client: client}, nil
}

func (x *Admin) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := x.client.Bucket(bucket).Attrs(ctx)
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to get bucket attributes",
			append(statusOptions(err), goerr.TV(errs.BucketKey, bucket))...)
	}
	return true, nil
}

func (x *Admin) CreateBucket(ctx context.Context, projectID, bucket, location string) error {
	attrs := &storage.BucketAttrs{Location: location}
	if err := x.client.Bucket(bucket).Create(ctx, projectID, attrs); err != nil {
		return goerr.Wrap(err, "failed to create bucket",
			append(statusOptions(err),
				goerr.TV(errs.BucketKey, bucket),
				goerr.TV(errs.ProjectIDKey, projectID),
				goerr.TV(errs.LocationKey, location),
			)...)
	}
	return nil
}

func (x *Admin) EnableUniformAccess(ctx context.Context, bucket string) error {
	update := storage.BucketAttrsToUpdate{
		UniformBucketLevelAccess: &storage.UniformBucketLevelAccess{Enabled: true},
	}
	if _, err := x.client.Bucket(bucket).Update(ctx, update); err != nil {
		return goerr.Wrap(err, "failed to enable uniform bucket-level access",
			append(statusOptions(err), goerr.TV(errs.BucketKey, bucket))...)
	}
	return nil
}

func (x *Admin) Upload(ctx context.Context, bucket, object string, r io.Reader) error {
	w := x.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload object",
			goerr.TV(errs.BucketKey, bucket),
			goerr.TV(errs.ObjectKey, object),
			goerr.T(errs.TagExternal),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize upload",
			append(statusOptions(err),
				goerr.TV(errs.BucketKey, bucket),
				goerr.TV(errs.ObjectKey, object),
			)...)
	}
	return nil
}

func (x *Admin) Close(ctx context.Context) {
	safe.Close(ctx, x.client)
}

// statusOptions tags an error by the HTTP status of the API response.
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
	}
	return []goerr.Option{goerr.T(tag), goerr.TV(errs.HTTPStatusKey, apiErr.Code)}
}
