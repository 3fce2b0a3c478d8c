package storage_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
	"github.com/secmon-lab/analytics-agent/pkg/utils/test"
)

func TestClient(t *testing.T) {
	vars := test.NewEnvVars(t, "TEST_STORAGE_BUCKET")
	bucket := vars.Get("TEST_STORAGE_BUCKET")
	prefix := "test-" + time.Now().Format("20060102150405") + "/"

	ctx := context.Background()
	client, err := storage.New(ctx, bucket)
	gt.NoError(t, err).Required()
	defer client.Close(ctx)

	objectName := prefix + "test.txt"

	w := client.PutObject(ctx, objectName)
	_, err = w.Write([]byte("test data"))
	gt.NoError(t, err).Required()
	gt.NoError(t, w.Close())

	rc, err := client.GetObject(ctx, objectName)
	gt.NoError(t, err).Required()
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	gt.NoError(t, err)
	gt.Equal(t, string(data), "test data")

	names, err := client.ListObjects(ctx, prefix)
	gt.NoError(t, err)
	gt.A(t, names).Equal([]string{objectName})

	_, err = client.GetObject(ctx, prefix+"missing")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
}
