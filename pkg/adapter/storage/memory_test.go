package storage_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/analytics-agent/pkg/adapter/storage"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

func put(t *testing.T, client *storage.MemoryClient, name string, data []byte) {
	t.Helper()
	w := client.PutObject(context.Background(), name)
	_, err := w.Write(data)
	gt.NoError(t, err).Required()
	gt.NoError(t, w.Close())
}

func TestMemoryClient(t *testing.T) {
	ctx := context.Background()

	t.Run("object is visible only after close", func(t *testing.T) {
		client := storage.NewMemoryClient()
		w := client.PutObject(ctx, "a/plot.png")
		_, err := w.Write([]byte("png"))
		gt.NoError(t, err)

		_, err = client.GetObject(ctx, "a/plot.png")
		gt.Error(t, err)

		gt.NoError(t, w.Close())
		rc, err := client.GetObject(ctx, "a/plot.png")
		gt.NoError(t, err).Required()
		defer func() { _ = rc.Close() }()

		data, err := io.ReadAll(rc)
		gt.NoError(t, err)
		gt.Equal(t, string(data), "png")
	})

	t.Run("missing object is tagged not found", func(t *testing.T) {
		client := storage.NewMemoryClient()
		_, err := client.GetObject(ctx, "nothing")
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		client := storage.NewMemoryClient()
		put(t, client, "k", []byte("first"))
		put(t, client, "k", []byte("second"))

		rc, err := client.GetObject(ctx, "k")
		gt.NoError(t, err).Required()
		data, err := io.ReadAll(rc)
		gt.NoError(t, err)
		gt.Equal(t, string(data), "second")
	})

	t.Run("write after close fails and double close is fine", func(t *testing.T) {
		client := storage.NewMemoryClient()
		w := client.PutObject(ctx, "closed")
		gt.NoError(t, w.Close())
		gt.NoError(t, w.Close())

		_, err := w.Write([]byte("late"))
		gt.Error(t, err)
	})

	t.Run("list by prefix is sorted", func(t *testing.T) {
		client := storage.NewMemoryClient()
		put(t, client, "s1/artifacts/b.png", []byte("b"))
		put(t, client, "s1/artifacts/a.png", []byte("a"))
		put(t, client, "s2/artifacts/c.png", []byte("c"))

		names, err := client.ListObjects(ctx, "s1/")
		gt.NoError(t, err)
		gt.A(t, names).Equal([]string{"s1/artifacts/a.png", "s1/artifacts/b.png"})

		names, err = client.ListObjects(ctx, "none/")
		gt.NoError(t, err)
		gt.A(t, names).Length(0)
	})
}

func TestMemoryClientConcurrentWrites(t *testing.T) {
	client := storage.NewMemoryClient()
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := client.PutObject(ctx, fmt.Sprintf("obj-%d", i))
			_, _ = w.Write([]byte(fmt.Sprintf("data-%d", i)))
			_ = w.Close()
		}()
	}
	wg.Wait()

	names, err := client.ListObjects(ctx, "obj-")
	gt.NoError(t, err)
	gt.A(t, names).Length(n)
}
