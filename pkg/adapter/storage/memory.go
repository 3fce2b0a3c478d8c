package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/analytics-agent/pkg/domain/interfaces"
	"github.com/secmon-lab/analytics-agent/pkg/domain/model/errs"
)

// MemoryClient keeps objects in process memory. Used by the local chat runner
// when no bucket is configured, and by tests.
type MemoryClient struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.StorageClient = &MemoryClient{}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryClient) PutObject(ctx context.Context, object string) io.WriteCloser {
	return &memoryWriter{client: m, object: object}
}

func (m *MemoryClient) GetObject(ctx context.Context, object string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[object]
	if !ok {
		return nil, goerr.New("object not found",
			goerr.TV(errs.ObjectKey, object),
			goerr.T(errs.TagNotFound),
		)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MemoryClient) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryClient) Close(ctx context.Context) {}

// memoryWriter commits its buffer on Close, like a GCS object writer.
type memoryWriter struct {
	client *MemoryClient
	object string
	buffer bytes.Buffer
	closed bool
	mu     sync.Mutex
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, goerr.New("writer is closed", goerr.TV(errs.ObjectKey, w.object))
	}
	return w.buffer.Write(p)
}

func (w *memoryWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	w.client.mu.Lock()
	w.client.objects[w.object] = append([]byte{}, w.buffer.Bytes()...)
	w.client.mu.Unlock()

	return nil
}
