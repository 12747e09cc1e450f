package worker

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/UnendingLoop/PixelVault/internal/model"
	kafkago "github.com/segmentio/kafka-go"
)

type mockWorkerService struct {
	getFn func(ctx context.Context, id string) (*model.Image, error)
}

func (m *mockWorkerService) Get(ctx context.Context, id string) (*model.Image, error) {
	return m.getFn(ctx, id)
}

//----------------------------------

type mockStorage struct {
	mu    sync.Mutex
	puts  map[string][]byte
	putFn func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
}

func newMockStorage() *mockStorage {
	return &mockStorage{puts: make(map[string][]byte)}
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.puts[key]
	if !ok {
		return nil, "", model.ErrPreviewNotReady
	}
	return io.NopCloser(bytes.NewReader(data)), model.PNG, nil
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	if m.putFn != nil {
		return m.putFn(ctx, key, size, ct, r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts[key] = data
	return nil
}

//----------------------------------

type commitRecorder struct {
	mu        sync.Mutex
	committed []kafkago.Message
}

func (c *commitRecorder) commit(ctx context.Context, msg kafkago.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.committed = append(c.committed, msg)
	return nil
}

func (c *commitRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.committed)
}
