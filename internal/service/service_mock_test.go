package service

import (
	"context"
	"io"
	"sync"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/wb-go/wbf/retry"
)

// MOCK RESPOSITORY

type mockRepo struct {
	createFn             func(ctx context.Context, img *model.Image) error
	getFn                func(ctx context.Context, id string) (*model.Image, error)
	getListFn            func(ctx context.Context) ([]model.Image, error)
	setBinFn             func(ctx context.Context, id string, inBin bool) (*model.Image, error)
	setRestoredFromBinFn func(ctx context.Context, id string) (*model.Image, error)
	markRestoredFn       func(ctx context.Context, id string) (*model.Image, error)
}

func (m *mockRepo) Create(ctx context.Context, img *model.Image) error {
	return m.createFn(ctx, img)
}

func (m *mockRepo) Get(ctx context.Context, id string) (*model.Image, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) GetList(ctx context.Context) ([]model.Image, error) {
	return m.getListFn(ctx)
}

func (m *mockRepo) SetBin(ctx context.Context, id string, inBin bool) (*model.Image, error) {
	return m.setBinFn(ctx, id, inBin)
}

func (m *mockRepo) SetRestoredFromBin(ctx context.Context, id string) (*model.Image, error) {
	return m.setRestoredFromBinFn(ctx, id)
}

func (m *mockRepo) MarkRestored(ctx context.Context, id string) (*model.Image, error) {
	return m.markRestoredFn(ctx, id)
}

// IN-MEMORY REPOSITORY - для сценарных тестов

type memRepo struct {
	mu     sync.Mutex
	images map[string]*model.Image
	order  []string
}

func newMemRepo() *memRepo {
	return &memRepo{images: make(map[string]*model.Image)}
}

func (m *memRepo) Create(_ context.Context, img *model.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *img
	m.images[img.ID] = &cp
	m.order = append(m.order, img.ID)
	return nil
}

func (m *memRepo) Get(_ context.Context, id string) (*model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return nil, model.ErrImageNotFound
	}
	cp := *img
	return &cp, nil
}

func (m *memRepo) GetList(_ context.Context) ([]model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]model.Image, 0, len(m.order))
	for _, id := range m.order {
		res = append(res, *m.images[id])
	}
	return res, nil
}

func (m *memRepo) update(id string, fn func(img *model.Image)) (*model.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[id]
	if !ok {
		return nil, model.ErrImageNotFound
	}
	fn(img)
	cp := *img
	return &cp, nil
}

func (m *memRepo) SetBin(_ context.Context, id string, inBin bool) (*model.Image, error) {
	return m.update(id, func(img *model.Image) { img.InBin = inBin })
}

func (m *memRepo) SetRestoredFromBin(_ context.Context, id string) (*model.Image, error) {
	return m.update(id, func(img *model.Image) {
		img.InBin = false
		img.RestoredFromBin = true
	})
}

func (m *memRepo) MarkRestored(_ context.Context, id string) (*model.Image, error) {
	return m.update(id, func(img *model.Image) { img.RestoredFromBin = true })
}

// MOCK RESTORER

type mockRestorer struct {
	calls     int
	restoreFn func(ctx context.Context, mimeType string, data []byte) (string, error)
}

func (m *mockRestorer) Restore(ctx context.Context, mimeType string, data []byte) (string, error) {
	m.calls++
	return m.restoreFn(ctx, mimeType, data)
}

// MOCK STORAGE

type mockStorage struct {
	putFn func(ctx context.Context, key string, size int64, ct string, r io.Reader) error
	getFn func(ctx context.Context, key string) (io.ReadCloser, string, error)
}

func (m *mockStorage) Put(ctx context.Context, key string, size int64, ct string, r io.Reader) error {
	return m.putFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return m.getFn(ctx, key)
}

// MOCK PUBLISHER

type mockPublisher struct {
	sendFn func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error
}

func (m *mockPublisher) SendWithRetry(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
	return m.sendFn(ctx, s, key, v)
}
