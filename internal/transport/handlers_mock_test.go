package transport

import (
	"context"
	"io"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/gin-gonic/gin"
)

type mockImageService struct {
	createFn         func(ctx context.Context, req *model.UploadRequest) (*model.Image, error)
	getListFn        func(ctx context.Context) ([]model.Image, error)
	moveToBinFn      func(ctx context.Context, id string) (*model.Image, error)
	restoreFromBinFn func(ctx context.Context, id string) (*model.Image, error)
	restoreFn        func(ctx context.Context, id string) (*model.RestoreResult, error)
	loadPreviewFn    func(ctx context.Context, id string, kind model.PreviewKind) (io.ReadCloser, string, error)
}

func (m *mockImageService) Create(ctx context.Context, req *model.UploadRequest) (*model.Image, error) {
	return m.createFn(ctx, req)
}

func (m *mockImageService) GetList(ctx context.Context) ([]model.Image, error) {
	return m.getListFn(ctx)
}

func (m *mockImageService) MoveToBin(ctx context.Context, id string) (*model.Image, error) {
	return m.moveToBinFn(ctx, id)
}

func (m *mockImageService) RestoreFromBin(ctx context.Context, id string) (*model.Image, error) {
	return m.restoreFromBinFn(ctx, id)
}

func (m *mockImageService) Restore(ctx context.Context, id string) (*model.RestoreResult, error) {
	return m.restoreFn(ctx, id)
}

func (m *mockImageService) LoadPreview(ctx context.Context, id string, kind model.PreviewKind) (io.ReadCloser, string, error) {
	return m.loadPreviewFn(ctx, id, kind)
}

func init() {
	gin.SetMode(gin.TestMode)
}
