package main

import (
	"context"
	"io"

	"github.com/UnendingLoop/PixelVault/internal/model"
)

type ImageAPIService interface {
	Create(ctx context.Context, req *model.UploadRequest) (*model.Image, error)
	GetList(ctx context.Context) ([]model.Image, error)
	MoveToBin(ctx context.Context, id string) (*model.Image, error)
	RestoreFromBin(ctx context.Context, id string) (*model.Image, error)
	Restore(ctx context.Context, id string) (*model.RestoreResult, error)
	LoadPreview(ctx context.Context, id string, kind model.PreviewKind) (io.ReadCloser, string, error)
}
