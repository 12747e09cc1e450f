package main

import (
	"context"

	"github.com/UnendingLoop/PixelVault/internal/model"
)

// ImageWorkerService - воркеру из сервиса нужно только чтение записи
type ImageWorkerService interface {
	Get(ctx context.Context, id string) (*model.Image, error)
}
