// Package storage provides connection to the object storage with previews
package storage

import (
	"context"
	"log"
	"time"

	"github.com/UnendingLoop/PixelVault/internal/storage/miniostorage"
	"github.com/wb-go/wbf/config"
)

// NewImgStorage ждет хранилище до отмены контекста; nil - если так и не дождались
func NewImgStorage(ctx context.Context, cfg *config.Config, delay time.Duration) *miniostorage.MinioImageStorage {
	for {
		log.Println("Connecting to IMG-storage...")
		client, err := miniostorage.NewMinioClient(ctx, miniostorage.ConfigFromEnv(cfg))
		if err == nil {
			log.Println("Successfully connected IMG-storage!")
			return client
		}
		log.Printf("Failed to init connection to IMG-storage: %v\nNext retry in %v...", err, delay)

		select {
		case <-ctx.Done():
			log.Println("IMG-storage connection canceled")
			return nil
		case <-time.After(delay):
		}
	}
}
