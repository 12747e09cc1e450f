// Package miniostorage provides structure to work with minio-storage
package miniostorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/config"
)

type Config struct {
	Endpoint string
	User     string
	Pass     string
	Bucket   string
	Secure   bool
}

func ConfigFromEnv(cfg *config.Config) Config {
	bucket := cfg.GetString("BUCKET_NAME")
	if bucket == "" {
		bucket = "previews"
		log.Printf("Bucket name is empty. Using default value %q...", bucket)
	}

	return Config{
		Endpoint: cfg.GetString("MINIO_CONTAINER_NAME") + ":9000",
		User:     cfg.GetString("MINIO_USER"),
		Pass:     cfg.GetString("MINIO_PASS"),
		Bucket:   bucket,
	}
}

type MinioImageStorage struct {
	bucket string
	client *minio.Client
}

func NewMinioClient(ctx context.Context, cfg Config) (*MinioImageStorage, error) {
	// подключаемся к минио - создаем клиента
	strg, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Pass, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, err
	}

	// создаем бакет если его нет
	if err := ensureBucket(ctx, strg, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket %q in MinIO: %w", cfg.Bucket, err)
	}

	return &MinioImageStorage{bucket: cfg.Bucket, client: strg}, nil
}

func (s *MinioImageStorage) Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader passed to storage.Put")
	}

	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return err
	}

	return nil
}

// Get: отсутствующий объект - это еще не отрендеренное превью
func (s *MinioImageStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	res, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", mapMinioErr(err)
	}

	resStat, err := res.Stat()
	if err != nil {
		if cErr := res.Close(); cErr != nil {
			log.Println("Failed to close minio object after failed stat:", cErr)
		}
		return nil, "", mapMinioErr(err)
	}

	return res, resStat.ContentType, nil
}

func mapMinioErr(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %v", model.ErrPreviewNotReady, err)
	default:
		return err
	}
}

func ensureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
}
