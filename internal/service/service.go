// Package service provides business-logic for the app
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/UnendingLoop/PixelVault/internal/mwlogger"
	"github.com/UnendingLoop/PixelVault/internal/repository"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
)

type ImageService struct {
	repo             repository.ImageRepo
	restorer         Restorer
	publisher        EventPublisher
	storage          ImageStorage
	previewKeyPrefix string
	thumbKeyPrefix   string
}

func NewImageService(imgRep repository.ImageRepo, rst Restorer, pub EventPublisher, strg ImageStorage, previewPrefix, thumbPrefix string) *ImageService {
	return &ImageService{
		repo:             imgRep,
		restorer:         rst,
		publisher:        pub,
		storage:          strg,
		previewKeyPrefix: previewPrefix,
		thumbKeyPrefix:   thumbPrefix,
	}
}

// Restorer - контракт внешнего AI-сервиса: картинка и mime на вход, base64/текст на выход
type Restorer interface {
	Restore(ctx context.Context, mimeType string, data []byte) (string, error)
}

// EventPublisher - контракт для работы с очередью
type EventPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// ImageStorage - контракт для работы с хранилищем
type ImageStorage interface {
	Get(ctx context.Context, key string) (output io.ReadCloser, ctype string, err error)
	Put(ctx context.Context, key string, size int64, contentType string, r io.Reader) error
}

// Стратегия ретрая отправки событий: запрос не должен висеть долго, если кафка лежит
var retryStrategy = retry.Strategy{
	Attempts: 3,
	Delay:    200 * time.Millisecond,
	Backoff:  2,
}

func (c ImageService) Create(ctx context.Context, req *model.UploadRequest) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	newImage, err := validateNormalizeUpload(req)
	if err != nil {
		return nil, err
	}

	newImage.ID = uuid.NewString()
	newImage.Uploaded = time.Now().UTC()

	if err := c.repo.Create(ctx, newImage); err != nil {
		logger.Error().Err(err).Msg("Failed to create image in DB")
		return nil, model.ErrCommon500
	}

	c.publish(ctx, newImage.ID, model.EventUploaded)
	return newImage, nil
}

func (c ImageService) GetList(ctx context.Context) ([]model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	res, err := c.repo.GetList(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch all images list from DB")
		return nil, model.ErrCommon500
	}

	return res, nil
}

func (c ImageService) Get(ctx context.Context, id string) (*model.Image, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	res, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, c.storeError(ctx, err, fmt.Sprintf("Failed to fetch image %q from DB", id))
	}

	return res, nil
}

func (c ImageService) MoveToBin(ctx context.Context, id string) (*model.Image, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	res, err := c.repo.SetBin(ctx, id, true)
	if err != nil {
		return nil, c.storeError(ctx, err, fmt.Sprintf("Failed to move image %q to bin", id))
	}

	c.publish(ctx, id, model.EventBinned)
	return res, nil
}

func (c ImageService) RestoreFromBin(ctx context.Context, id string) (*model.Image, error) {
	id, err := normalizeID(id)
	if err != nil {
		return nil, err
	}

	res, err := c.repo.SetRestoredFromBin(ctx, id)
	if err != nil {
		return nil, c.storeError(ctx, err, fmt.Sprintf("Failed to restore image %q from bin", id))
	}

	c.publish(ctx, id, model.EventRestoredFromBin)
	return res, nil
}

// Restore - AI-восстановление. Уже восстановленная из корзины картинка
// в модель не уходит, отдаем пустой холст.
func (c ImageService) Restore(ctx context.Context, id string) (*model.RestoreResult, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	img, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if img.RestoredFromBin {
		return &model.RestoreResult{BlankCanvas: true}, nil
	}

	mimeType, payload, err := DecodeDataURI(img.Src)
	if err != nil {
		logger.Warn().Err(err).Str("image_id", img.ID).Msg("Stored image source is not a valid data URI")
		return nil, model.ErrBadDataURI
	}

	restored, err := c.restorer.Restore(ctx, mimeType, payload)
	if err != nil {
		logger.Error().Err(err).Str("image_id", img.ID).Msg("Generative model failed to restore image")
		return nil, model.ErrUpstream
	}
	if strings.TrimSpace(restored) == "" {
		logger.Error().Str("image_id", img.ID).Msg("Generative model returned empty result")
		return nil, model.ErrUpstream
	}

	// флаг ставим только для картинок, лежавших в корзине на момент чтения
	if img.InBin {
		if _, err := c.repo.MarkRestored(ctx, img.ID); err != nil {
			return nil, c.storeError(ctx, err, fmt.Sprintf("Failed to mark image %q as restored", img.ID))
		}
	}

	c.publish(ctx, img.ID, model.EventAIRestored)
	return &model.RestoreResult{RestoredImage: restored}, nil
}

// LoadPreview отдает отрендеренное воркером превью из хранилища
func (c ImageService) LoadPreview(ctx context.Context, id string, kind model.PreviewKind) (io.ReadCloser, string, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	prefix, err := c.previewPrefix(kind)
	if err != nil {
		return nil, "", err
	}

	img, err := c.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, cType, err := c.storage.Get(ctx, PreviewObjectKey(prefix, img.ID))
	if err != nil {
		if errors.Is(err, model.ErrPreviewNotReady) {
			return nil, "", model.ErrPreviewNotReady
		}
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch %s of image %q from Storage", kind, img.ID))
		return nil, "", model.ErrCommon500
	}
	return data, cType, nil
}

func (c ImageService) previewPrefix(kind model.PreviewKind) (string, error) {
	switch kind {
	case "", model.PreviewPixelated:
		return c.previewKeyPrefix, nil
	case model.PreviewThumb:
		return c.thumbKeyPrefix, nil
	default:
		return "", model.ErrIncorrectKind
	}
}

// storeError: 404 пробрасываем как есть, остальное логируем и прячем за 500
func (c ImageService) storeError(ctx context.Context, err error, msg string) error {
	if errors.Is(err, model.ErrImageNotFound) {
		return model.ErrImageNotFound
	}
	logger := mwlogger.LoggerFromContext(ctx)
	logger.Error().Err(err).Msg(msg)
	return model.ErrCommon500
}

// publish - запись уже в базе, поэтому сбой очереди только логируем
func (c ImageService) publish(ctx context.Context, id string, evType model.EventType) {
	if c.publisher == nil {
		return
	}
	logger := mwlogger.LoggerFromContext(ctx)

	body, err := json.Marshal(model.Event{ImageID: id, Type: evType, At: time.Now().UTC()})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal lifecycle event")
		return
	}

	if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(id), body); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish %q event for image %q", evType, id))
	}
}
