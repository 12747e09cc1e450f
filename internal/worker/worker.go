// Package worker contains the consumer of image lifecycle events that renders previews
package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/UnendingLoop/PixelVault/internal/imageproc"
	"github.com/UnendingLoop/PixelVault/internal/kafka"
	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/UnendingLoop/PixelVault/internal/mwlogger"
	"github.com/UnendingLoop/PixelVault/internal/service"
	"github.com/disintegration/imaging"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
)

var (
	errUndecodable = errors.New("image payload can not be decoded")
	errBadEvent    = errors.New("malformed lifecycle event")
)

type ImageWorkerService interface {
	Get(ctx context.Context, id string) (*model.Image, error)
}

// CommitFunc подтверждает сообщение в очереди
type CommitFunc func(ctx context.Context, msg kafkago.Message) error

type Worker struct {
	storage       service.ImageStorage
	service       ImageWorkerService
	queue         <-chan kafkago.Message
	commit        CommitFunc
	previewPrefix string
	thumbPrefix   string
}

func NewWorkerInstance(strg service.ImageStorage, svc ImageWorkerService, q <-chan kafkago.Message, commit CommitFunc, previewPrefix, thumbPrefix string) *Worker {
	return &Worker{
		storage:       strg,
		service:       svc,
		queue:         q,
		commit:        commit,
		previewPrefix: previewPrefix,
		thumbPrefix:   thumbPrefix,
	}
}

func (w *Worker) StartWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-w.queue:
			if !ok {
				log.Println("Queue channel closed, stopping worker...")
				return
			}
			w.handleMessage(ctx, msg)
		}
	}
}

// handleMessage: временные сбои (хранилище, база) оставляют сообщение незакоммиченным,
// битые события и картинки коммитим, чтобы не крутить их бесконечно
func (w *Worker) handleMessage(ctx context.Context, msg kafkago.Message) {
	logger := zlog.Logger.With().Str("key", string(msg.Key)).Int64("offset", msg.Offset).Logger()
	ctx = mwlogger.WithLogger(ctx, logger)

	ev, err := kafka.DecodeEvent(msg)
	if err != nil {
		err = fmt.Errorf("%w: %v", errBadEvent, err)
	} else {
		err = w.processEvent(ctx, ev)
	}

	if err != nil && !isPermanent(err) {
		logger.Error().Err(err).Msg("Task failed, leaving message uncommitted")
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Dropping unprocessable event")
	}

	if err := w.commit(ctx, msg); err != nil {
		logger.Error().Err(err).Msg("Failed to commit queue-message")
	}
}

func (w *Worker) processEvent(ctx context.Context, ev *model.Event) error {
	if ev.Type != model.EventUploaded {
		return nil
	}

	img, err := w.service.Get(ctx, ev.ImageID)
	if err != nil {
		return fmt.Errorf("worker failed to fetch image info %q from DB: %w", ev.ImageID, err)
	}

	_, payload, err := service.DecodeDataURI(img.Src)
	if err != nil {
		return err
	}

	return w.renderPreviews(ctx, img, payload)
}

func (w *Worker) renderPreviews(ctx context.Context, img *model.Image, payload []byte) error {
	preview, size, err := imageproc.Pixelater(bytes.NewReader(payload), img.PixelationLevel, imaging.PNG)
	if err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}
	if err := w.put(ctx, service.PreviewObjectKey(w.previewPrefix, img.ID), size, preview); err != nil {
		return fmt.Errorf("worker failed to put preview to storage: %w", err)
	}

	thumb, size, err := imageproc.Thumbnailer(bytes.NewReader(payload), imageproc.ThumbSide, imageproc.ThumbSide, imaging.PNG)
	if err != nil {
		return fmt.Errorf("%w: %v", errUndecodable, err)
	}
	if err := w.put(ctx, service.PreviewObjectKey(w.thumbPrefix, img.ID), size, thumb); err != nil {
		return fmt.Errorf("worker failed to put thumbnail to storage: %w", err)
	}

	return nil
}

func (w *Worker) put(ctx context.Context, key string, size int64, r io.Reader) error {
	return w.storage.Put(ctx, key, size, model.PNG, r)
}

func isPermanent(err error) bool {
	return errors.Is(err, errBadEvent) ||
		errors.Is(err, model.ErrImageNotFound) ||
		errors.Is(err, model.ErrBadDataURI) ||
		errors.Is(err, errUndecodable)
}
