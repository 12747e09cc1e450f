package transport

import (
	"errors"
	"io"
	"log"

	"github.com/UnendingLoop/PixelVault/internal/model"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500),
		errors.Is(err, model.ErrUpstream):
		return 500
	case errors.Is(err, model.ErrImageNotFound),
		errors.Is(err, model.ErrPreviewNotReady):
		return 404
	case errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrEmptySource),
		errors.Is(err, model.ErrIncorrectBody),
		errors.Is(err, model.ErrBadDataURI),
		errors.Is(err, model.ErrIncorrectKind):
		return 400
	default:
		return 500
	}
}

func closeFileFlow(res io.ReadCloser) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		log.Println("Handler failed to close fileflow:", err)
	}
}
