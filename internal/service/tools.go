package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/UnendingLoop/PixelVault/internal/model"
)

const dataURIDelimiter = ";base64,"

func validateNormalizeUpload(req *model.UploadRequest) (*model.Image, error) {
	if req == nil || strings.TrimSpace(req.Src) == "" {
		return nil, model.ErrEmptySource
	}

	img := &model.Image{
		Name: strings.TrimSpace(req.Name),
		Src:  req.Src,
	}
	if req.PixelationLevel != nil {
		img.PixelationLevel = *req.PixelationLevel
	}

	return img, nil
}

func normalizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", model.ErrIncorrectID
	}
	return id, nil
}

// DecodeDataURI разбирает "data:<mime>;base64,<payload>" на mime-тип и сырые байты
func DecodeDataURI(src string) (string, []byte, error) {
	head, payload, ok := strings.Cut(src, dataURIDelimiter)
	if !ok {
		return "", nil, fmt.Errorf("%w: missing %q delimiter", model.ErrBadDataURI, dataURIDelimiter)
	}

	_, mimeType, ok := strings.Cut(head, ":")
	if !ok || mimeType == "" {
		return "", nil, fmt.Errorf("%w: missing mime-type", model.ErrBadDataURI)
	}

	payload = strings.TrimSpace(payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// встречаются клиенты, которые режут паддинг
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", model.ErrBadDataURI, err)
		}
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", model.ErrBadDataURI)
	}

	return mimeType, data, nil
}

// PreviewObjectKey - ключ превью в хранилище, общий для API и воркера
func PreviewObjectKey(prefix, id string) string {
	return prefix + id + model.PNGExt
}
