// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"time"
)

type Image struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Src             string    `json:"src"`
	Uploaded        time.Time `json:"uploaded"`
	PixelationLevel float64   `json:"pixelationLevel"`
	InBin           bool      `json:"inBin"`
	RestoredFromBin bool      `json:"restoredFromBin"`
}

//-------------------

type UploadRequest struct {
	Name            string   `json:"name"`
	Src             string   `json:"src"`
	PixelationLevel *float64 `json:"pixelationLevel"`
}

type RestoreRequest struct {
	ImageID string `json:"imageId"`
}

// RestoreResult - либо восстановленная картинка, либо флаг пустого холста
type RestoreResult struct {
	RestoredImage string `json:"restoredImage,omitempty"`
	BlankCanvas   bool   `json:"blankCanvas,omitempty"`
}

//-------------------

type EventType string

const (
	EventUploaded        EventType = "uploaded"
	EventBinned          EventType = "binned"
	EventRestoredFromBin EventType = "restored_from_bin"
	EventAIRestored      EventType = "ai_restored"
)

// Event - сообщение о смене состояния картинки, уходит в кафку
type Event struct {
	ImageID string    `json:"id"`
	Type    EventType `json:"event"`
	At      time.Time `json:"at"`
}

//-------------------

type PreviewKind string

const (
	PreviewPixelated PreviewKind = "preview"
	PreviewThumb     PreviewKind = "thumb"
)

// ------------------

var (
	ErrCommon500       error = errors.New("something went wrong. Try again later")      // 500
	ErrIncorrectID     error = errors.New("image ID is required")                       // 400
	ErrEmptySource     error = errors.New("image source (src) is required")             // 400
	ErrIncorrectBody   error = errors.New("incorrect request body")                     // 400
	ErrBadDataURI      error = errors.New("image source is not a base64 data URI")      // 400
	ErrIncorrectKind   error = errors.New("unknown preview kind")                       // 400
	ErrImageNotFound   error = errors.New("image not found")                            // 404
	ErrPreviewNotReady error = errors.New("preview for this image is not rendered yet") // 404
	ErrUpstream        error = errors.New("failed to restore image with AI")            // 500
)

//--------------------

// превью и миниатюры всегда рендерятся в PNG
const (
	PNG    = "image/png"
	PNGExt = ".png"
)
