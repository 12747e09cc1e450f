// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/UnendingLoop/PixelVault/internal/model"
	"github.com/wb-go/wbf/ginext"
)

// MaxBodySize - data URI с картинкой может быть большим
const MaxBodySize = 50 << 20

type ImageHandler struct {
	service ImageService
}

type ImageService interface {
	Create(ctx context.Context, req *model.UploadRequest) (*model.Image, error)
	GetList(ctx context.Context) ([]model.Image, error)
	MoveToBin(ctx context.Context, id string) (*model.Image, error)
	RestoreFromBin(ctx context.Context, id string) (*model.Image, error)
	Restore(ctx context.Context, id string) (*model.RestoreResult, error)                              // AI или пустой холст
	LoadPreview(ctx context.Context, id string, kind model.PreviewKind) (io.ReadCloser, string, error) // превью из хранилища
}

func NewImageHandler(svc ImageService) *ImageHandler {
	return &ImageHandler{
		service: svc,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) Upload(ctx *ginext.Context) {
	var req model.UploadRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := h.service.Create(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h ImageHandler) Restore(ctx *ginext.Context) {
	var req model.RestoreRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := h.service.Restore(ctx.Request.Context(), req.ImageID)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) GetAllImages(ctx *ginext.Context) {
	res, err := h.service.GetList(ctx.Request.Context())
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) MoveToBin(ctx *ginext.Context) {
	res, err := h.service.MoveToBin(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) RestoreFromBin(ctx *ginext.Context) {
	res, err := h.service.RestoreFromBin(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) LoadPreview(ctx *ginext.Context) {
	id := ctx.Param("id")
	kind := model.PreviewKind(ctx.Query("kind"))

	res, cType, err := h.service.LoadPreview(ctx.Request.Context(), id, kind)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}
	defer closeFileFlow(res)

	ctx.Writer.Header().Set("Content-Type", cType)
	ctx.Writer.WriteHeader(200)
	if n, err := io.Copy(ctx.Writer, res); err != nil {
		log.Printf("Failed to write response at byte %d for preview of %q: %v", n, id, err)
	}
}

func bindJSON(ctx *ginext.Context, dst any) bool {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, MaxBodySize)
	if err := ctx.ShouldBindJSON(dst); err != nil {
		ctx.JSON(400, map[string]string{"error": model.ErrIncorrectBody.Error()})
		return false
	}
	return true
}
