// Package imageproc provides operations for images: pixelated preview and thumbnail generation.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/disintegration/imaging"
)

// Pixelater рисует превью с "пикселизацией": уровень - размер блока в пикселях.
// Уровень <= 1 отдает картинку без изменений (только перекодирование).
func Pixelater(r io.Reader, level float64, format imaging.Format) (io.Reader, int64, error) {
	if r == nil {
		return nil, -1, errors.New("nil-reader baseIMG provided to Pixelater")
	}
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode baseIMG in Pixelater: %w", err)
	}

	block := int(math.Round(level))
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if block > 1 && w > 0 && h > 0 {
		// сжимаем до сетки блоков и растягиваем обратно без сглаживания
		smallW := max(1, w/block)
		smallH := max(1, h/block)
		small := imaging.Resize(img, smallW, smallH, imaging.Box)
		img = imaging.Resize(small, w, h, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, 0, fmt.Errorf("failed to encode resultIMG in Pixelater: %w", err)
	}
	return &buf, int64(buf.Len()), nil
}
