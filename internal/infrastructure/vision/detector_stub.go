//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"ish-detector/internal/domain/entity"
)

// ErrGoCVDisabled — бинарник собран без тега gocv
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// GoCVDetector — заглушка детектора OpenCV
type GoCVDetector struct {
	Params HoughParams
}

// NewGoCVDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVDetector(params HoughParams) *GoCVDetector {
	return &GoCVDetector{Params: params}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) ([]entity.Circle, error) {
	_ = ctx
	_ = img
	return nil, ErrGoCVDisabled
}
