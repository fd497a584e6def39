//go:build !gocv
// +build !gocv

package vision

import (
	"image"

	"ish-detector/internal/domain/entity"
)

// GoCVAnnotator — заглушка разметки OpenCV
type GoCVAnnotator struct{}

func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{}
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (GoCVAnnotator) Annotate(image.Image, *entity.Analysis, int) (image.Image, error) {
	return nil, ErrGoCVDisabled
}
