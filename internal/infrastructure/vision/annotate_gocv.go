//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

// GoCVAnnotator рисует разметку через cv::circle
type GoCVAnnotator struct{}

func NewGoCVAnnotator() *GoCVAnnotator {
	return &GoCVAnnotator{}
}

// Annotate рисует кольца кандидатов и закрашенные сигналы и возвращает новую картинку.
func (GoCVAnnotator) Annotate(img image.Image, a *entity.Analysis, size int) (image.Image, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	thickness, marker := strokes(img.Bounds(), size)
	candidate := color.RGBA(CandidateColor)
	for _, c := range a.Circles {
		x, y := c.Center()
		gocv.Circle(&mat, image.Pt(x, y), int(math.Round(c.Radius))+thickness, candidate, thickness)
	}
	for _, s := range signalPoints(a) {
		// отрицательная толщина закрашивает круг
		gocv.Circle(&mat, image.Pt(s.X, s.Y), marker, color.RGBA(signalColor(s)), -1)
	}

	if size > 0 && (mat.Cols() != size || mat.Rows() != size) {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(mat, &resized, image.Pt(size, size), 0, 0, gocv.InterpolationArea)
		return resized.ToImage()
	}
	return mat.ToImage()
}

var _ port.Annotator = GoCVAnnotator{}
