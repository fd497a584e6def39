//go:build gocv
// +build gocv

package display

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"ish-detector/internal/domain/port"
)

// GoCVWindow показывает изображение в окне OpenCV и ждёт нажатия клавиши
type GoCVWindow struct{}

func NewGoCVWindow() (*GoCVWindow, error) {
	return &GoCVWindow{}, nil
}

func (GoCVWindow) Show(title string, img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	window := gocv.NewWindow(title)
	defer window.Close()

	window.IMShow(mat)
	window.WaitKey(0)
	return nil
}

var _ port.Display = GoCVWindow{}
