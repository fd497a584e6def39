//go:build !gocv
// +build !gocv

package display

import (
	"errors"
	"image"
)

// ErrGoCVDisabled возвращается, если бинарь собран без тега gocv
var ErrGoCVDisabled = errors.New("gocv window is disabled: build with -tags gocv")

type GoCVWindow struct{}

func NewGoCVWindow() (*GoCVWindow, error) {
	return nil, ErrGoCVDisabled
}

func (GoCVWindow) Show(string, image.Image) error {
	return ErrGoCVDisabled
}
