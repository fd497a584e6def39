//go:build headless
// +build headless

package fyneview

import (
	"errors"
	"image"
)

// ErrFyneDisabled возвращается, если бинарь собран с тегом headless
var ErrFyneDisabled = errors.New("fyne window is disabled: build without -tags headless")

type Window struct{}

func Open(int) (*Window, error) {
	return nil, ErrFyneDisabled
}

func (*Window) Show(string, image.Image) error { return ErrFyneDisabled }

func (*Window) Pending() int { return 0 }

func (*Window) Run() {}
