//go:build !gocv
// +build !gocv

package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoCVWindowDisabled(t *testing.T) {
	_, err := NewGoCVWindow()
	require.ErrorIs(t, err, ErrGoCVDisabled)
	require.ErrorIs(t, GoCVWindow{}.Show("x", image.NewGray(image.Rect(0, 0, 1, 1))), ErrGoCVDisabled)
}
