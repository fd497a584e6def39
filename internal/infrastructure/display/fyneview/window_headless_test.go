//go:build headless
// +build headless

package fyneview

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenHeadless(t *testing.T) {
	w, err := Open(100)
	require.ErrorIs(t, err, ErrFyneDisabled)
	require.Nil(t, w)
	require.ErrorIs(t, (&Window{}).Show("x", image.NewGray(image.Rect(0, 0, 1, 1))), ErrFyneDisabled)
}
