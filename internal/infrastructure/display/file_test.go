package display

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestFileDisplay_Show(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := NewFileDisplay(dir)

	img := imaging.New(20, 10, color.NRGBA{R: 255, A: 255})
	require.NoError(t, d.Show("A1", img))

	path := filepath.Join(dir, "A1_annotated.jpg")
	require.Equal(t, path, d.Path("A1"))

	saved, err := imaging.Open(path)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 10), saved.Bounds())
}

func TestFileDisplay_PathSanitized(t *testing.T) {
	d := NewFileDisplay("out")
	require.Equal(t, filepath.Join("out", "a_b_c_annotated.jpg"), d.Path("a/b c"))
}

func TestNone(t *testing.T) {
	require.NoError(t, None{}.Show("x", image.NewGray(image.Rect(0, 0, 1, 1))))
}
