package vision

import (
	"context"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"ish-detector/internal/domain/entity"
)

// disc рисует светлый круг на тёмном фоне
func disc(img *image.Gray, cx, cy, r float64) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
}

func testParams() HoughParams {
	p := DefaultHoughParams(6)
	p.MinDist = 6
	p.MinRadius = 3
	p.MaxRadius = 9
	p.Param2 = 5
	return p
}

func nearest(circles []entity.Circle, x, y float64) (entity.Circle, float64) {
	best, dist := entity.Circle{}, math.Inf(1)
	for _, c := range circles {
		if d := math.Hypot(c.X-x, c.Y-y); d < dist {
			best, dist = c, d
		}
	}
	return best, dist
}

func TestHoughDetector_FindsDisc(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 80, 80))
	disc(img, 40, 40, 6)

	circles, err := NewHoughDetector(testParams()).Detect(context.Background(), img)
	require.NoError(t, err)
	require.NotEmpty(t, circles)

	c, dist := nearest(circles, 40, 40)
	require.LessOrEqual(t, dist, 2.0)
	require.GreaterOrEqual(t, c.Radius, 4.0)
	require.LessOrEqual(t, c.Radius, 8.0)
	require.Greater(t, c.Votes, 5)
}

func TestHoughDetector_TwoDiscs(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 120, 80))
	disc(img, 30, 40, 6)
	disc(img, 90, 40, 6)

	circles, err := NewHoughDetector(testParams()).Detect(context.Background(), img)
	require.NoError(t, err)

	_, d1 := nearest(circles, 30, 40)
	_, d2 := nearest(circles, 90, 40)
	require.LessOrEqual(t, d1, 2.0)
	require.LessOrEqual(t, d2, 2.0)
}

func TestHoughDetector_BlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))

	circles, err := NewHoughDetector(testParams()).Detect(context.Background(), img)
	require.NoError(t, err)
	require.Empty(t, circles)
}

func TestHoughDetector_Cancelled(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	disc(img, 32, 32, 6)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHoughDetector(testParams()).Detect(ctx, img)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGaussianBlur_KeepsSizeAndFlatRegions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 100
	}

	out := GaussianBlur(img, 9, 2)
	require.Equal(t, img.Bounds(), out.Bounds())
	require.InDelta(t, 100, int(out.GrayAt(10, 10).Y), 1)
}

func TestToGray_RebasesBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 15, 25))
	gray := ToGray(src)
	require.Equal(t, image.Rect(0, 0, 10, 20), gray.Bounds())
}
