package vision

import (
	"errors"
	"image"

	"ish-detector/internal/domain/port"
)

// ErrPatchOutOfBounds — фрагмент вокруг кандидата выходит за границы изображения
var ErrPatchOutOfBounds = errors.New("patch is located outside the image")

// ExtractPatch вырезает квадрат 2r x 2r с центром в (x, y) и переводит байты в [0, 1].
// Значения идут построчно.
func ExtractPatch(gray *image.Gray, x, y, r int) ([]float64, error) {
	rect := image.Rect(x-r, y-r, x+r, y+r)
	if r <= 0 || !rect.In(gray.Bounds()) {
		return nil, ErrPatchOutOfBounds
	}

	features := make([]float64, 0, rect.Dx()*rect.Dy())
	for py := rect.Min.Y; py < rect.Max.Y; py++ {
		row := gray.Pix[gray.PixOffset(rect.Min.X, py):]
		for px := 0; px < rect.Dx(); px++ {
			features = append(features, float64(row[px])/255)
		}
	}
	return features, nil
}

// GrayPatcher нарезает фрагменты из серой копии снимка
type GrayPatcher struct{}

func (GrayPatcher) Prepare(img image.Image) port.Patches {
	return grayPatches{gray: ToGray(img)}
}

type grayPatches struct {
	gray *image.Gray
}

func (p grayPatches) Size() image.Point { return p.gray.Bounds().Size() }

func (p grayPatches) Patch(x, y, r int) ([]float64, error) {
	return ExtractPatch(p.gray, x, y, r)
}

var _ port.PatchExtractor = GrayPatcher{}
