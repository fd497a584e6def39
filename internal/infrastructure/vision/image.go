package vision

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"ish-detector/internal/domain/port"
)

// Codec читает и пишет снимки через imaging
type Codec struct{}

// Load читает изображение с диска
func (Codec) Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read or find image file %s: %w", path, err)
	}
	return img, nil
}

// Decode декодирует изображение из байтов
func (Codec) Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Encode кодирует изображение в JPEG
func (Codec) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// ToGray переводит изображение в оттенки серого с началом координат в (0, 0)
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

var _ port.ImageCodec = Codec{}
