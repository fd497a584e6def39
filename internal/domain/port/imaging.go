package port

import (
	"image"

	"ish-detector/internal/domain/entity"
)

// ImageCodec читает, декодирует и кодирует снимки
type ImageCodec interface {
	Load(path string) (image.Image, error)
	Decode(data []byte) (image.Image, error)
	// Encode кодирует изображение в JPEG
	Encode(img image.Image) ([]byte, error)
}

// PatchExtractor готовит снимок к нарезке фрагментов вокруг кандидатов
type PatchExtractor interface {
	Prepare(img image.Image) Patches
}

// Patches — снимок, подготовленный для нарезки
type Patches interface {
	// Size возвращает ширину и высоту снимка
	Size() image.Point
	// Patch возвращает признаки квадрата 2r x 2r с центром в (x, y)
	Patch(x, y, r int) ([]float64, error)
}

// Annotator рисует кандидатов и классифицированные сигналы.
// size > 0 приводит результат к size x size.
type Annotator interface {
	Annotate(img image.Image, a *entity.Analysis, size int) (image.Image, error)
}
