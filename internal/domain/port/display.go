package port

import "image"

// Display показывает или сохраняет аннотированное изображение
type Display interface {
	Show(title string, img image.Image) error
}
