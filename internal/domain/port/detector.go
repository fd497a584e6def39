package port

import (
	"context"
	"image"

	"ish-detector/internal/domain/entity"
)

// CircleDetector интерфейс детектора круглых сигналов
type CircleDetector interface {
	// Detect ищет окружности на изображении
	Detect(ctx context.Context, img image.Image) ([]entity.Circle, error)
}
