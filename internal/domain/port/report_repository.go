package port

import (
	"context"

	"ish-detector/internal/domain/entity"
)

// ReportRepository интерфейс хранилища отчётов анализа
type ReportRepository interface {
	// Save сохраняет анализ в рамках запуска runID
	Save(ctx context.Context, runID string, analysis *entity.Analysis) error

	// ListByRun возвращает сводки анализов запуска в порядке сохранения
	ListByRun(ctx context.Context, runID string) ([]entity.Summary, error)
}
