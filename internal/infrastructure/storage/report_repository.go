package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

// ReportRepository хранит отчёты анализа в SQLite через gorm
type ReportRepository struct {
	db  *gorm.DB
	mu  sync.Mutex
	seq map[string]int
}

// OpenReportRepository открывает базу по пути и создаёт таблицы
func OpenReportRepository(path string) (*ReportRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	return NewReportRepository(db)
}

// NewReportRepository оборачивает готовое подключение и выполняет миграцию
func NewReportRepository(db *gorm.DB) (*ReportRepository, error) {
	if err := db.AutoMigrate(&AnalysisModel{}, &SignalModel{}); err != nil {
		return nil, fmt.Errorf("migrate report db: %w", err)
	}
	return &ReportRepository{db: db, seq: make(map[string]int)}, nil
}

// Save сохраняет анализ вместе с точками
func (r *ReportRepository) Save(ctx context.Context, runID string, a *entity.Analysis) error {
	r.mu.Lock()
	r.seq[runID]++
	seq := r.seq[runID]
	r.mu.Unlock()

	m := &AnalysisModel{
		ID:          uuid.NewString(),
		RunID:       runID,
		Seq:         seq,
		Label:       a.Record.Label,
		Loc:         a.Record.Loc,
		ImageWidth:  a.ImageWidth,
		ImageHeight: a.ImageHeight,
		Circles:     len(a.Circles),
		CepCount:    len(a.Cep),
		GeneCount:   len(a.Gene),
		Skipped:     a.Skipped,
		Ratio:       a.Ratio(),
		Signals:     signalsOf(a),
	}

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("save analysis %s: %w", a.Record.Loc, err)
	}
	return nil
}

// ListByRun возвращает сводки запуска в порядке сохранения
func (r *ReportRepository) ListByRun(ctx context.Context, runID string) ([]entity.Summary, error) {
	var models []AnalysisModel
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("seq").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	out := make([]entity.Summary, 0, len(models))
	for i := range models {
		out = append(out, models[i].ToSummary())
	}
	return out, nil
}

// Signals возвращает точки сохранённого анализа по его позиции в запуске
func (r *ReportRepository) Signals(ctx context.Context, runID string, seq int) ([]SignalModel, error) {
	var m AnalysisModel
	err := r.db.WithContext(ctx).
		Preload("Signals").
		Where("run_id = ? AND seq = ?", runID, seq).
		First(&m).Error
	if err != nil {
		return nil, fmt.Errorf("load analysis %s/%d: %w", runID, seq, err)
	}
	return m.Signals, nil
}

// Close закрывает подключение к базе
func (r *ReportRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ port.ReportRepository = (*ReportRepository)(nil)
