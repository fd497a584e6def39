package app

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
	"ish-detector/internal/logger"
)

// BatchOptions — где искать изображения и сколько их обрабатывать
type BatchOptions struct {
	ImageDir    string
	ImageSuffix string
	MaxImages   int // 0 — все записи
}

// BatchResult — итог одного запуска по таблице
type BatchResult struct {
	RunID    string
	Analyses []*entity.Analysis
}

// BatchService обрабатывает изображения, перечисленные в таблице
type BatchService struct {
	analysis *AnalysisService
	reports  port.ReportRepository
	display  port.Display
	opts     BatchOptions
	out      io.Writer
	log      zerolog.Logger
}

// NewBatchService создаёт сервис пакетной обработки; reports и display могут быть nil
func NewBatchService(analysis *AnalysisService, reports port.ReportRepository, display port.Display, opts BatchOptions, out io.Writer, log zerolog.Logger) *BatchService {
	if out == nil {
		out = io.Discard
	}
	return &BatchService{
		analysis: analysis,
		reports:  reports,
		display:  display,
		opts:     opts,
		out:      out,
		log:      logger.Component(log, "batch"),
	}
}

// ImagePath возвращает путь к изображению записи
func (s *BatchService) ImagePath(rec entity.Record) string {
	return filepath.Join(s.opts.ImageDir, rec.Loc+s.opts.ImageSuffix)
}

// Run анализирует изображения по порядку; отсутствующее изображение прерывает запуск
func (s *BatchService) Run(ctx context.Context, records []entity.Record) (*BatchResult, error) {
	n := len(records)
	if s.opts.MaxImages > 0 && s.opts.MaxImages < n {
		n = s.opts.MaxImages
	}

	result := &BatchResult{RunID: uuid.NewString()}
	s.log.Info().Str("run_id", result.RunID).Int("images", n).Int("records", len(records)).Msg("batch started")

	for _, rec := range records[:n] {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		img, err := s.analysis.Load(s.ImagePath(rec))
		if err != nil {
			return result, err
		}

		a, err := s.analysis.Analyze(ctx, rec, img)
		if err != nil {
			return result, err
		}
		result.Analyses = append(result.Analyses, a)
		s.printSummary(a)

		if s.reports != nil {
			if err := s.reports.Save(ctx, result.RunID, a); err != nil {
				return result, fmt.Errorf("save report for %s: %w", rec.Loc, err)
			}
		}

		if s.display != nil {
			s.show(rec.Loc, img, a)
		}
	}

	s.log.Info().Str("run_id", result.RunID).Int("analyzed", len(result.Analyses)).Msg("batch finished")
	return result, nil
}

// show рисует разметку и передаёт её в отображение; ошибки не прерывают запуск
func (s *BatchService) show(loc string, img image.Image, a *entity.Analysis) {
	annotated, err := s.analysis.Annotate(img, a)
	if err != nil {
		s.log.Error().Err(err).Str("loc", loc).Msg("annotate failed")
		return
	}
	if err := s.display.Show(loc, annotated); err != nil {
		s.log.Error().Err(err).Str("loc", loc).Msg("display failed")
	}
}

func (s *BatchService) printSummary(a *entity.Analysis) {
	fmt.Fprintf(s.out, "%s (%s)\n", a.Record.Loc, a.Record.Label)
	fmt.Fprintf(s.out, "# circles: %d\n", len(a.Circles))
	for _, p := range a.Cep {
		fmt.Fprintf(s.out, "[%d,%d]: %s\n", p.X, p.Y, p.Color.Hex())
	}
	fmt.Fprintf(s.out, "cep=%d gene=%d skipped=%d ratio=%.4f\n", len(a.Cep), len(a.Gene), a.Skipped, a.Ratio())
}
