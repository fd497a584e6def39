package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
	"ish-detector/internal/logger"
)

var (
	ErrDetectorNotConfigured   = errors.New("detector is not configured")
	ErrClassifierNotConfigured = errors.New("classifier is not configured")
	ErrPatchesNotConfigured    = errors.New("patch extractor is not configured")
	ErrAnnotatorNotConfigured  = errors.New("annotator is not configured")
	ErrCodecNotConfigured      = errors.New("image codec is not configured")
)

// AnalysisOptions — параметры классификации кандидатов
type AnalysisOptions struct {
	Radius      int // радиус точечного сигнала; фрагмент имеет сторону 2*Radius
	BothLabel   int // метка класса "оба сигнала"
	DisplaySize int // сторона аннотированного изображения, 0 — без масштабирования
}

// AnalysisPorts — реализации, которые сервис получает из контейнера
type AnalysisPorts struct {
	Detector   port.CircleDetector
	Classifier port.Classifier
	Patches    port.PatchExtractor
	Annotator  port.Annotator
	Codec      port.ImageCodec
}

// AnalysisService находит и классифицирует сигналы на одном изображении
type AnalysisService struct {
	ports AnalysisPorts
	opts  AnalysisOptions
	log   zerolog.Logger
}

// AnalysisOutput содержит результат анализа и аннотированное изображение в JPEG.
type AnalysisOutput struct {
	Analysis  *entity.Analysis
	Annotated []byte
}

// NewAnalysisService создаёт сервис анализа.
func NewAnalysisService(ports AnalysisPorts, opts AnalysisOptions, log zerolog.Logger) *AnalysisService {
	if opts.BothLabel == 0 {
		opts.BothLabel = entity.LabelBoth
	}
	return &AnalysisService{
		ports: ports,
		opts:  opts,
		log:   logger.Component(log, "analysis"),
	}
}

// Analyze ищет окружности, вырезает фрагменты и раскладывает точки по классам.
// Фрагменты за границей изображения и ошибки классификатора пропускаются.
func (s *AnalysisService) Analyze(ctx context.Context, rec entity.Record, img image.Image) (*entity.Analysis, error) {
	switch {
	case s.ports.Detector == nil:
		return nil, ErrDetectorNotConfigured
	case s.ports.Classifier == nil:
		return nil, ErrClassifierNotConfigured
	case s.ports.Patches == nil:
		return nil, ErrPatchesNotConfigured
	}

	circles, err := s.ports.Detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect circles in %s: %w", rec.Loc, err)
	}

	patches := s.ports.Patches.Prepare(img)
	size := patches.Size()
	a := &entity.Analysis{
		Record:      rec,
		ImageWidth:  size.X,
		ImageHeight: size.Y,
		Circles:     circles,
	}

	for i, c := range circles {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		x, y := c.Center()
		features, err := patches.Patch(x, y, s.opts.Radius)
		if err != nil {
			s.log.Warn().Err(err).Int("x", x).Int("y", y).Msg("skipping candidate")
			a.Skipped++
			continue
		}

		label, err := s.ports.Classifier.Predict(features)
		if err != nil {
			s.log.Warn().Err(err).Int("x", x).Int("y", y).Msg("classification failed")
			a.Skipped++
			continue
		}

		a.Add(x, y, label, s.opts.BothLabel)
	}

	s.log.Debug().
		Str("loc", rec.Loc).
		Int("circles", len(a.Circles)).
		Int("cep", len(a.Cep)).
		Int("gene", len(a.Gene)).
		Int("skipped", a.Skipped).
		Msg("image analyzed")

	return a, nil
}

// Load читает снимок с диска
func (s *AnalysisService) Load(path string) (image.Image, error) {
	if s.ports.Codec == nil {
		return nil, ErrCodecNotConfigured
	}
	return s.ports.Codec.Load(path)
}

// Annotate рисует результат анализа в размере отображения
func (s *AnalysisService) Annotate(img image.Image, a *entity.Analysis) (image.Image, error) {
	if s.ports.Annotator == nil {
		return nil, ErrAnnotatorNotConfigured
	}
	return s.ports.Annotator.Annotate(img, a, s.opts.DisplaySize)
}

// ProcessPhoto декодирует присланный снимок, анализирует его и возвращает картинку с подсветкой.
func (s *AnalysisService) ProcessPhoto(ctx context.Context, name string, photo []byte) (*AnalysisOutput, error) {
	if s.ports.Codec == nil {
		return nil, ErrCodecNotConfigured
	}

	img, err := s.ports.Codec.Decode(photo)
	if err != nil {
		return nil, err
	}

	a, err := s.Analyze(ctx, entity.Record{Loc: name}, img)
	if err != nil {
		return nil, err
	}

	highlighted, err := s.Annotate(img, a)
	if err != nil {
		return nil, err
	}

	annotated, err := s.ports.Codec.Encode(highlighted)
	if err != nil {
		return nil, err
	}

	return &AnalysisOutput{Analysis: a, Annotated: annotated}, nil
}
