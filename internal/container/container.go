package container

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"ish-detector/config"
	app "ish-detector/internal/application"
	"ish-detector/internal/domain/port"
	"ish-detector/internal/infrastructure/display"
	"ish-detector/internal/infrastructure/display/fyneview"
	"ish-detector/internal/infrastructure/storage"
	"ish-detector/internal/infrastructure/svm"
	"ish-detector/internal/infrastructure/vision"
)

type Container struct {
	Config          *config.Config
	Log             zerolog.Logger
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
	Reports         *storage.ReportRepository // nil, если ISH_REPORT_DB не задан
	Model           *svm.Model
}

// New загружает модель, собирает детектор и сервисы приложения
func New(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	detector, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}

	model, err := svm.Load(cfg.ModelPath, cfg.ModelFormat, cfg.ModelName)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	log.Info().
		Str("model", cfg.ModelPath).
		Int("classes", len(model.Labels)).
		Int("features", model.Features).
		Msg("model loaded")

	c := &Container{
		Config:      cfg,
		Log:         log,
		UserService: app.NewUserService(storage.NewMemoryUserRepository()),
		AnalysisService: app.NewAnalysisService(app.AnalysisPorts{
			Detector:   detector,
			Classifier: model,
			Patches:    vision.GrayPatcher{},
			Annotator:  NewAnnotator(cfg),
			Codec:      vision.Codec{},
		}, app.AnalysisOptions{
			Radius:      cfg.SignalRadius,
			BothLabel:   cfg.BothLabel,
			DisplaySize: cfg.DisplaySize,
		}, log),
		Model: model,
	}

	if cfg.ReportDB != "" {
		c.Reports, err = storage.OpenReportRepository(cfg.ReportDB)
		if err != nil {
			return nil, err
		}
	}

	return c, nil
}

// HoughParams переводит настройки в параметры детектора
func HoughParams(cfg *config.Config) vision.HoughParams {
	return vision.HoughParams{
		BlurKernel: cfg.BlurKernel,
		BlurSigma:  cfg.BlurSigma,
		DP:         cfg.HoughDP,
		MinDist:    float64(cfg.SignalRadius),
		Param1:     cfg.HoughParam1,
		Param2:     cfg.HoughParam2,
		MinRadius:  cfg.MinRadius,
		MaxRadius:  cfg.MaxRadius,
	}
}

// NewDetector выбирает реализацию детектора окружностей
func NewDetector(cfg *config.Config) (port.CircleDetector, error) {
	params := HoughParams(cfg)
	switch cfg.Detector {
	case "hough":
		return vision.NewHoughDetector(params), nil
	case "gocv":
		return vision.NewGoCVDetector(params), nil
	default:
		return nil, fmt.Errorf("unknown detector %q", cfg.Detector)
	}
}

// NewAnnotator рисует разметку тем же стеком, что и детектор
func NewAnnotator(cfg *config.Config) port.Annotator {
	if cfg.Detector == "gocv" {
		return vision.NewGoCVAnnotator()
	}
	return vision.NewVectorAnnotator()
}

// Batch собирает пакетный сервис. Для режима window возвращается и окно fyne,
// которое нужно запустить после обработки.
func (c *Container) Batch(out io.Writer) (*app.BatchService, *fyneview.Window, error) {
	var (
		disp   port.Display
		window *fyneview.Window
	)

	switch c.Config.Display {
	case "window":
		w, err := fyneview.Open(c.Config.DisplaySize)
		if err != nil {
			return nil, nil, err
		}
		window, disp = w, w
	case "gocv":
		w, err := display.NewGoCVWindow()
		if err != nil {
			return nil, nil, err
		}
		disp = w
	case "file":
		disp = display.NewFileDisplay(c.Config.OutputDir)
	case "none":
		disp = display.None{}
	default:
		return nil, nil, fmt.Errorf("unknown display %q", c.Config.Display)
	}

	var reports port.ReportRepository
	if c.Reports != nil {
		reports = c.Reports
	}

	if out == nil {
		out = os.Stdout
	}

	batch := app.NewBatchService(c.AnalysisService, reports, disp, app.BatchOptions{
		ImageDir:    c.Config.ImageDir,
		ImageSuffix: c.Config.ImageSuffix,
		MaxImages:   c.Config.MaxImages,
	}, out, c.Log)

	return batch, window, nil
}

// Close освобождает ресурсы
func (c *Container) Close() error {
	if c.Reports != nil {
		return c.Reports.Close()
	}
	return nil
}
