package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"ish-detector/internal/domain/entity"
)

// ErrInvalidConfig — значение переменной окружения не подходит
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	CSVPath     string `validate:"required"`
	ImageDir    string `validate:"required"`
	ImageSuffix string `validate:"required"`
	ModelPath   string `validate:"required"`
	ModelFormat string `validate:"oneof=auto libsvm opencv"`
	ModelName   string `validate:"required"`

	SignalRadius int     `validate:"gt=0"`
	BlurKernel   int     `validate:"gt=0"`
	BlurSigma    float64 `validate:"gte=0"`
	HoughDP      float64 `validate:"gt=0"`
	HoughParam1  float64 `validate:"gt=0"`
	HoughParam2  float64 `validate:"gt=0"`
	MinRadius    int
	MaxRadius    int

	BothLabel int `validate:"gt=0,both_label"`
	MaxImages int `validate:"gte=0"`

	Detector    string `validate:"oneof=hough gocv"`
	Display     string `validate:"oneof=window gocv file none"`
	DisplaySize int    `validate:"gt=0"`
	OutputDir   string `validate:"required_if=Display file"`
	ReportDB    string

	TelegramToken string

	LogLevel string `validate:"oneof=trace debug info warn error"`
	LogFile  string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		CSVPath:     str("ISH_CSV_PATH", "./demo1.csv"),
		ImageDir:    str("ISH_IMAGE_DIR", "./images"),
		ImageSuffix: str("ISH_IMAGE_SUFFIX", "_PTEN_Zeiss_4096.jpg"),
		ModelPath:   str("ISH_MODEL_PATH", "./model.svm"),
		ModelFormat: str("ISH_MODEL_FORMAT", "auto"),
		ModelName:   str("ISH_MODEL_NAME", "ish_svm"),

		SignalRadius: p.integer("ISH_SIGNAL_RADIUS", 3),
		BlurKernel:   p.integer("ISH_BLUR_KERNEL", 9),
		BlurSigma:    p.number("ISH_BLUR_SIGMA", 2),
		HoughDP:      p.number("ISH_HOUGH_DP", 1),
		HoughParam1:  p.number("ISH_HOUGH_PARAM1", 25),
		HoughParam2:  p.number("ISH_HOUGH_PARAM2", 10),

		BothLabel: p.integer("ISH_BOTH_LABEL", 3),
		MaxImages: p.integer("ISH_MAX_IMAGES", 1),

		Detector:    str("ISH_DETECTOR", "hough"),
		Display:     str("ISH_DISPLAY", "window"),
		DisplaySize: p.integer("ISH_DISPLAY_SIZE", 1000),
		OutputDir:   str("ISH_OUTPUT_DIR", "./out"),
		ReportDB:    os.Getenv("ISH_REPORT_DB"),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		LogLevel: str("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
	if p.err != nil {
		return nil, p.err
	}

	cfg.MinRadius = max(1, cfg.SignalRadius-2)
	cfg.MaxRadius = cfg.SignalRadius + 4

	if err := newValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.BlurKernel%2 == 0 {
		return nil, fmt.Errorf("%w: ISH_BLUR_KERNEL must be odd, got %d", ErrInvalidConfig, cfg.BlurKernel)
	}

	return cfg, nil
}

// newValidator добавляет правило both_label: метка "оба" не может совпадать
// с меткой CEP или гена, иначе такие точки никогда не попадут в обе коллекции
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("both_label", func(fl validator.FieldLevel) bool {
		label := fl.Field().Int()
		return label != entity.LabelCep && label != entity.LabelGene
	})
	return v
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parser запоминает первую ошибку разбора числа
type parser struct {
	err error
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v)
		return def
	}
	return n
}

func (p *parser) number(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v)
		return def
	}
	return f
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, value)
	}
}
