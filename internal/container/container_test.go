package container

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ish-detector/config"
	"ish-detector/internal/infrastructure/vision"
)

const linearModel = `svm_type c_svc
kernel_type linear
nr_class 2
total_sv 2
rho 0
label 1 2
nr_sv 1 1
SV
1 1:1
-1 1:-1
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	model := filepath.Join(dir, "model.svm")
	require.NoError(t, os.WriteFile(model, []byte(linearModel), 0o644))

	return &config.Config{
		ImageDir:     dir,
		ImageSuffix:  ".png",
		ModelPath:    model,
		ModelFormat:  "auto",
		ModelName:    "ish_svm",
		SignalRadius: 3,
		BlurKernel:   9,
		BlurSigma:    2,
		HoughDP:      1,
		HoughParam1:  25,
		HoughParam2:  10,
		MinRadius:    1,
		MaxRadius:    7,
		BothLabel:    3,
		MaxImages:    1,
		Detector:     "hough",
		Display:      "none",
		DisplaySize:  100,
		OutputDir:    filepath.Join(dir, "out"),
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReportDB = filepath.Join(t.TempDir(), "reports.db")

	c, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	require.NotNil(t, c.AnalysisService)
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.Reports)
	require.Equal(t, []int{1, 2}, c.Model.Labels)

	batch, window, err := c.Batch(&bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Nil(t, window)
}

func TestNew_MissingModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.ModelPath = filepath.Join(t.TempDir(), "absent.svm")

	_, err := New(cfg, zerolog.Nop())
	require.Error(t, err)
}

func TestHoughParams(t *testing.T) {
	cfg := testConfig(t)
	require.Equal(t, vision.DefaultHoughParams(3), HoughParams(cfg))
}

func TestNewDetector(t *testing.T) {
	cfg := testConfig(t)

	d, err := NewDetector(cfg)
	require.NoError(t, err)
	require.IsType(t, &vision.HoughDetector{}, d)

	cfg.Detector = "sift"
	_, err = NewDetector(cfg)
	require.Error(t, err)
}

func TestNewAnnotator(t *testing.T) {
	cfg := testConfig(t)
	require.IsType(t, &vision.VectorAnnotator{}, NewAnnotator(cfg))

	cfg.Detector = "gocv"
	require.IsType(t, &vision.GoCVAnnotator{}, NewAnnotator(cfg))
}

func TestBatch_FileDisplay(t *testing.T) {
	cfg := testConfig(t)
	cfg.Display = "file"

	c, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	batch, window, err := c.Batch(nil)
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Nil(t, window)
}
