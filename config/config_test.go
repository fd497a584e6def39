package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "./demo1.csv", cfg.CSVPath)
	require.Equal(t, "./model.svm", cfg.ModelPath)
	require.Equal(t, 3, cfg.SignalRadius)
	require.Equal(t, 1, cfg.MinRadius)
	require.Equal(t, 7, cfg.MaxRadius)
	require.Equal(t, 9, cfg.BlurKernel)
	require.InDelta(t, 25.0, cfg.HoughParam1, 1e-9)
	require.Equal(t, 3, cfg.BothLabel)
	require.Equal(t, 1, cfg.MaxImages)
	require.Equal(t, "hough", cfg.Detector)
	require.Equal(t, "window", cfg.Display)
	require.Equal(t, 1000, cfg.DisplaySize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ISH_SIGNAL_RADIUS", "6")
	t.Setenv("ISH_BOTH_LABEL", "5")
	t.Setenv("ISH_MAX_IMAGES", "0")
	t.Setenv("ISH_DISPLAY", "file")
	t.Setenv("ISH_BLUR_SIGMA", "1.5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 4, cfg.MinRadius)
	require.Equal(t, 10, cfg.MaxRadius)
	require.Equal(t, 5, cfg.BothLabel)
	require.Equal(t, 0, cfg.MaxImages)
	require.Equal(t, "file", cfg.Display)
	require.InDelta(t, 1.5, cfg.BlurSigma, 1e-9)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"ISH_SIGNAL_RADIUS": "three",
		"ISH_HOUGH_PARAM2":  "x",
		"ISH_DETECTOR":      "sobel",
		"ISH_DISPLAY":       "tv",
		"ISH_BLUR_KERNEL":   "8",
		"ISH_MODEL_FORMAT":  "onnx",
		"LOG_LEVEL":         "loud",
		"ISH_MAX_IMAGES":    "-1",
		"ISH_BOTH_LABEL":    "2",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(key, value)

			_, err := Load()
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_BothLabelMustDifferFromCepAndGene(t *testing.T) {
	for _, label := range []string{"1", "2"} {
		t.Run(label, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("ISH_BOTH_LABEL", label)

			_, err := Load()
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Contains(t, err.Error(), "both_label")
		})
	}
}
