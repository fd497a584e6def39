package app

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

const testSuffix = "_PTEN_Zeiss_4096.jpg"

func writeImages(t *testing.T, dir string, locs ...string) {
	t.Helper()
	for _, loc := range locs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, loc+testSuffix), []byte("jpeg"), 0o644))
	}
}

func newTestBatch(dir string, maxImages int, reports *fakeReports, display *fakeDisplay, out *bytes.Buffer) *BatchService {
	det := &fakeDetector{circles: []entity.Circle{{X: 16, Y: 16, Radius: 3}}}
	cls := &fakeClassifier{labels: []int{1, 1, 1, 1}}
	analysis := NewAnalysisService(testPorts(det, cls), AnalysisOptions{Radius: 3}, zerolog.Nop())

	// nil-указатели не должны превращаться в непустые интерфейсы
	var (
		r port.ReportRepository
		d port.Display
		w io.Writer
	)
	if reports != nil {
		r = reports
	}
	if display != nil {
		d = display
	}
	if out != nil {
		w = out
	}

	return NewBatchService(analysis, r, d, BatchOptions{
		ImageDir:    dir,
		ImageSuffix: testSuffix,
		MaxImages:   maxImages,
	}, w, zerolog.Nop())
}

func TestBatchRun_HonorsMaxImages(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "A01", "A02")

	reports := &fakeReports{}
	display := &fakeDisplay{}
	var out bytes.Buffer
	svc := newTestBatch(dir, 1, reports, display, &out)

	records := []entity.Record{{Label: "x", Loc: "A01"}, {Label: "y", Loc: "A02"}}
	res, err := svc.Run(context.Background(), records)
	require.NoError(t, err)

	require.NotEmpty(t, res.RunID)
	require.Len(t, res.Analyses, 1)
	require.Equal(t, "A01", res.Analyses[0].Record.Loc)
	require.Equal(t, []string{"A01"}, display.titles)

	summaries, err := reports.ListByRun(context.Background(), res.RunID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	require.Contains(t, out.String(), "# circles: 1")
	require.Contains(t, out.String(), "[16,16]: #000000")
	require.Contains(t, out.String(), "cep=1 gene=0 skipped=0 ratio=0.0000")
}

func TestBatchRun_AllImages(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "A01", "A02")

	svc := newTestBatch(dir, 0, nil, nil, nil)

	res, err := svc.Run(context.Background(), []entity.Record{{Loc: "A01"}, {Loc: "A02"}})
	require.NoError(t, err)
	require.Len(t, res.Analyses, 2)
}

func TestBatchRun_MissingImage(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "A01")

	svc := newTestBatch(dir, 0, nil, nil, nil)

	res, err := svc.Run(context.Background(), []entity.Record{{Loc: "A01"}, {Loc: "B01"}})
	require.Error(t, err)
	require.Len(t, res.Analyses, 1)
}

func TestBatchRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeImages(t, dir, "A01")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestBatch(dir, 0, nil, nil, nil).Run(ctx, []entity.Record{{Loc: "A01"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestBatchImagePath(t *testing.T) {
	svc := newTestBatch("images", 0, nil, nil, nil)
	require.Equal(t, filepath.Join("images", "C07"+testSuffix), svc.ImagePath(entity.Record{Loc: "C07"}))
}
