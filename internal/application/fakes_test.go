package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

type fakeDetector struct {
	circles []entity.Circle
	err     error
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.Circle, error) {
	return d.circles, d.err
}

// fakeClassifier возвращает метки по порядку вызовов
type fakeClassifier struct {
	labels []int
	calls  int
	sizes  []int
}

var errPredict = errors.New("predict failed")

func (c *fakeClassifier) Predict(features []float64) (int, error) {
	c.sizes = append(c.sizes, len(features))
	if c.calls >= len(c.labels) {
		return 0, errPredict
	}
	l := c.labels[c.calls]
	c.calls++
	return l, nil
}

type fakeReports struct {
	mu    sync.Mutex
	saved map[string][]*entity.Analysis
}

func (r *fakeReports) Save(ctx context.Context, runID string, a *entity.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = make(map[string][]*entity.Analysis)
	}
	r.saved[runID] = append(r.saved[runID], a)
	return nil
}

func (r *fakeReports) ListByRun(ctx context.Context, runID string) ([]entity.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Summary, 0, len(r.saved[runID]))
	for _, a := range r.saved[runID] {
		out = append(out, a.Summarize())
	}
	return out, nil
}

type fakeDisplay struct {
	titles []string
}

func (d *fakeDisplay) Show(title string, img image.Image) error {
	d.titles = append(d.titles, title)
	return nil
}

// fakeCodec читает из файла только факт его существования
type fakeCodec struct{}

var errDecode = errors.New("not an image")

func (fakeCodec) Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return image.NewGray(image.Rect(0, 0, 32, 32)), nil
}

// Decode понимает только строку "WxH"
func (fakeCodec) Decode(data []byte) (image.Image, error) {
	var w, h int
	if _, err := fmt.Sscanf(string(data), "%dx%d", &w, &h); err != nil {
		return nil, errDecode
	}
	return image.NewGray(image.Rect(0, 0, w, h)), nil
}

func (fakeCodec) Encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	return []byte(fmt.Sprintf("%dx%d", b.Dx(), b.Dy())), nil
}

var errOutOfBounds = errors.New("out of bounds")

// fakePatches отдаёт нулевые признаки нужной длины
type fakePatches struct{}

func (fakePatches) Prepare(img image.Image) port.Patches {
	return fakePatchSet{bounds: image.Rectangle{Max: img.Bounds().Size()}}
}

type fakePatchSet struct {
	bounds image.Rectangle
}

func (p fakePatchSet) Size() image.Point { return p.bounds.Size() }

func (p fakePatchSet) Patch(x, y, r int) ([]float64, error) {
	if !image.Rect(x-r, y-r, x+r, y+r).In(p.bounds) {
		return nil, errOutOfBounds
	}
	return make([]float64, 4*r*r), nil
}

// fakeAnnotator возвращает пустую картинку нужного размера
type fakeAnnotator struct {
	calls int
	err   error
}

func (f *fakeAnnotator) Annotate(img image.Image, a *entity.Analysis, size int) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if size <= 0 {
		return img, nil
	}
	return image.NewGray(image.Rect(0, 0, size, size)), nil
}

func testPorts(d port.CircleDetector, c port.Classifier) AnalysisPorts {
	return AnalysisPorts{
		Detector:   d,
		Classifier: c,
		Patches:    fakePatches{},
		Annotator:  &fakeAnnotator{},
		Codec:      fakeCodec{},
	}
}
