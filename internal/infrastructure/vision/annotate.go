package vision

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

// CandidateColor — цвет контура всех найденных окружностей
var CandidateColor = color.NRGBA{G: 255, A: 255}

// bezierCircle — смещение контрольных точек кубической дуги в четверть окружности
const bezierCircle = 0.5522847

// strokes возвращает толщину кольца и радиус метки так, чтобы после
// уменьшения до size x size они оставались видимыми
func strokes(b image.Rectangle, size int) (thickness, marker int) {
	scale := 1.0
	if size > 0 {
		scale = math.Max(float64(maxInt(b.Dx(), b.Dy()))/float64(size), 1)
	}
	return maxInt(1, int(math.Round(scale))), maxInt(3, int(math.Round(3*scale)))
}

// signalPoints возвращает сигналы без повторов: точка класса "оба" есть и в Cep, и в Gene
func signalPoints(a *entity.Analysis) []entity.PointSignal {
	seen := make(map[image.Point]bool, len(a.Cep)+len(a.Gene))
	out := make([]entity.PointSignal, 0, len(a.Cep)+len(a.Gene))
	for _, group := range [][]entity.PointSignal{a.Cep, a.Gene} {
		for _, s := range group {
			p := image.Pt(s.X, s.Y)
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, s)
		}
	}
	return out
}

func signalColor(s entity.PointSignal) color.NRGBA {
	r, g, b := s.Color.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// VectorAnnotator рисует разметку растеризатором x/image/vector
type VectorAnnotator struct {
	mu sync.Mutex
	z  vector.Rasterizer
}

func NewVectorAnnotator() *VectorAnnotator {
	return &VectorAnnotator{}
}

// Annotate рисует кандидатов и классифицированные сигналы и приводит результат к size x size.
// При size <= 0 размер не меняется.
func (v *VectorAnnotator) Annotate(img image.Image, a *entity.Analysis, size int) (image.Image, error) {
	dst := imaging.Clone(img)
	b := dst.Bounds()
	thickness, marker := strokes(b, size)

	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range a.Circles {
		x, y := c.Center()
		r := int(math.Round(c.Radius)) + thickness
		v.ring(dst, x, y, float32(r)+0.5, float32(r-thickness)+0.5, CandidateColor)
	}
	for _, s := range signalPoints(a) {
		v.ring(dst, s.X, s.Y, float32(marker)+0.5, 0, signalColor(s))
	}

	if size > 0 && (b.Dx() != size || b.Dy() != size) {
		return imaging.Resize(dst, size, size, imaging.Lanczos), nil
	}
	return dst, nil
}

// ring закрашивает кольцо между inner и outer вокруг центра пикселя (cx, cy);
// при inner == 0 получается круг
func (v *VectorAnnotator) ring(dst *image.NRGBA, cx, cy int, outer, inner float32, c color.NRGBA) {
	pad := int(math.Ceil(float64(outer))) + 1
	// область может выходить за край снимка: запись за границей *image.NRGBA игнорируется
	area := image.Rect(cx-pad, cy-pad, cx+pad+1, cy+pad+1)
	if !area.Overlaps(dst.Bounds()) {
		return
	}

	v.z.Reset(area.Dx(), area.Dy())
	ox := float32(cx-area.Min.X) + 0.5
	oy := float32(cy-area.Min.Y) + 0.5
	circlePath(&v.z, ox, oy, outer, false)
	if inner > 0 {
		// обратный обход вычитает внутренний круг
		circlePath(&v.z, ox, oy, inner, true)
	}
	v.z.Draw(dst, area, image.NewUniform(c), image.Point{})
}

func circlePath(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	k := bezierCircle * r
	z.MoveTo(cx+r, cy)
	if reverse {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	}
	z.ClosePath()
}

var _ port.Annotator = (*VectorAnnotator)(nil)
