package vision

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/convolution"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

const (
	tan22 = 0.41421356 // tg(22.5°)
	tan67 = 2.41421356 // tg(67.5°)
)

// HoughDetector ищет окружности градиентным методом Хафа без OpenCV
type HoughDetector struct {
	Params HoughParams
}

// NewHoughDetector создаёт детектор с заданными параметрами
func NewHoughDetector(params HoughParams) *HoughDetector {
	return &HoughDetector{Params: params}
}

// Detect переводит изображение в серое, размывает его и запускает преобразование Хафа
func (d *HoughDetector) Detect(ctx context.Context, img image.Image) ([]entity.Circle, error) {
	gray := ToGray(img)
	blurred := GaussianBlur(gray, d.Params.BlurKernel, d.Params.BlurSigma)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return HoughCircles(ctx, blurred, d.Params)
}

// GaussianBlur размывает серое изображение ядром size x size
func GaussianBlur(gray *image.Gray, size int, sigma float64) *image.Gray {
	if size < 3 {
		return gray
	}
	if size%2 == 0 {
		size++
	}
	if sigma <= 0 {
		// формула OpenCV для сигмы по размеру ядра
		sigma = 0.3*(float64(size-1)*0.5-1) + 0.8
	}

	// ядро Гаусса разделимо: сначала по строкам, потом по столбцам
	kx := convolution.NewKernel(size, 1)
	ky := convolution.NewKernel(1, size)
	half := size / 2
	for i := 0; i < size; i++ {
		d := float64(i - half)
		v := math.Exp(-(d * d) / (2 * sigma * sigma))
		kx.Matrix[i] = v
		ky.Matrix[i] = v
	}

	opts := &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: false}
	rgba := convolution.Convolve(gray, kx.Normalized(), opts)
	rgba = convolution.Convolve(rgba, ky.Normalized(), opts)

	b := rgba.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}

// gradients — результат Canny: производные Собеля и маска границ
type gradients struct {
	w, h   int
	dx, dy []int16
	edges  []bool
}

// canny считает производные Собеля, подавляет немаксимумы и выполняет гистерезис
func canny(gray *image.Gray, low, high float64) *gradients {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	g := &gradients{
		w:     w,
		h:     h,
		dx:    make([]int16, w*h),
		dy:    make([]int16, w*h),
		edges: make([]bool, w*h),
	}
	if w < 3 || h < 3 {
		return g
	}

	px := func(x, y int) int { return int(gray.Pix[y*gray.Stride+x]) }
	mag := make([]int16, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := px(x+1, y-1) + 2*px(x+1, y) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x-1, y) - px(x-1, y+1)
			gy := px(x-1, y+1) + 2*px(x, y+1) + px(x+1, y+1) - px(x-1, y-1) - 2*px(x, y-1) - px(x+1, y-1)
			i := y*w + x
			g.dx[i], g.dy[i] = int16(gx), int16(gy)
			mag[i] = int16(absInt(gx) + absInt(gy))
		}
	}

	// 0 — не граница, 1 — слабая, 2 — сильная
	state := make([]uint8, w*h)
	stack := make([]int, 0, 1024)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			m := float64(mag[i])
			if m <= low {
				continue
			}

			ax, ay := math.Abs(float64(g.dx[i])), math.Abs(float64(g.dy[i]))
			var a, b int16
			switch {
			case ay <= ax*tan22:
				a, b = mag[i-1], mag[i+1]
			case ay > ax*tan67:
				a, b = mag[i-w], mag[i+w]
			case (g.dx[i] < 0) != (g.dy[i] < 0):
				a, b = mag[i-w+1], mag[i+w-1]
			default:
				a, b = mag[i-w-1], mag[i+w+1]
			}
			if mag[i] <= a || mag[i] < b {
				continue
			}

			if m > high {
				state[i] = 2
				stack = append(stack, i)
			} else {
				state[i] = 1
			}
		}
	}

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.edges[i] {
			continue
		}
		g.edges[i] = true

		for _, off := range [...]int{-w - 1, -w, -w + 1, -1, 1, w - 1, w, w + 1} {
			j := i + off
			if j >= 0 && j < len(state) && state[j] != 0 && !g.edges[j] {
				stack = append(stack, j)
			}
		}
	}

	return g
}

type houghCandidate struct {
	idx   int
	votes int32
}

// HoughCircles находит окружности на уже размытом сером изображении.
// Результат отсортирован по убыванию голосов аккумулятора.
func HoughCircles(ctx context.Context, gray *image.Gray, p HoughParams) ([]entity.Circle, error) {
	dp := p.DP
	if dp < 1 {
		dp = 1
	}
	minR, maxR := maxInt(p.MinRadius, 1), p.MaxRadius
	if maxR < minR {
		maxR = minR
	}

	g := canny(gray, p.Param1/2, p.Param1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	aw := int(math.Ceil(float64(g.w) / dp))
	ah := int(math.Ceil(float64(g.h) / dp))
	acc := make([]int32, aw*ah)

	edgePoints := 0
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			i := y*g.w + x
			if !g.edges[i] {
				continue
			}
			fx, fy := float64(g.dx[i]), float64(g.dy[i])
			m := math.Hypot(fx, fy)
			if m == 0 {
				continue
			}
			edgePoints++
			ux, uy := fx/m, fy/m
			cx0, cy0 := float64(x)+0.5, float64(y)+0.5

			for _, sign := range [...]float64{1, -1} {
				for r := minR; r <= maxR; r++ {
					vx := (cx0 + sign*float64(r)*ux) / dp
					vy := (cy0 + sign*float64(r)*uy) / dp
					ix, iy := int(math.Floor(vx)), int(math.Floor(vy))
					if ix < 0 || iy < 0 || ix >= aw || iy >= ah {
						break
					}
					acc[iy*aw+ix]++
				}
			}
		}
	}
	if edgePoints == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	threshold := int32(p.Param2)
	candidates := make([]houghCandidate, 0, 256)
	for y := 1; y < ah-1; y++ {
		for x := 1; x < aw-1; x++ {
			i := y*aw + x
			v := acc[i]
			if v > threshold && v > acc[i-1] && v >= acc[i+1] && v > acc[i-aw] && v >= acc[i+aw] {
				candidates = append(candidates, houghCandidate{idx: i, votes: v})
			}
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].votes > candidates[b].votes
	})

	minDist2 := p.MinDist * p.MinDist
	circles := make([]entity.Circle, 0, len(candidates))
	hist := make([]int, maxR+1)

	for n, c := range candidates {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cx := (float64(c.idx%aw) + 0.5) * dp
		cy := (float64(c.idx/aw) + 0.5) * dp

		tooClose := false
		for _, prev := range circles {
			ddx, ddy := prev.X-cx, prev.Y-cy
			if ddx*ddx+ddy*ddy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		r, support := estimateRadius(g, cx, cy, minR, maxR, hist)
		if support == 0 {
			continue
		}

		circles = append(circles, entity.Circle{X: cx, Y: cy, Radius: float64(r), Votes: int(c.votes)})
	}

	return circles, nil
}

// estimateRadius выбирает радиус, на котором лежит больше всего граничных точек
func estimateRadius(g *gradients, cx, cy float64, minR, maxR int, hist []int) (int, int) {
	for i := range hist {
		hist[i] = 0
	}

	x0 := maxInt(0, int(cx)-maxR-1)
	x1 := minInt(g.w-1, int(cx)+maxR+1)
	y0 := maxInt(0, int(cy)-maxR-1)
	y1 := minInt(g.h-1, int(cy)+maxR+1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !g.edges[y*g.w+x] {
				continue
			}
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			r := int(math.Round(d))
			if r >= minR && r <= maxR {
				hist[r]++
			}
		}
	}

	best, support := 0, 0
	for r := minR; r <= maxR; r++ {
		// сравниваем плотность точек на окружности
		if support == 0 || hist[r]*best > support*r {
			if hist[r] > 0 {
				best, support = r, hist[r]
			}
		}
	}
	return best, support
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ port.CircleDetector = (*HoughDetector)(nil)
