//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"

	"gocv.io/x/gocv"

	"ish-detector/internal/domain/entity"
	"ish-detector/internal/domain/port"
)

// GoCVDetector ищет окружности через cv::HoughCircles
type GoCVDetector struct {
	Params HoughParams
}

// NewGoCVDetector создаёт детектор на OpenCV
func NewGoCVDetector(params HoughParams) *GoCVDetector {
	return &GoCVDetector{Params: params}
}

// Detect размывает серое изображение и запускает градиентный поиск окружностей
func (d *GoCVDetector) Detect(ctx context.Context, img image.Image) ([]entity.Circle, error) {
	gray, err := gocv.ImageGrayToMatGray(ToGray(img))
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	if gray.Empty() {
		return nil, errors.New("empty image")
	}

	// размываем, иначе находится много ложных окружностей
	blurred := gocv.NewMat()
	defer blurred.Close()
	k := d.Params.BlurKernel
	if k%2 == 0 {
		k++
	}
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), d.Params.BlurSigma, d.Params.BlurSigma, gocv.BorderDefault)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		d.Params.DP, d.Params.MinDist,
		d.Params.Param1, d.Params.Param2,
		d.Params.MinRadius, d.Params.MaxRadius)

	if circles.Empty() {
		return nil, nil
	}

	result := make([]entity.Circle, 0, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		v := circles.GetVecfAt(0, i)
		result = append(result, entity.Circle{
			X:      float64(v[0]),
			Y:      float64(v[1]),
			Radius: float64(v[2]),
		})
	}
	return result, nil
}

var _ port.CircleDetector = (*GoCVDetector)(nil)
