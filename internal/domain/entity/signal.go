package entity

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Метки классификатора
const (
	LabelCep  = 1
	LabelGene = 2
	// LabelBoth — метка "оба сигнала" по умолчанию; вторая версия модели использует 5.
	LabelBoth = 3
)

// palette — цвета классов, индексируются меткой. Исходные значения заданы в порядке BGR.
var palette = []colorful.Color{
	bgr(1, 0, 0),
	bgr(0, 0, 0),
	bgr(0.9, 0.9, 0.9),
	bgr(0, 0, 1),
	bgr(0.2510, 0.8784, 0.8157),
}

func bgr(b, g, r float64) colorful.Color {
	return colorful.Color{R: r, G: g, B: b}
}

// ColorFor возвращает цвет класса по метке
func ColorFor(label int) (colorful.Color, bool) {
	if label < 0 || label >= len(palette) {
		return colorful.Color{}, false
	}
	return palette[label], true
}

// PointSignal — классифицированный точечный сигнал
type PointSignal struct {
	X     int
	Y     int
	Label int
	Color colorful.Color
}

// Route решает, в какие коллекции попадает точка с данной меткой
func Route(label, bothLabel int) (cep, gene bool) {
	switch label {
	case LabelCep:
		return true, false
	case LabelGene:
		return false, true
	case bothLabel:
		return true, true
	default:
		return false, false
	}
}
