package entity

import "math"

// Circle — окружность, найденная детектором
type Circle struct {
	X      float64 // координата X центра
	Y      float64 // координата Y центра
	Radius float64 // радиус в пикселях
	Votes  int     // голоса аккумулятора (0, если детектор их не сообщает)
}

// Center возвращает центр, округлённый вниз до целых пикселей
func (c Circle) Center() (x, y int) {
	return int(math.Floor(c.X)), int(math.Floor(c.Y))
}
