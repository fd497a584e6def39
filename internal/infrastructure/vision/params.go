package vision

// HoughParams — параметры предобработки и градиентного преобразования Хафа
type HoughParams struct {
	BlurKernel int     // размер ядра Гаусса (нечётный)
	BlurSigma  float64 // сигма Гаусса
	DP         float64 // отношение разрешения аккумулятора к изображению
	MinDist    float64 // минимальное расстояние между центрами
	Param1     float64 // верхний порог Canny, нижний — половина
	Param2     float64 // порог голосов аккумулятора
	MinRadius  int
	MaxRadius  int
}

// DefaultHoughParams возвращает параметры для точечного сигнала радиуса r
func DefaultHoughParams(r int) HoughParams {
	return HoughParams{
		BlurKernel: 9,
		BlurSigma:  2,
		DP:         1,
		MinDist:    float64(r),
		Param1:     25,
		Param2:     10,
		MinRadius:  maxInt(1, r-2),
		MaxRadius:  r + 4,
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
