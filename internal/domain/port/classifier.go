package port

// Classifier интерфейс обученного классификатора фрагментов
type Classifier interface {
	// Predict возвращает метку класса для вектора признаков
	Predict(features []float64) (int, error)
}
