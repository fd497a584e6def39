package svm

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"ish-detector/internal/domain/port"
)

var (
	// ErrUnsupportedModel — тип модели или ядра не поддерживается
	ErrUnsupportedModel = errors.New("unsupported svm model")
	// ErrFeatureCount — длина вектора признаков не подходит модели
	ErrFeatureCount = errors.New("feature vector does not match model")
)

// Type — тип SVM в терминах LibSVM
type Type string

const (
	CSVC       Type = "c_svc"
	NuSVC      Type = "nu_svc"
	OneClass   Type = "one_class"
	EpsilonSVR Type = "epsilon_svr"
	NuSVR      Type = "nu_svr"
)

// KernelType — тип ядра
type KernelType string

const (
	Linear      KernelType = "linear"
	Polynomial  KernelType = "polynomial"
	RBF         KernelType = "rbf"
	Sigmoid     KernelType = "sigmoid"
	Precomputed KernelType = "precomputed"
)

func parseType(s string) (Type, error) {
	t := Type(strings.ToLower(s))
	switch t {
	case CSVC, NuSVC, OneClass, EpsilonSVR, NuSVR:
		return t, nil
	}
	return "", fmt.Errorf("%w: svm type %q", ErrUnsupportedModel, s)
}

func parseKernel(s string) (KernelType, error) {
	switch k := KernelType(strings.ToLower(s)); k {
	case "poly":
		return Polynomial, nil
	case Linear, Polynomial, RBF, Sigmoid, Precomputed:
		return k, nil
	}
	return "", fmt.Errorf("%w: kernel %q", ErrUnsupportedModel, s)
}

// Kernel — параметры ядра
type Kernel struct {
	Type   KernelType
	Degree int
	Gamma  float64
	Coef0  float64
}

// Node — ненулевая компонента опорного вектора, индекс с единицы
type Node struct {
	Index int
	Value float64
}

// Decision — решающая функция пары классов (I, J):
// sum(Alpha[k] * K(SV[Index[k]], x)) - Rho > 0 означает голос за I
type Decision struct {
	I, J  int
	Rho   float64
	Alpha []float64
	Index []int
}

// Model — обученная модель один-против-одного
type Model struct {
	Type          Type
	Kernel        Kernel
	Labels        []int
	SV            [][]Node
	Decisions     []Decision
	Features      int  // ожидаемая длина вектора признаков, 0 если неизвестна
	ExactFeatures bool // длина должна совпадать точно, как в cv::ml::SVM::predict
	ProbA         []float64
	ProbB         []float64
}

// validate проверяет согласованность модели после загрузки
func (m *Model) validate() error {
	if m.Type == "" || m.Kernel.Type == "" {
		return fmt.Errorf("%w: missing svm or kernel type", ErrUnsupportedModel)
	}
	k := len(m.Labels)
	if k < 2 {
		return fmt.Errorf("%w: need at least 2 classes, got %d", ErrUnsupportedModel, k)
	}
	if want := k * (k - 1) / 2; len(m.Decisions) != want {
		return fmt.Errorf("svm model: %d decision functions for %d classes, want %d", len(m.Decisions), k, want)
	}
	for p, d := range m.Decisions {
		if len(d.Alpha) != len(d.Index) {
			return fmt.Errorf("svm model: decision %d has %d alphas and %d indices", p, len(d.Alpha), len(d.Index))
		}
		for _, idx := range d.Index {
			if idx < 0 || idx >= len(m.SV) {
				return fmt.Errorf("svm model: decision %d references support vector %d of %d", p, idx, len(m.SV))
			}
		}
	}
	return nil
}

// Predict возвращает метку класса, набравшего больше всего голосов.
// При равенстве побеждает класс, идущий раньше в списке меток.
func (m *Model) Predict(features []float64) (int, error) {
	if m.Type != CSVC && m.Type != NuSVC {
		return 0, fmt.Errorf("%w: prediction for %s", ErrUnsupportedModel, m.Type)
	}
	if m.Kernel.Type == Precomputed {
		return 0, fmt.Errorf("%w: precomputed kernel", ErrUnsupportedModel)
	}
	if m.Features > 0 && len(features) < m.Features {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureCount, len(features), m.Features)
	}
	if m.ExactFeatures && len(features) != m.Features {
		return 0, fmt.Errorf("%w: got %d features, want exactly %d", ErrFeatureCount, len(features), m.Features)
	}

	var xx float64
	for _, v := range features {
		xx += v * v
	}

	values := make([]float64, len(m.SV))
	for i, sv := range m.SV {
		values[i] = m.kernel(features, xx, sv)
	}

	votes := make([]int, len(m.Labels))
	for _, d := range m.Decisions {
		sum := -d.Rho
		for k, idx := range d.Index {
			sum += d.Alpha[k] * values[idx]
		}
		if sum > 0 {
			votes[d.I]++
		} else {
			votes[d.J]++
		}
	}

	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}

	return m.Labels[best], nil
}

func (m *Model) kernel(x []float64, xx float64, sv []Node) float64 {
	var dot, ss float64
	for _, n := range sv {
		ss += n.Value * n.Value
		if i := n.Index - 1; i >= 0 && i < len(x) {
			dot += n.Value * x[i]
		}
	}

	k := m.Kernel
	switch k.Type {
	case Linear:
		return dot
	case Polynomial:
		return math.Pow(k.Gamma*dot+k.Coef0, float64(k.Degree))
	case RBF:
		return math.Exp(-k.Gamma * (xx + ss - 2*dot))
	case Sigmoid:
		return math.Tanh(k.Gamma*dot + k.Coef0)
	}
	return 0
}

var _ port.Classifier = (*Model)(nil)
