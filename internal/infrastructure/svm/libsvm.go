package svm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadLibSVM читает модель в текстовом формате LibSVM
func LoadLibSVM(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open libsvm model: %w", err)
	}
	defer f.Close()

	return ParseLibSVM(f)
}

type libsvmHeader struct {
	nrClass int
	totalSV int
	rho     []float64
	nrSV    []int
}

// ParseLibSVM разбирает модель LibSVM и переводит её в решающие функции пар классов
func ParseLibSVM(r io.Reader) (*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	m := &Model{Kernel: Kernel{Degree: 3}}
	var h libsvmHeader
	gammaSet := false
	inSV := false

	for !inSV && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		key, args := fields[0], fields[1:]

		var err error
		switch key {
		case "svm_type":
			m.Type, err = parseType(first(args))
		case "kernel_type":
			m.Kernel.Type, err = parseKernel(first(args))
		case "degree":
			m.Kernel.Degree, err = strconv.Atoi(first(args))
		case "gamma":
			m.Kernel.Gamma, err = strconv.ParseFloat(first(args), 64)
			gammaSet = true
		case "coef0":
			m.Kernel.Coef0, err = strconv.ParseFloat(first(args), 64)
		case "nr_class":
			h.nrClass, err = strconv.Atoi(first(args))
		case "total_sv":
			h.totalSV, err = strconv.Atoi(first(args))
		case "rho":
			h.rho, err = parseFloats(args)
		case "label":
			m.Labels, err = parseInts(args)
		case "probA":
			m.ProbA, err = parseFloats(args)
		case "probB":
			m.ProbB, err = parseFloats(args)
		case "nr_sv":
			h.nrSV, err = parseInts(args)
		case "SV":
			inSV = true
		default:
			return nil, fmt.Errorf("libsvm model: unknown header %q", key)
		}
		if err != nil {
			return nil, fmt.Errorf("libsvm model: %s: %w", key, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("libsvm model: %w", err)
	}
	if !inSV {
		return nil, errors.New("libsvm model: missing SV section")
	}
	if !gammaSet && m.Kernel.Type != Linear {
		return nil, errors.New("libsvm model: missing gamma")
	}
	if h.nrClass < 2 || len(m.Labels) != h.nrClass || len(h.nrSV) != h.nrClass {
		return nil, fmt.Errorf("%w: libsvm model needs labels and nr_sv for %d classes", ErrUnsupportedModel, h.nrClass)
	}
	if len(h.rho) != h.nrClass*(h.nrClass-1)/2 {
		return nil, fmt.Errorf("libsvm model: %d rho values for %d classes", len(h.rho), h.nrClass)
	}

	coef := make([][]float64, h.nrClass-1)
	for i := range coef {
		coef[i] = make([]float64, 0, h.totalSV)
	}
	m.SV = make([][]Node, 0, h.totalSV)

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < h.nrClass-1 {
			return nil, fmt.Errorf("libsvm model: support vector %d has too few coefficients", len(m.SV))
		}
		for i := 0; i < h.nrClass-1; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("libsvm model: support vector %d: %w", len(m.SV), err)
			}
			coef[i] = append(coef[i], v)
		}

		nodes, err := parseNodes(fields[h.nrClass-1:])
		if err != nil {
			return nil, fmt.Errorf("libsvm model: support vector %d: %w", len(m.SV), err)
		}
		for _, n := range nodes {
			if n.Index > m.Features {
				m.Features = n.Index
			}
		}
		m.SV = append(m.SV, nodes)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("libsvm model: %w", err)
	}

	sum := 0
	for _, n := range h.nrSV {
		sum += n
	}
	if len(m.SV) != h.totalSV || sum != h.totalSV {
		return nil, fmt.Errorf("libsvm model: read %d support vectors, header declares %d (nr_sv sum %d)", len(m.SV), h.totalSV, sum)
	}

	m.Decisions = decisionsFromCoef(h.nrSV, coef, h.rho)
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// decisionsFromCoef раскладывает матрицу sv_coef LibSVM по парам классов.
// Для пары (i, j) опорные векторы класса i берут строку j-1, класса j — строку i.
func decisionsFromCoef(nrSV []int, coef [][]float64, rho []float64) []Decision {
	k := len(nrSV)
	start := make([]int, k)
	for i := 1; i < k; i++ {
		start[i] = start[i-1] + nrSV[i-1]
	}

	decisions := make([]Decision, 0, k*(k-1)/2)
	p := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			d := Decision{I: i, J: j, Rho: rho[p]}
			for n := 0; n < nrSV[i]; n++ {
				d.Index = append(d.Index, start[i]+n)
				d.Alpha = append(d.Alpha, coef[j-1][start[i]+n])
			}
			for n := 0; n < nrSV[j]; n++ {
				d.Index = append(d.Index, start[j]+n)
				d.Alpha = append(d.Alpha, coef[i][start[j]+n])
			}
			decisions = append(decisions, d)
			p++
		}
	}
	return decisions
}

func first(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseInts(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseNodes(fields []string) ([]Node, error) {
	nodes := make([]Node, 0, len(fields))
	for _, f := range fields {
		idx, val, ok := strings.Cut(f, ":")
		if !ok {
			return nil, fmt.Errorf("bad node %q", f)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("bad node index %q: %w", f, err)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("bad node value %q: %w", f, err)
		}
		nodes = append(nodes, Node{Index: i, Value: v})
	}
	return nodes, nil
}
