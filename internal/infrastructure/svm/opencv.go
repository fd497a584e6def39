package svm

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultNodeName — имя узла модели в хранилище OpenCV
const DefaultNodeName = "ish_svm"

const (
	typeIDSVM    = "opencv-ml-svm"
	typeIDMatrix = "opencv-matrix"
)

type cvStorage struct {
	XMLName xml.Name `xml:"opencv_storage"`
	Nodes   []cvSVM  `xml:",any"`
}

type cvSVM struct {
	XMLName    xml.Name
	TypeID     string      `xml:"type_id,attr,omitempty"`
	SVMType    string      `xml:"svm_type"`
	Kernel     cvKernel    `xml:"kernel"`
	C          float64     `xml:"C"`
	VarAll     int         `xml:"var_all"`
	VarCount   int         `xml:"var_count"`
	ClassCount int         `xml:"class_count"`
	Labels     cvMatrix    `xml:"class_labels"`
	SVTotal    int         `xml:"sv_total"`
	SV         cvRows      `xml:"support_vectors"`
	Decisions  cvDecisions `xml:"decision_functions"`
}

type cvKernel struct {
	Type   string   `xml:"type"`
	Degree *int     `xml:"degree,omitempty"`
	Gamma  *float64 `xml:"gamma,omitempty"`
	Coef0  *float64 `xml:"coef0,omitempty"`
}

type cvMatrix struct {
	TypeID string `xml:"type_id,attr,omitempty"`
	Rows   int    `xml:"rows"`
	Cols   int    `xml:"cols"`
	DT     string `xml:"dt"`
	Data   string `xml:"data"`
}

type cvRows struct {
	Rows []string `xml:"_"`
}

type cvDecisions struct {
	Funcs []cvDecision `xml:"_"`
}

type cvDecision struct {
	SVCount int     `xml:"sv_count"`
	Rho     float64 `xml:"rho"`
	Alpha   string  `xml:"alpha"`
	Index   string  `xml:"index"`
}

// LoadOpenCV читает модель из XML-хранилища OpenCV по имени узла
func LoadOpenCV(path, name string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open opencv model: %w", err)
	}
	defer f.Close()

	return ParseOpenCV(f, name)
}

// ParseOpenCV разбирает XML-хранилище OpenCV и ищет узел name
func ParseOpenCV(r io.Reader, name string) (*Model, error) {
	if name == "" {
		name = DefaultNodeName
	}

	var doc cvStorage
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("opencv model: %w", err)
	}

	var node *cvSVM
	for i := range doc.Nodes {
		if doc.Nodes[i].XMLName.Local == name {
			node = &doc.Nodes[i]
			break
		}
	}
	if node == nil {
		return nil, fmt.Errorf("opencv model: node %q not found", name)
	}
	if node.TypeID != "" && node.TypeID != typeIDSVM {
		return nil, fmt.Errorf("%w: node %q has type %q", ErrUnsupportedModel, name, node.TypeID)
	}

	return node.toModel()
}

func (n *cvSVM) toModel() (*Model, error) {
	t, err := parseType(n.SVMType)
	if err != nil {
		return nil, err
	}
	kt, err := parseKernel(n.Kernel.Type)
	if err != nil {
		return nil, err
	}

	m := &Model{
		Type:          t,
		Kernel:        Kernel{Type: kt, Degree: 3},
		Features:      n.VarCount,
		ExactFeatures: n.VarCount > 0,
	}
	if n.Kernel.Degree != nil {
		m.Kernel.Degree = *n.Kernel.Degree
	}
	if n.Kernel.Gamma != nil {
		m.Kernel.Gamma = *n.Kernel.Gamma
	}
	if n.Kernel.Coef0 != nil {
		m.Kernel.Coef0 = *n.Kernel.Coef0
	}

	if m.Labels, err = parseInts(strings.Fields(n.Labels.Data)); err != nil {
		return nil, fmt.Errorf("opencv model: class_labels: %w", err)
	}
	if n.ClassCount != 0 && n.ClassCount != len(m.Labels) {
		return nil, fmt.Errorf("opencv model: class_count %d, got %d labels", n.ClassCount, len(m.Labels))
	}

	for i, row := range n.SV.Rows {
		values, err := parseFloats(strings.Fields(row))
		if err != nil {
			return nil, fmt.Errorf("opencv model: support vector %d: %w", i, err)
		}
		nodes := make([]Node, 0, len(values))
		for j, v := range values {
			if v != 0 {
				nodes = append(nodes, Node{Index: j + 1, Value: v})
			}
		}
		m.SV = append(m.SV, nodes)
	}
	if n.SVTotal != 0 && n.SVTotal != len(m.SV) {
		return nil, fmt.Errorf("opencv model: sv_total %d, got %d support vectors", n.SVTotal, len(m.SV))
	}

	k := len(m.Labels)
	p := 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if p >= len(n.Decisions.Funcs) {
				return nil, fmt.Errorf("opencv model: %d decision functions for %d classes", len(n.Decisions.Funcs), k)
			}
			f := n.Decisions.Funcs[p]
			alpha, err := parseFloats(strings.Fields(f.Alpha))
			if err != nil {
				return nil, fmt.Errorf("opencv model: decision %d alpha: %w", p, err)
			}
			index, err := parseInts(strings.Fields(f.Index))
			if err != nil {
				return nil, fmt.Errorf("opencv model: decision %d index: %w", p, err)
			}
			if f.SVCount != 0 && f.SVCount != len(alpha) {
				return nil, fmt.Errorf("opencv model: decision %d sv_count %d, got %d alphas", p, f.SVCount, len(alpha))
			}
			m.Decisions = append(m.Decisions, Decision{I: i, J: j, Rho: f.Rho, Alpha: alpha, Index: index})
			p++
		}
	}
	if p != len(n.Decisions.Funcs) {
		return nil, fmt.Errorf("opencv model: %d decision functions for %d classes", len(n.Decisions.Funcs), k)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteOpenCV сохраняет модель в XML-хранилище OpenCV под именем name.
// Коэффициенты альфа пишутся со знаком.
func WriteOpenCV(w io.Writer, m *Model, name string) error {
	if m == nil {
		return errors.New("opencv model: nil model")
	}
	if err := m.validate(); err != nil {
		return err
	}
	if name == "" {
		name = DefaultNodeName
	}

	vars := m.Features
	for _, sv := range m.SV {
		for _, n := range sv {
			if n.Index > vars {
				vars = n.Index
			}
		}
	}

	node := cvSVM{
		TypeID:     typeIDSVM,
		SVMType:    strings.ToUpper(string(m.Type)),
		Kernel:     cvKernel{Type: strings.ToUpper(string(m.Kernel.Type))},
		C:          1,
		VarAll:     vars,
		VarCount:   vars,
		ClassCount: len(m.Labels),
		Labels: cvMatrix{
			TypeID: typeIDMatrix,
			Rows:   1,
			Cols:   len(m.Labels),
			DT:     "i",
			Data:   joinInts(m.Labels),
		},
		SVTotal: len(m.SV),
	}
	if m.Kernel.Type == Polynomial {
		node.Kernel.Type = "POLY"
	}
	if m.Kernel.Type != Linear {
		degree, gamma, coef0 := m.Kernel.Degree, m.Kernel.Gamma, m.Kernel.Coef0
		node.Kernel.Degree, node.Kernel.Gamma, node.Kernel.Coef0 = &degree, &gamma, &coef0
	}

	for _, sv := range m.SV {
		dense := make([]float64, vars)
		for _, n := range sv {
			if n.Index >= 1 {
				dense[n.Index-1] = n.Value
			}
		}
		node.SV.Rows = append(node.SV.Rows, joinFloats(dense))
	}
	for _, d := range m.Decisions {
		node.Decisions.Funcs = append(node.Decisions.Funcs, cvDecision{
			SVCount: len(d.Alpha),
			Rho:     d.Rho,
			Alpha:   joinFloats(d.Alpha),
			Index:   joinInts(d.Index),
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	root := xml.StartElement{Name: xml.Name{Local: "opencv_storage"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	if err := enc.EncodeElement(node, xml.StartElement{Name: xml.Name{Local: name}}); err != nil {
		return fmt.Errorf("opencv model: encode: %w", err)
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
