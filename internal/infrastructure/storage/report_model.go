package storage

import (
	"time"

	"ish-detector/internal/domain/entity"
)

// AnalysisModel — строка таблицы analyses
type AnalysisModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	RunID       string `gorm:"index;size:36;not null"`
	Seq         int    `gorm:"not null"`
	Label       string
	Loc         string `gorm:"index"`
	ImageWidth  int
	ImageHeight int
	Circles     int
	CepCount    int
	GeneCount   int
	Skipped     int
	Ratio       float64
	Signals     []SignalModel `gorm:"foreignKey:AnalysisID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

func (AnalysisModel) TableName() string { return "analyses" }

// SignalModel — классифицированная точка анализа
type SignalModel struct {
	ID         uint   `gorm:"primaryKey"`
	AnalysisID string `gorm:"index;size:36;not null"`
	X          int
	Y          int
	Label      int
	Cep        bool
	Gene       bool
	Color      string `gorm:"size:7"`
}

func (SignalModel) TableName() string { return "signals" }

// ToSummary переводит строку в доменную сводку
func (m *AnalysisModel) ToSummary() entity.Summary {
	return entity.Summary{
		Loc:     m.Loc,
		Circles: m.Circles,
		Cep:     m.CepCount,
		Gene:    m.GeneCount,
		Skipped: m.Skipped,
		Ratio:   m.Ratio,
	}
}

// signalsOf объединяет точки cep и gene; точка класса "оба" хранится один раз
func signalsOf(a *entity.Analysis) []SignalModel {
	type key struct{ x, y, label int }
	index := make(map[key]int, len(a.Cep)+len(a.Gene))
	out := make([]SignalModel, 0, len(a.Cep)+len(a.Gene))

	add := func(p entity.PointSignal, cep bool) {
		k := key{p.X, p.Y, p.Label}
		if i, ok := index[k]; ok {
			out[i].Cep = out[i].Cep || cep
			out[i].Gene = out[i].Gene || !cep
			return
		}
		index[k] = len(out)
		out = append(out, SignalModel{X: p.X, Y: p.Y, Label: p.Label, Cep: cep, Gene: !cep, Color: p.Color.Hex()})
	}
	for _, p := range a.Cep {
		add(p, true)
	}
	for _, p := range a.Gene {
		add(p, false)
	}
	return out
}
