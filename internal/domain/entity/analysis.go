package entity

// Analysis хранит результат обработки одного изображения
type Analysis struct {
	Record      Record
	ImageWidth  int
	ImageHeight int
	Circles     []Circle      // все кандидаты детектора
	Cep         []PointSignal // сигналы CEP
	Gene        []PointSignal // сигналы гена
	Skipped     int           // кандидаты, которые не удалось классифицировать
}

// Ratio возвращает отношение gene/cep; 0, если сигналов CEP нет
func (a *Analysis) Ratio() float64 {
	if len(a.Cep) == 0 {
		return 0
	}
	return float64(len(a.Gene)) / float64(len(a.Cep))
}

// Add раскладывает точку по коллекциям согласно метке
func (a *Analysis) Add(x, y, label, bothLabel int) bool {
	cep, gene := Route(label, bothLabel)
	if !cep && !gene {
		return false
	}
	c, ok := ColorFor(label)
	if !ok {
		// метки вне палитры рисуем цветом класса "оба"
		c, _ = ColorFor(LabelBoth)
	}
	p := PointSignal{X: x, Y: y, Label: label, Color: c}
	if cep {
		a.Cep = append(a.Cep, p)
	}
	if gene {
		a.Gene = append(a.Gene, p)
	}
	return true
}

// Summary — краткая сводка для пользователя и отчётов
type Summary struct {
	Loc     string
	Circles int
	Cep     int
	Gene    int
	Skipped int
	Ratio   float64
}

// Summarize строит сводку по анализу
func (a *Analysis) Summarize() Summary {
	return Summary{
		Loc:     a.Record.Loc,
		Circles: len(a.Circles),
		Cep:     len(a.Cep),
		Gene:    len(a.Gene),
		Skipped: a.Skipped,
		Ratio:   a.Ratio(),
	}
}
