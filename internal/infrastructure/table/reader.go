package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ish-detector/internal/domain/entity"
)

const (
	// Separator — разделитель полей таблицы
	Separator = ';'

	ColumnLabel = "Label"
	ColumnLoc   = "Loc"
)

// ErrInvalidHeader — в заголовке нет обязательных колонок
var ErrInvalidHeader = errors.New("invalid headers: Label and Loc columns are required")

// Table — прочитанная таблица: заголовок и строки данных
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadFile читает таблицу из файла
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read читает таблицу; число полей задаётся первой строкой
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = Separator
	cr.FieldsPerRecord = 0
	cr.LazyQuotes = true

	t := &Table{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table: %w", err)
		}

		if len(row) > 0 {
			row[len(row)-1] = strings.TrimRight(row[len(row)-1], " \t\r")
		}

		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Index возвращает позицию колонки по точному имени или -1
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Records сопоставляет колонки Label и Loc и возвращает записи в порядке файла
func (t *Table) Records() ([]entity.Record, error) {
	labelIdx := t.Index(ColumnLabel)
	locIdx := t.Index(ColumnLoc)
	if labelIdx == -1 || locIdx == -1 {
		return nil, ErrInvalidHeader
	}

	records := make([]entity.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, entity.Record{
			Label: row[labelIdx],
			Loc:   strings.TrimRightFunc(row[locIdx], isSpace),
		})
	}

	return records, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}
