package table

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ish-detector/internal/domain/entity"
)

func TestRecords_KeepsFileOrder(t *testing.T) {
	input := "Label;Loc\nneg;A01\npos;A02  \namp;A03\r\n"

	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	records, err := tbl.Records()
	require.NoError(t, err)
	require.Equal(t, []entity.Record{
		{Label: "neg", Loc: "A01"},
		{Label: "pos", Loc: "A02"},
		{Label: "amp", Loc: "A03"},
	}, records)
}

func TestRecords_HeaderOrderIndependent(t *testing.T) {
	input := "Id;Loc;Score;Label\n1;B07;0.5;pos\n2;B08;0.1;neg\n"

	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Index(ColumnLoc))
	require.Equal(t, 3, tbl.Index(ColumnLabel))

	records, err := tbl.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, entity.Record{Label: "pos", Loc: "B07"}, records[0])
	require.Equal(t, entity.Record{Label: "neg", Loc: "B08"}, records[1])
}

func TestRecords_InvalidHeader(t *testing.T) {
	for _, header := range []string{"Label;Location", "label;Loc", "Loc", "Name;Other"} {
		t.Run(header, func(t *testing.T) {
			tbl, err := Read(strings.NewReader(header + "\n"))
			require.NoError(t, err)

			_, err = tbl.Records()
			require.ErrorIs(t, err, ErrInvalidHeader)
		})
	}
}

func TestRead_EmptyInput(t *testing.T) {
	tbl, err := Read(strings.NewReader(""))
	require.NoError(t, err)

	_, err = tbl.Records()
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestRead_RowWithWrongFieldCount(t *testing.T) {
	_, err := Read(strings.NewReader("Label;Loc\nonly-one\n"))
	require.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo1.csv")
	require.NoError(t, os.WriteFile(path, []byte("Loc;Label\nC01;x\n"), 0o644))

	tbl, err := ReadFile(path)
	require.NoError(t, err)

	records, err := tbl.Records()
	require.NoError(t, err)
	require.Equal(t, []entity.Record{{Label: "x", Loc: "C01"}}, records)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
