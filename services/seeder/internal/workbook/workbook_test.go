package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCell(t *testing.T) {
	assert.Equal(t, Cell{}, ParseCell(""))
	assert.Equal(t, Cell{}, ParseCell("   "))
	assert.Equal(t, Cell{Kind: Number, Num: 108, Str: "108"}, ParseCell("108"))
	assert.Equal(t, Cell{Kind: Number, Num: 2.5, Str: "2.5"}, ParseCell(" 2.5 "))
	assert.Equal(t, Cell{Kind: Text, Str: "GUNTUR EAST"}, ParseCell("GUNTUR EAST"))
	assert.Equal(t, Kind(Text), ParseCell("NaN").Kind)
}

func TestRowAt(t *testing.T) {
	row := ParseRows([][]string{{"a", "1"}})[0]
	assert.Equal(t, "a", row.At(0).Value())
	assert.Equal(t, 1.0, row.At(1).Value())
	assert.Nil(t, row.At(5).Value())
	assert.True(t, row.At(-1).IsEmpty())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AE_AP.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "main"))
	require.NoError(t, f.SetSheetRow("main", "A1", &[]interface{}{"Year", "Type"}))
	require.NoError(t, f.SetSheetRow("main", "A2", &[]interface{}{2009, "AE", nil, nil, 108}))
	_, err := f.NewSheet("Sheet4")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Sheet4", "A1", &[]interface{}{"Guntur East"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Load(path, "main", "Sheet4")
	require.NoError(t, err)

	rows, err := wb.Rows("main")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Kind(Text), rows[0].At(0).Kind)
	assert.Equal(t, 2009.0, rows[1].At(0).Num)
	assert.True(t, rows[1].At(2).IsEmpty())
	assert.Equal(t, 108.0, rows[1].At(4).Value())

	marker, err := wb.Rows("Sheet4")
	require.NoError(t, err)
	require.Len(t, marker, 1)
	assert.Equal(t, "Guntur East", marker[0].At(0).Value())
	assert.True(t, marker[0].At(1).IsEmpty())

	_, err = wb.Rows("Sheet1")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoadMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := Load(path, "Sheet2")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoadMissingWorkbook(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), "main")
	assert.ErrorIs(t, err, ErrWorkbookMissing)
}

func TestTypedCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		typ  excelize.CellType
		want Cell
	}{
		{"number", "7", excelize.CellTypeNumber, Cell{Kind: Number, Num: 7, Str: "7"}},
		{"untyped number", "108", excelize.CellTypeUnset, Cell{Kind: Number, Num: 108, Str: "108"}},
		{"bool", "1", excelize.CellTypeBool, Cell{Kind: Number, Num: 1, Str: "1"}},
		{"shared string digits", "7", excelize.CellTypeSharedString, Cell{Kind: Text, Str: "7"}},
		{"inline string digits", "12", excelize.CellTypeInlineString, Cell{Kind: Text, Str: "12"}},
		{"formula string", "3", excelize.CellTypeFormula, Cell{Kind: Text, Str: "3"}},
		{"error", "#DIV/0!", excelize.CellTypeError, Cell{Kind: Text, Str: "#DIV/0!"}},
		{"blank string", "  ", excelize.CellTypeSharedString, Cell{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypedCell(tt.raw, tt.typ))
		})
	}
}

func TestLoadKeepsStoredTextType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), "Sheet4"))
	require.NoError(t, f.SetCellStr("Sheet4", "A1", "TENALI"))
	require.NoError(t, f.SetCellStr("Sheet4", "B1", "7"))
	require.NoError(t, f.SetCellInt("Sheet4", "C1", 7))
	require.NoError(t, f.SetCellFloat("Sheet4", "D1", 2.5, -1, 64))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Load(path, "Sheet4")
	require.NoError(t, err)
	rows, err := wb.Rows("Sheet4")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, Cell{Kind: Text, Str: "TENALI"}, rows[0].At(0))
	assert.Equal(t, Cell{Kind: Text, Str: "7"}, rows[0].At(1), "digits saved as text stay text")
	assert.Equal(t, Cell{Kind: Number, Num: 7, Str: "7"}, rows[0].At(2))
	assert.Equal(t, 2.5, rows[0].At(3).Value())
}
