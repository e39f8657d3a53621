package workbook

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrWorkbookMissing is returned when the workbook path does not exist.
	ErrWorkbookMissing = errors.New("workbook not found")
	// ErrSheetNotFound is returned when a requested sheet is absent.
	ErrSheetNotFound = errors.New("sheet not found")
)

// Kind classifies a cell value.
type Kind int

const (
	Empty Kind = iota
	Number
	Text
)

// Cell is one spreadsheet value.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
}

// Value returns nil, a float64 or a string depending on the cell kind.
func (c Cell) Value() any {
	switch c.Kind {
	case Number:
		return c.Num
	case Text:
		return c.Str
	default:
		return nil
	}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == Empty
}

// Row is an ordered sequence of cells; trailing empty cells may be absent.
type Row []Cell

// At returns the cell at index i, or an empty cell when out of range.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// ParseCell classifies a raw cell string.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Cell{Kind: Number, Num: f, Str: s}
	}
	return Cell{Kind: Text, Str: raw}
}

// TypedCell classifies a raw value using the type stored for the cell. Only
// numeric and untyped cells are parsed as numbers; string, formula-string and
// error cells stay text even when they look numeric.
func TypedCell(raw string, typ excelize.CellType) Cell {
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeBool, excelize.CellTypeDate:
		return ParseCell(raw)
	}
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Str: raw}
}

// ParseRows converts raw string rows into typed rows, guessing each kind
// from the text.
func ParseRows(raw [][]string) []Row {
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		row := make(Row, len(r))
		for i, v := range r {
			row[i] = ParseCell(v)
		}
		rows = append(rows, row)
	}
	return rows
}

// Workbook is a fully loaded set of sheets.
type Workbook struct {
	Path   string
	sheets map[string][]Row
}

// Load opens the workbook at path and reads every named sheet into memory.
func Load(path string, sheets ...string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWorkbookMissing, path)
		}
		return nil, fmt.Errorf("stat workbook: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	available := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		available[name] = true
	}

	wb := &Workbook{Path: path, sheets: make(map[string][]Row, len(sheets))}
	for _, name := range sheets {
		if !available[name] {
			return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, path)
		}
		rows, err := readSheet(f, name)
		if err != nil {
			return nil, err
		}
		wb.sheets[name] = rows
	}
	return wb, nil
}

func readSheet(f *excelize.File, sheet string) ([]Row, error) {
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows := make([]Row, 0, len(raw))
	for r, values := range raw {
		row := make(Row, len(values))
		for c, v := range values {
			if strings.TrimSpace(v) == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("cell type %s!%s: %w", sheet, ref, err)
			}
			row[c] = TypedCell(v, typ)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rows returns the loaded rows of a sheet.
func (w *Workbook) Rows(sheet string) ([]Row, error) {
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q was not loaded", ErrSheetNotFound, sheet)
	}
	return rows, nil
}
