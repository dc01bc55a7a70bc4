package xls2gd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// memWorkbook is a Workbook held in memory; sheets keep their order.
type memWorkbook struct {
	names  []string
	sheets map[string][][]Cell
	closed bool
}

func newMemWorkbook() *memWorkbook {
	return &memWorkbook{sheets: make(map[string][][]Cell)}
}

func (wb *memWorkbook) add(name string, rows ...[]Cell) *memWorkbook {
	wb.names = append(wb.names, name)
	wb.sheets[name] = rows
	return wb
}

func (wb *memWorkbook) Close() error         { wb.closed = true; return nil }
func (wb *memWorkbook) SheetNames() []string { return wb.names }
func (wb *memWorkbook) Rows(sheet string) ([][]Cell, error) {
	return wb.sheets[sheet], nil
}

// texts returns a row of text cells; "" stays empty.
func texts(ss ...string) []Cell {
	row := make([]Cell, len(ss))
	for i, s := range ss {
		if s != "" {
			row[i] = Text(s)
		}
	}
	return row
}

// header returns the four header rows of a sheet.
func header(titles, types, roles []string) [][]Cell {
	return [][]Cell{texts("description"), texts(titles...), texts(types...), texts(roles...)}
}

func sheetRows(h [][]Cell, data ...[]Cell) [][]Cell {
	return append(h, data...)
}

func mustTable(t *testing.T, sheet string, rows [][]Cell) *Table {
	t.Helper()
	sn, ok := ParseSheetName(sheet)
	require.True(t, ok, sheet)
	s, err := ParseSchema(sn, rows)
	require.NoError(t, err)
	tbl, err := BuildTable(s, rows)
	require.NoError(t, err)
	return tbl
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, nil, 0644))
	return path
}
