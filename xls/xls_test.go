package xls

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidden-moss/xls2gd"
)

func inferred(k xls2gd.CellKind, s string) xls2gd.Cell {
	return xls2gd.Cell{Kind: k, Value: s, Inferred: true}
}

func TestInferCell(t *testing.T) {
	for _, tc := range []struct {
		In   string
		Want xls2gd.Cell
	}{
		{"", xls2gd.Cell{}},
		{"12", inferred(xls2gd.CellNumber, "12")},
		{"-0.25", inferred(xls2gd.CellNumber, "-0.25")},
		{"1e3", inferred(xls2gd.CellNumber, "1e3")},
		{"007", inferred(xls2gd.CellNumber, "007")},
		{"TRUE", inferred(xls2gd.CellBool, "TRUE")},
		{"false", inferred(xls2gd.CellBool, "false")},
		{"Sword", inferred(xls2gd.CellText, "Sword")},
		{"1,2", inferred(xls2gd.CellText, "1,2")},
		{"NaN", inferred(xls2gd.CellText, "NaN")},
		{" 7", inferred(xls2gd.CellText, " 7")},
	} {
		assert.Equal(t, tc.Want, inferCell(tc.In), tc.In)
	}
}

func TestSheetCells(t *testing.T) {
	assert.Nil(t, sheetCells(nil))
	assert.Nil(t, sheetCells([][]string{{"", ""}, nil}))
	assert.Equal(t, [][]xls2gd.Cell{
		{inferred(xls2gd.CellText, "a")},
		nil,
		{{}, inferred(xls2gd.CellNumber, "1")},
	}, sheetCells([][]string{{"a"}, {"", ""}, {"", "1"}, {""}, nil}))
}

// testdata/items.xls is a BIFF8 workbook without ROW records: every row
// is known from its cell records only. Row 8 holds a single blank cell.
func TestOpen(t *testing.T) {
	wb, err := Open(filepath.Join("testdata", "items.xls"))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"o-items", "notes"}, wb.SheetNames())

	rows, err := wb.Rows("o-items")
	require.NoError(t, err)
	require.Len(t, rows, 6)
	text := func(s string) xls2gd.Cell { return inferred(xls2gd.CellText, s) }
	assert.Equal(t, []xls2gd.Cell{text("items table")}, rows[0])
	assert.Equal(t, []xls2gd.Cell{text("id"), text("name"), text("tags"), text("sellable")}, rows[1])
	assert.Equal(t, []xls2gd.Cell{text("int"), text("string"), text("int[]"), text("bool")}, rows[2])
	assert.Equal(t, []xls2gd.Cell{text("key1")}, rows[3])
	assert.Equal(t, []xls2gd.Cell{
		inferred(xls2gd.CellNumber, "1"), text("Sword"),
		inferred(xls2gd.CellNumber, "5"), inferred(xls2gd.CellBool, "TRUE"),
	}, rows[4])
	assert.Equal(t, []xls2gd.Cell{
		inferred(xls2gd.CellNumber, "2"), inferred(xls2gd.CellNumber, "007"),
		text("1,2"), inferred(xls2gd.CellBool, "false"),
	}, rows[5])

	rows, err = wb.Rows("notes")
	require.NoError(t, err)
	assert.Equal(t, [][]xls2gd.Cell{{text("备注")}, {{}, text("second line")}}, rows)

	_, err = wb.Rows("missing")
	assert.Error(t, err)
	require.NoError(t, wb.Close())
	_, err = wb.Rows("o-items")
	assert.Error(t, err)
	require.NoError(t, wb.Close())
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	cfg := xls2gd.DefaultConfig()
	cfg.InputFolder = "testdata"
	cfg.OutputGDFolder = filepath.Join(dir, "gd")
	cfg.OutputCSVFolder = filepath.Join(dir, "csv")

	res, err := xls2gd.NewConverter(cfg, nil, map[string]xls2gd.OpenFunc{".xls": Open}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scripts)

	b, err := os.ReadFile(filepath.Join(cfg.OutputGDFolder, "data_items.gd"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "\t1:\r\n\t{\r\n\t\t\"id\": 1,\r\n\t\t\"name\": \"Sword\",\r\n\t\t\"tags\": [5],\r\n\t\t\"sellable\": true\r\n\t},\r\n")
	assert.Contains(t, string(b), "\t\t\"name\": \"007\",\r\n\t\t\"tags\": [1, 2],\r\n\t\t\"sellable\": false\r\n")
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "missing.xls"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "text.xls")
	require.NoError(t, os.WriteFile(path, []byte("id,name\n1,Sword\n"), 0644))
	_, err = Open(path)
	assert.Error(t, err)
}

func TestCloseNil(t *testing.T) {
	var wb *Workbook
	assert.NoError(t, wb.Close())
	assert.NoError(t, (&Workbook{}).Close())
}
