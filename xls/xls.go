// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

// Package xls reads legacy BIFF workbooks (.xls).
//
// The reader only exposes the shown text of cells, so kinds are inferred
// from it and the cells are marked as such.
package xls

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	biff "github.com/extrame/xls"
	"github.com/hidden-moss/xls2gd"
)

var _ = (xls2gd.Workbook)((*Workbook)(nil))

// Charset is used for strings not stored as UTF-16.
const Charset = "utf-8"

// Workbook is an opened xls file. Every sheet is read by Open.
type Workbook struct {
	mu     sync.Mutex
	names  []string
	sheets map[string][][]xls2gd.Cell
}

// Open reads the workbook at path.
func Open(path string) (xls2gd.Workbook, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	w, err := read(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// read turns the panics of the BIFF parser on damaged files into errors.
func read(r io.ReadSeeker) (w *Workbook, err error) {
	defer func() {
		if p := recover(); p != nil {
			w, err = nil, fmt.Errorf("%v: %w", p, xls2gd.ErrUnsupportedFormat)
		}
	}()
	wb, err := biff.OpenReader(r, Charset)
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, xls2gd.ErrUnsupportedFormat
	}

	// Rows of all sheets with more than one row, back to back.
	all := wb.ReadAllCells(math.MaxInt32)
	w = &Workbook{sheets: make(map[string][][]xls2gd.Cell, wb.NumSheets())}
	for i := range wb.NumSheets() {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		var text [][]string
		if ws.MaxRow != 0 {
			n := min(int(ws.MaxRow)+1, len(all))
			text, all = all[:n], all[n:]
		} else if row := sheetRow(ws, 0); row != nil {
			text = [][]string{rowText(row)}
		}
		w.names = append(w.names, ws.Name)
		w.sheets[ws.Name] = sheetCells(text)
	}
	return w, nil
}

// Close releases the sheets; Rows fails afterwards.
func (w *Workbook) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	w.sheets = nil
	w.mu.Unlock()
	return nil
}

func (w *Workbook) SheetNames() []string { return w.names }

func (w *Workbook) Rows(sheet string) ([][]xls2gd.Cell, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.sheets == nil {
		return nil, fmt.Errorf("sheet %q: workbook is closed", sheet)
	}
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return rows, nil
}

// sheetRow returns nil for rows the sheet does not store.
func sheetRow(ws *biff.WorkSheet, i int) (row *biff.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

func rowText(row *biff.Row) []string {
	text := make([]string, row.LastCol()+1)
	for i := row.FirstCol(); i <= row.LastCol(); i++ {
		text[i] = row.Col(i)
	}
	return text
}

// sheetCells infers the cells of a sheet, dropping trailing blank rows.
func sheetCells(text [][]string) [][]xls2gd.Cell {
	for len(text) != 0 && blank(text[len(text)-1]) {
		text = text[:len(text)-1]
	}
	if len(text) == 0 {
		return nil
	}
	rows := make([][]xls2gd.Cell, len(text))
	for ri, row := range text {
		if blank(row) {
			continue
		}
		rows[ri] = make([]xls2gd.Cell, len(row))
		for ci, s := range row {
			rows[ri][ci] = inferCell(s)
		}
	}
	return rows
}

func blank(row []string) bool {
	for _, s := range row {
		if s != "" {
			return false
		}
	}
	return true
}

// inferCell guesses the kind of a cell from its text, keeping the text.
func inferCell(s string) xls2gd.Cell {
	if s == "" {
		return xls2gd.Cell{}
	}
	c := xls2gd.Cell{Kind: xls2gd.CellText, Value: s, Inferred: true}
	switch strings.ToUpper(s) {
	case "TRUE", "FALSE":
		c.Kind = xls2gd.CellBool
	default:
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			c.Kind = xls2gd.CellNumber
		}
	}
	return c
}
