// Copyright 2020, 2023 Tamás Gulácsi.
// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx reads Office Open XML workbooks (.xlsx, .xlsm).
package xlsx

import (
	"fmt"
	"sync"

	"github.com/hidden-moss/xls2gd"
	"github.com/xuri/excelize/v2"
)

var _ = (xls2gd.Workbook)((*Workbook)(nil))

// Workbook is an opened xlsx file.
type Workbook struct {
	xl *excelize.File
	mu sync.Mutex
}

// Open opens the workbook at path.
func Open(path string) (xls2gd.Workbook, error) {
	xl, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Workbook{xl: xl}, nil
}

func (wb *Workbook) Close() error {
	if wb == nil {
		return nil
	}
	wb.mu.Lock()
	defer wb.mu.Unlock()
	xl := wb.xl
	wb.xl = nil
	if xl == nil {
		return nil
	}
	return xl.Close()
}

func (wb *Workbook) SheetNames() []string {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.xl.GetSheetList()
}

// Rows returns the raw (unformatted) cell values of sheet,
// each with the kind recorded in the file.
func (wb *Workbook) Rows(sheet string) ([][]xls2gd.Cell, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	raw, err := wb.xl.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sheet, err)
	}
	rows := make([][]xls2gd.Cell, len(raw))
	for i, values := range raw {
		row := make([]xls2gd.Cell, len(values))
		for j, v := range values {
			if v == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("%d/%d: %w", j, i, err)
			}
			typ, err := wb.xl.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("%s[%s]: %w", sheet, axis, err)
			}
			row[j] = xls2gd.Cell{Kind: cellKind(typ), Value: v}
		}
		rows[i] = row
	}
	return rows, nil
}

// cellKind maps the stored type of a non-empty cell.
// Numbers are stored without a type attribute.
func cellKind(typ excelize.CellType) xls2gd.CellKind {
	switch typ {
	case excelize.CellTypeBool:
		return xls2gd.CellBool
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return xls2gd.CellNumber
	default:
		return xls2gd.CellText
	}
}
