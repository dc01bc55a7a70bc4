// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

// Package xls2gd converts spreadsheet workbooks into GDScript data tables
// and companion localization CSV files.
package xls2gd

import (
	"io"
	"strconv"
)

// Workbook is an opened spreadsheet file. Sheets are read whole into memory.
type Workbook interface {
	io.Closer
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// Rows returns every row of the named sheet.
	// Rows may be shorter than the widest row; missing cells are empty.
	Rows(sheet string) ([][]Cell, error)
}

// OpenFunc opens the workbook at path.
type OpenFunc func(path string) (Workbook, error)

// CellKind is the value kind the spreadsheet recorded for a cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellBool
)

func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellBool:
		return "boolean"
	default:
		return "CellKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is one raw spreadsheet cell.
//
// Numbers hold their decimal text, booleans hold "1" or "0".
//
// Readers that only see the shown text of a cell set Inferred: Kind is then
// a guess and Value is the text as read, so the cell still serves columns
// parsed from text.
type Cell struct {
	Kind     CellKind
	Value    string
	Inferred bool
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: CellText, Value: s} }

// Number returns a number cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Value: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Bool returns a boolean cell.
func Bool(b bool) Cell {
	if b {
		return Cell{Kind: CellBool, Value: "1"}
	}
	return Cell{Kind: CellBool, Value: "0"}
}

// holdsText reports whether the cell text can be parsed by text columns.
func (c Cell) holdsText() bool { return c.Kind == CellText || c.Inferred }

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty || c.Value == "" }

func cellAt(row []Cell, i int) Cell {
	if i < len(row) {
		return row[i]
	}
	return Cell{}
}
