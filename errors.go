// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooFewRows              = errors.New("sheet must have at least 4 rows")
	ErrInvalidTitleCell        = errors.New("title cell must be a unique string")
	ErrInvalidTypeCell         = errors.New("type cell must be a known type name")
	ErrInvalidKeyConfiguration = errors.New("key1 key2 key3 are wrong")
	ErrMissingKeyConfiguration = errors.New("missing key1")
	ErrMissingKeyValue         = errors.New("key is empty")
	ErrDuplicateKeyValue       = errors.New("key is duplicated")
	ErrInvalidKeyValueRow      = errors.New("key-value row must have exactly a key and a value column")
	ErrMalformedKeyValueRow    = errors.New("key-value row has no key or no value")
	ErrTypeMismatch            = errors.New("cell kind does not match column type")
	ErrUnknownType             = errors.New("unknown column type")
	ErrInputPathMissing        = errors.New("input path does not exist")
	ErrEmptyInputFolder        = errors.New("input folder is empty")
	ErrInvalidSheetName        = errors.New("sheet name has no table name")
	ErrDuplicateSheet          = errors.New("table name is used by more than one sheet")
	ErrInvalidLocaleHeader     = errors.New("locale csv header has no id column")
	ErrInvalidLocaleRow        = errors.New("locale csv row has more fields than the header")
	ErrUnsupportedFormat       = errors.New("unsupported workbook format")
)

// SheetError locates a conversion error inside a workbook.
//
// Row and Column are 1-based, zero when unknown. Level is the key level
// (1..3) of key errors.
type SheetError struct {
	Workbook string
	Sheet    string
	Row      int
	Column   string
	Level    int
	Err      error
}

func (e *SheetError) Error() string {
	var b strings.Builder
	if e.Workbook != "" {
		b.WriteString(e.Workbook)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "sheet[%s]", e.Sheet)
	if e.Row > 0 {
		fmt.Fprintf(&b, "[%d]", e.Row)
	}
	if e.Level > 0 {
		fmt.Fprintf(&b, " key%d", e.Level)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " %q", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *SheetError) Unwrap() error { return e.Err }
