// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"fmt"
	"strings"
	"unicode"
)

// SheetPrefix marks the sheets to convert.
const SheetPrefix = "o-"

// Rows of the sheet header, 0-based. Data starts at DataRow.
const (
	TitleRow = 1
	TypeRow  = 2
	KeyRow   = 3
	DataRow  = 4
)

// MaxKeyLevels is the deepest nesting a table supports.
const MaxKeyLevels = 3

// SheetName is the parsed name of a sheet of interest.
type SheetName struct {
	// Raw is the sheet name as stored in the workbook.
	Raw string
	// Table is the last dash separated segment, used as table name.
	Table string
	// KeyValue is set by a "kv" segment.
	KeyValue bool
}

// ParseSheetName reports whether raw names a sheet of interest,
// and returns its parsed form.
func ParseSheetName(raw string) (SheetName, bool) {
	name := strings.ReplaceAll(raw, " ", "_")
	if !strings.HasPrefix(name, SheetPrefix) {
		return SheetName{}, false
	}
	segments := strings.Split(name, "-")
	sn := SheetName{Raw: raw, Table: segments[len(segments)-1]}
	for _, s := range segments[1 : len(segments)-1] {
		if strings.EqualFold(s, "kv") {
			sn.KeyValue = true
		}
	}
	return sn, true
}

// Column is one declared column of a sheet.
type Column struct {
	Index int
	Title string
	Type  TypeTag
}

// Schema is the validated header of a sheet.
type Schema struct {
	SheetName
	Columns []Column
	// Keys holds the column index of key1..key3; only the first
	// KeyLevels entries are meaningful.
	Keys      [MaxKeyLevels]int
	KeyLevels int
	// HasTranslations is set when a translate column exists.
	HasTranslations bool
}

// KeyColumn returns the column of the given key level (1-based).
func (s *Schema) KeyColumn(level int) Column { return s.Columns[s.Keys[level-1]] }

// Column returns the column titled title.
func (s *Schema) Column(title string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Title == title {
			return c, true
		}
	}
	return Column{}, false
}

// ParseSchema validates the header rows of a sheet.
func ParseSchema(name SheetName, rows [][]Cell) (*Schema, error) {
	if len(rows) < DataRow {
		return nil, &SheetError{Sheet: name.Table, Err: fmt.Errorf("%d rows: %w", len(rows), ErrTooFewRows)}
	}
	var width int
	for _, row := range rows {
		width = max(width, len(row))
	}
	s := Schema{SheetName: name, Columns: make([]Column, 0, width)}
	seen := make(map[string]struct{}, width)
	for i := range width {
		title := cellAt(rows[TitleRow], i)
		if title.Kind != CellText || strings.TrimSpace(title.Value) == "" {
			return nil, &SheetError{Sheet: name.Table, Err: fmt.Errorf("title column[%d]: %w", i+1, ErrInvalidTitleCell)}
		}
		t := normalizeTitle(title.Value)
		if _, ok := seen[t]; ok {
			return nil, &SheetError{Sheet: name.Table, Column: t, Err: fmt.Errorf("title column[%d] duplicated: %w", i+1, ErrInvalidTitleCell)}
		}
		seen[t] = struct{}{}

		typ := cellAt(rows[TypeRow], i)
		if typ.Kind != CellText {
			return nil, &SheetError{Sheet: name.Table, Column: t, Err: fmt.Errorf("type column[%d]: %w", i+1, ErrInvalidTypeCell)}
		}
		tag, ok := ParseTypeTag(typ.Value)
		if !ok {
			return nil, &SheetError{Sheet: name.Table, Column: t, Err: fmt.Errorf("type column[%d] %q: %w", i+1, typ.Value, ErrInvalidTypeCell)}
		}
		s.Columns = append(s.Columns, Column{Index: i, Title: t, Type: tag})
		if tag == TypeTranslate {
			s.HasTranslations = true
		}
	}

	var declared [MaxKeyLevels]bool
	for i, c := range s.Columns {
		level := keyRole(cellAt(rows[KeyRow], c.Index))
		if level == 0 {
			continue
		}
		if !c.Type.IsKeyType() {
			return nil, &SheetError{Sheet: name.Table, Column: c.Title, Level: level,
				Err: fmt.Errorf("type %s must be int, float or string: %w", c.Type, ErrInvalidKeyConfiguration)}
		}
		if declared[level-1] {
			return nil, &SheetError{Sheet: name.Table, Column: c.Title, Level: level,
				Err: fmt.Errorf("declared twice: %w", ErrInvalidKeyConfiguration)}
		}
		declared[level-1] = true
		s.Keys[level-1] = i
	}
	for level := range MaxKeyLevels {
		if !declared[level] {
			break
		}
		s.KeyLevels = level + 1
	}
	for level := s.KeyLevels; level < MaxKeyLevels; level++ {
		if declared[level] {
			return nil, &SheetError{Sheet: name.Table, Level: level + 1,
				Err: fmt.Errorf("key%d is missing: %w", s.KeyLevels+1, ErrInvalidKeyConfiguration)}
		}
	}
	return &s, nil
}

func normalizeTitle(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}

// keyRole returns the key level a key-role cell declares, or zero.
func keyRole(c Cell) int {
	if c.Kind != CellText {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(c.Value)) {
	case "key1":
		return 1
	case "key2":
		return 2
	case "key3":
		return 3
	}
	return 0
}
