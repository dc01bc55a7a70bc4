// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DefaultLocale is the locale column the converter writes.
const DefaultLocale = "zh_CN"

const idColumn = "id"

// LocaleOptions configures reading and merging a locale CSV.
type LocaleOptions struct {
	// DefaultLocale is the column receiving the source strings.
	DefaultLocale string
	// Charset of the existing file; "" means UTF-8, CharsetAuto detects it.
	Charset string
}

func (o LocaleOptions) defaultLocale() string {
	if o.DefaultLocale == "" {
		return DefaultLocale
	}
	return o.DefaultLocale
}

// LocaleStore is the content of a locale CSV: one row per identifier,
// one column per locale.
type LocaleStore struct {
	header []string
	rows   [][]string
	index  map[string]int
	idCol  int
	defCol int
}

// NewLocaleStore returns an empty store with the header "id,<defaultLocale>".
func NewLocaleStore(defaultLocale string) *LocaleStore {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}
	return &LocaleStore{
		header: []string{idColumn, defaultLocale},
		index:  make(map[string]int),
		defCol: 1,
	}
}

// LoadLocaleStore reads the locale CSV at path. A missing file yields an
// empty store.
func LoadLocaleStore(path string, opts LocaleOptions) (*LocaleStore, error) {
	cr, err := OpenCsv(path, opts.Charset)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewLocaleStore(opts.defaultLocale()), nil
		}
		return nil, err
	}
	defer cr.Close()
	s, err := readLocaleStore(cr.Reader, opts.defaultLocale())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func readLocaleStore(cr *csv.Reader, defaultLocale string) (*LocaleStore, error) {
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return NewLocaleStore(defaultLocale), nil
		}
		return nil, err
	}
	width := len(header)
	s := &LocaleStore{header: append([]string(nil), header...), index: make(map[string]int), idCol: -1, defCol: -1}
	for i, h := range s.header {
		switch h {
		case idColumn:
			if s.idCol < 0 {
				s.idCol = i
			}
		case defaultLocale:
			if s.defCol < 0 {
				s.defCol = i
			}
		}
	}
	if s.idCol < 0 {
		return nil, fmt.Errorf("header %q: %w", header, ErrInvalidLocaleHeader)
	}
	if s.defCol < 0 {
		s.defCol = len(s.header)
		s.header = append(s.header, defaultLocale)
	}
	for {
		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		if len(rec) > width {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %d fields for %d columns: %w", line, len(rec), width, ErrInvalidLocaleRow)
		}
		row := make([]string, len(s.header))
		copy(row, rec)
		id := row[s.idCol]
		if id == "" {
			continue
		}
		if i, ok := s.index[id]; ok {
			s.rows[i] = row
			continue
		}
		s.index[id] = len(s.rows)
		s.rows = append(s.rows, row)
	}
	return s, nil
}

// Header returns the column names.
func (s *LocaleStore) Header() []string { return s.header }

// Len returns the number of identifier rows.
func (s *LocaleStore) Len() int { return len(s.rows) }

// Get returns the text of id in locale.
func (s *LocaleStore) Get(id, locale string) (string, bool) {
	i, ok := s.index[id]
	if !ok {
		return "", false
	}
	for j, h := range s.header {
		if h == locale {
			return s.rows[i][j], true
		}
	}
	return "", false
}

// Merge sets the default locale text of every entry, adding missing rows.
// Other locale columns and rows absent from entries are kept.
func (s *LocaleStore) Merge(entries []TranslationEntry) {
	for _, e := range entries {
		i, ok := s.index[e.ID]
		if !ok {
			i = len(s.rows)
			row := make([]string, len(s.header))
			row[s.idCol] = e.ID
			s.index[e.ID] = i
			s.rows = append(s.rows, row)
		}
		s.rows[i][s.defCol] = e.Text
	}
}

// Write writes the store as UTF-8 CSV with CR-LF line endings, header first.
func (s *LocaleStore) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(s.header); err != nil {
		return err
	}
	if err := cw.WriteAll(s.rows); err != nil {
		return err
	}
	return cw.Error()
}

// MergeLocaleFile merges entries into the locale CSV at path.
func MergeLocaleFile(path string, entries []TranslationEntry, opts LocaleOptions) error {
	s, err := LoadLocaleStore(path, opts)
	if err != nil {
		return err
	}
	s.Merge(entries)
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	bw := bufio.NewWriter(fh)
	if err = s.Write(bw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}
