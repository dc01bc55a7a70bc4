// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package xls2gd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SheetNamePlaceholder is replaced by the table name in output file name templates.
const SheetNamePlaceholder = "{sheet_name}"

// Config is the configuration of a conversion run.
type Config struct {
	InputFolder           string
	OutputGDFolder        string
	OutputGDNameTemplate  string
	OutputCSVFolder       string
	OutputCSVNameTemplate string

	// DefaultLocale is the locale CSV column receiving source strings.
	DefaultLocale string
	// CSVCharset is the charset of existing locale CSV files.
	CSVCharset string
	// KeepGoing continues with the next workbook after a failure.
	KeepGoing bool
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		InputFolder:           "./",
		OutputGDFolder:        "./",
		OutputGDNameTemplate:  "data_" + SheetNamePlaceholder + ".gd",
		OutputCSVFolder:       "./",
		OutputCSVNameTemplate: "locale_" + SheetNamePlaceholder + ".csv",
		DefaultLocale:         DefaultLocale,
		CSVCharset:            "utf-8",
	}
}

// ScriptPath returns the GDScript output path of a table.
func (c Config) ScriptPath(table string) string {
	return filepath.Join(c.OutputGDFolder, strings.ReplaceAll(c.OutputGDNameTemplate, SheetNamePlaceholder, table))
}

// LocalePath returns the locale CSV output path of a table.
func (c Config) LocalePath(table string) string {
	return filepath.Join(c.OutputCSVFolder, strings.ReplaceAll(c.OutputCSVNameTemplate, SheetNamePlaceholder, table))
}

// Result counts the outcome of a run.
type Result struct {
	Workbooks int
	Scripts   int
	Locales   int
	Failed    int
}

// SheetOutput is a converted sheet ready to be written.
type SheetOutput struct {
	Table  *Table
	Script []byte
}

// Converter runs the conversion of a folder of workbooks.
type Converter struct {
	cfg     Config
	logger  *slog.Logger
	openers map[string]OpenFunc
}

// NewConverter returns a Converter opening files by their extension
// (".xlsx") with openers. A nil logger discards the log.
func NewConverter(cfg Config, logger *slog.Logger, openers map[string]OpenFunc) *Converter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := make(map[string]OpenFunc, len(openers))
	for ext, f := range openers {
		m[strings.ToLower(ext)] = f
	}
	return &Converter{cfg: cfg, logger: logger, openers: m}
}

// Run converts every workbook of the input folder.
//
// Unless KeepGoing is set, the first failing workbook stops the run.
// Files of workbooks converted before stay on disk.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	var res Result
	c.logger.Log(ctx, LevelInfo, "input path: \t"+c.cfg.InputFolder)
	c.logger.Log(ctx, LevelInfo, "output *.gd path: \t"+c.cfg.OutputGDFolder)
	c.logger.Log(ctx, LevelInfo, "output *.csv path: \t"+c.cfg.OutputCSVFolder)
	if _, err := os.Stat(c.cfg.InputFolder); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%q: %w", c.cfg.InputFolder, ErrInputPathMissing)
		}
		c.logger.Log(ctx, LevelError, err.Error())
		return res, err
	}
	for _, dir := range []string{c.cfg.OutputGDFolder, c.cfg.OutputCSVFolder} {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			c.logger.Log(ctx, LevelError, err.Error())
			return res, err
		}
		c.logger.Log(ctx, LevelInfo, "make a new dir: \t"+dir)
	}

	entries, err := os.ReadDir(c.cfg.InputFolder)
	if err != nil {
		return res, err
	}
	if len(entries) == 0 {
		err = fmt.Errorf("%q: %w", c.cfg.InputFolder, ErrEmptyInputFolder)
		c.logger.Log(ctx, LevelError, err.Error())
		return res, err
	}
	var names []string
	var width int
	for _, e := range entries {
		width = max(width, len(e.Name()))
		if e.IsDir() || strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		if _, ok := c.openers[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			names = append(names, e.Name())
		}
	}
	c.logger.Log(ctx, LevelInfo, fmt.Sprintf("total XLS: \t\t%d", len(names)))

	var errs []error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res.Workbooks++
		if err := c.convert(ctx, filepath.Join(c.cfg.InputFolder, name), name, width, &res); err != nil {
			res.Failed++
			c.logger.Log(ctx, LevelFailure, fmt.Sprintf("[%02d] %s", res.Scripts+res.Failed, name), "error", err)
			errs = append(errs, err)
			if !c.cfg.KeepGoing {
				break
			}
		}
	}
	c.logger.Log(ctx, LevelInfo, fmt.Sprintf("total GDScript: \t\t%d", res.Scripts))
	if len(errs) != 0 {
		err = errors.Join(errs...)
		c.logger.Log(ctx, LevelError, err.Error())
		return res, err
	}
	c.logger.Log(ctx, LevelInfo, "done.")
	return res, nil
}

// ConvertWorkbook converts a single workbook into the output folders,
// which must exist.
func (c *Converter) ConvertWorkbook(ctx context.Context, path string) (Result, error) {
	var res Result
	name := filepath.Base(path)
	res.Workbooks++
	err := c.convert(ctx, path, name, len(name), &res)
	if err != nil {
		res.Failed++
	}
	return res, err
}

func (c *Converter) convert(ctx context.Context, path, name string, width int, res *Result) error {
	outputs, err := c.BuildWorkbook(path)
	if err != nil {
		return err
	}
	opts := LocaleOptions{DefaultLocale: c.cfg.DefaultLocale, Charset: c.cfg.CSVCharset}
	for _, o := range outputs {
		table := o.Table.Schema.Table
		gdPath := c.cfg.ScriptPath(table)
		if err := os.WriteFile(gdPath, o.Script, 0644); err != nil {
			return err
		}
		res.Scripts++
		c.logger.Log(ctx, LevelSuccess, fmt.Sprintf("[%02d] %-*s => %s", res.Scripts+res.Failed, width, name, filepath.Base(gdPath)))

		if !o.Table.Schema.HasTranslations || len(o.Table.Translations) == 0 {
			continue
		}
		csvPath := c.cfg.LocalePath(table)
		if err := MergeLocaleFile(csvPath, o.Table.Translations, opts); err != nil {
			return err
		}
		res.Locales++
		c.logger.Log(ctx, LevelSuccess, fmt.Sprintf("[%02d] %-*s => %s", res.Scripts+res.Failed, width, name, filepath.Base(csvPath)))
	}
	return nil
}

// BuildWorkbook parses every sheet of interest of the workbook at path
// and renders its script. Nothing is written; any sheet error fails the
// whole workbook.
func (c *Converter) BuildWorkbook(path string) ([]SheetOutput, error) {
	name := filepath.Base(path)
	open, ok := c.openers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrUnsupportedFormat)
	}
	wb, err := open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	var outputs []SheetOutput
	seen := make(map[string]string)
	for _, sheet := range wb.SheetNames() {
		sn, ok := ParseSheetName(sheet)
		if !ok {
			continue
		}
		if sn.Table == "" {
			return nil, &SheetError{Workbook: name, Sheet: sheet, Err: ErrInvalidSheetName}
		}
		if prev, ok := seen[sn.Table]; ok {
			return nil, &SheetError{Workbook: name, Sheet: sn.Table,
				Err: fmt.Errorf("%q and %q: %w", prev, sheet, ErrDuplicateSheet)}
		}
		seen[sn.Table] = sheet

		rows, err := wb.Rows(sheet)
		if err != nil {
			return nil, &SheetError{Workbook: name, Sheet: sn.Table, Err: err}
		}
		schema, err := ParseSchema(sn, rows)
		if err != nil {
			return nil, inWorkbook(err, name)
		}
		t, err := BuildTable(schema, rows)
		if err != nil {
			return nil, inWorkbook(err, name)
		}
		script, err := ScriptString(t, name)
		if err != nil {
			return nil, inWorkbook(err, name)
		}
		outputs = append(outputs, SheetOutput{Table: t, Script: []byte(script)})
	}
	return outputs, nil
}

func inWorkbook(err error, name string) error {
	var se *SheetError
	if errors.As(err, &se) {
		se.Workbook = name
	}
	return err
}
