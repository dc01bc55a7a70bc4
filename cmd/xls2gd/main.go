// Copyright 2024 The xls2gd Authors.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/hidden-moss/xls2gd"
	"github.com/hidden-moss/xls2gd/xls"
	"github.com/hidden-moss/xls2gd/xlsx"
)

// DefaultConfigFile is read when no -config is given.
const DefaultConfigFile = "xls2gd.json"

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

var openers = map[string]xls2gd.OpenFunc{
	".xlsx": xlsx.Open,
	".xlsm": xlsx.Open,
	".xls":  xls.Open,
}

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	cfg := xls2gd.DefaultConfig()
	fs := flag.NewFlagSet("xls2gd", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	flagConfig := fs.String("config", DefaultConfigFile, "JSON config file")
	flagLogFormat := fs.String("log-format", "", "log format: text, or empty for the console handler")
	fs.StringVar(&cfg.InputFolder, "input_folder", cfg.InputFolder, "folder of the workbooks")
	fs.StringVar(&cfg.OutputGDFolder, "output_gd_folder", cfg.OutputGDFolder, "folder of the generated GDScript files")
	fs.StringVar(&cfg.OutputGDNameTemplate, "output_gd_name_template", cfg.OutputGDNameTemplate,
		"GDScript file name; "+xls2gd.SheetNamePlaceholder+" is replaced by the table name")
	fs.StringVar(&cfg.OutputCSVFolder, "output_csv_folder", cfg.OutputCSVFolder, "folder of the locale CSV files")
	fs.StringVar(&cfg.OutputCSVNameTemplate, "output_csv_name_template", cfg.OutputCSVNameTemplate,
		"locale CSV file name; "+xls2gd.SheetNamePlaceholder+" is replaced by the table name")
	fs.StringVar(&cfg.DefaultLocale, "default_locale", cfg.DefaultLocale, "locale column receiving the source strings")
	fs.StringVar(&cfg.CSVCharset, "csv_charset", cfg.CSVCharset, "charset of existing locale CSV files ("+xls2gd.CharsetAuto+" to detect)")
	fs.BoolVar(&cfg.KeepGoing, "keep_going", cfg.KeepGoing, "continue with the next workbook after a failure")

	initFS := flag.NewFlagSet("init", flag.ContinueOnError)
	flagForce := initFS.Bool("force", false, "overwrite an existing config file")
	initCmd := ffcli.Command{Name: "init", FlagSet: initFS,
		ShortUsage: "xls2gd [flags] init [-force]",
		ShortHelp:  "write the configuration into the config file",
		Exec: func(ctx context.Context, args []string) error {
			return writeConfig(*flagConfig, cfg, *flagForce)
		},
	}

	app := ffcli.Command{Name: "xls2gd", FlagSet: fs,
		ShortUsage: "xls2gd [flags] [init]",
		ShortHelp:  "convert workbooks into GDScript tables and locale CSV files",
		LongHelp: `Converts the sheets named "o-<name>" of every workbook in input_folder.
Flags may come from the JSON config file (same keys as the flags)
or from XLS2GD_* environment variables.`,
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.JSONParser),
			ff.WithAllowMissingConfigFile(true),
			ff.WithEnvVarPrefix("XLS2GD"),
		},
		Subcommands: []*ffcli.Command{&initCmd},
		Exec: func(ctx context.Context, args []string) error {
			lgr := logger
			if *flagLogFormat == "text" {
				lgr = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
					Level:       xls2gd.LevelInfo,
					ReplaceAttr: xls2gd.ReplaceLevel,
				}))
			}
			lgr.Info("config", "file", *flagConfig)
			res, err := xls2gd.NewConverter(cfg, lgr, openers).Run(ctx)
			lgr.Debug("result", "workbooks", res.Workbooks, "scripts", res.Scripts, "locales", res.Locales, "failed", res.Failed)
			return err
		},
	}

	if err := app.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.Run(ctx)
}

// configRecord is the persisted configuration; its keys are the flag names.
type configRecord struct {
	InputFolder           string `json:"input_folder"`
	OutputGDFolder        string `json:"output_gd_folder"`
	OutputGDNameTemplate  string `json:"output_gd_name_template"`
	OutputCSVFolder       string `json:"output_csv_folder"`
	OutputCSVNameTemplate string `json:"output_csv_name_template"`
	DefaultLocale         string `json:"default_locale"`
	CSVCharset            string `json:"csv_charset"`
	KeepGoing             bool   `json:"keep_going"`
}

func writeConfig(path string, cfg xls2gd.Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		logger.Info("config exists", "file", path)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	b, err := json.MarshalIndent(configRecord{
		InputFolder:           cfg.InputFolder,
		OutputGDFolder:        cfg.OutputGDFolder,
		OutputGDNameTemplate:  cfg.OutputGDNameTemplate,
		OutputCSVFolder:       cfg.OutputCSVFolder,
		OutputCSVNameTemplate: cfg.OutputCSVNameTemplate,
		DefaultLocale:         cfg.DefaultLocale,
		CSVCharset:            cfg.CSVCharset,
		KeepGoing:             cfg.KeepGoing,
	}, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("generate config", "file", path)
	return nil
}
