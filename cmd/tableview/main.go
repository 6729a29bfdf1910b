// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command tableview browses CSV, Parquet and JSON files and Delta Sharing
// tables in an interactive table.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/windows"
)

type options struct {
	config  string
	file    string
	profile string
	share   string
	schema  string
	table   string
	timeout time.Duration
	dense   bool
	debug   bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.config, "config", "", "TOML view configuration file")
	flag.StringVar(&o.file, "file", "", "CSV, Parquet or JSON file to open")
	flag.StringVar(&o.profile, "profile", "", "Delta Sharing profile file")
	flag.StringVar(&o.share, "share", "", "share of the table to open (with -profile)")
	flag.StringVar(&o.schema, "schema", "", "schema of the table to open (with -profile)")
	flag.StringVar(&o.table, "table", "", "table to open (with -profile)")
	flag.DurationVar(&o.timeout, "timeout", 30*time.Second, "Delta Sharing request timeout")
	flag.BoolVar(&o.dense, "dense", false, "compact theme")
	flag.BoolVar(&o.debug, "debug", false, "development logging")
	flag.Parse()
	return o
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	o := parseFlags()

	logger, err := newLogger(o.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tableview: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := datatable.DefaultConfig()
	if o.config != "" {
		if cfg, err = datatable.LoadConfig(o.config); err != nil {
			logger.Fatal("invalid configuration", zap.Error(err))
		}
	}

	mw := windows.NewMainWindow(app.NewWithID("io.github.magpierre.tableview"), windows.Options{
		Title:   "Table Viewer",
		Config:  cfg,
		Logger:  logger,
		Timeout: o.timeout,
		Dense:   o.dense,
	})

	switch {
	case o.profile != "" && o.table != "":
		mw.OpenProfileTable(o.profile, o.share, o.schema, o.table)
	case o.profile != "":
		mw.OpenProfile(o.profile)
	}
	if o.file != "" {
		mw.OpenFile(o.file)
	}

	logger.Debug("starting", zap.String("file", o.file), zap.String("profile", o.profile))
	mw.ShowAndRun()
}
