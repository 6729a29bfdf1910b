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

package windows

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"go.uber.org/zap"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/loader"
)

// OpenFile loads a CSV, Parquet or JSON file into a new tab. A Delta
// Sharing profile is opened in the navigation tree instead.
func (t *MainWindow) OpenFile(path string) {
	content, _ := os.ReadFile(path)
	if loader.DetectFileType(path, content) == loader.FileTypeDeltaSharingProfile {
		t.OpenProfile(path)
		return
	}

	t.SetStatus("Loading " + filepath.Base(path) + "...")
	runWithProgress(t.w, "Loading "+filepath.Base(path), func(ctx context.Context) (*loader.Result, error) {
		return t.loader.LoadFile(ctx, path)
	}, t.show)
}

// OpenProfile connects to the server of a Delta Sharing profile file and
// lists its tables.
func (t *MainWindow) OpenProfile(path string) {
	t.openProfile(path, nil)
}

// OpenProfileTable opens a profile like OpenProfile, then loads the first
// data file of share.schema.name.
func (t *MainWindow) OpenProfileTable(path, share, schema, name string) {
	t.openProfile(path, func(ds *loader.DeltaSharing) {
		runWithProgress(t.w, "Finding "+name, func(ctx context.Context) (delta_sharing.Table, error) {
			return ds.FindTable(ctx, share, schema, name)
		}, func(table delta_sharing.Table, err error) {
			if err != nil {
				t.fail("Error finding table", err)
				return
			}
			t.LoadTable(table, LoadOptions{})
		})
	})
}

func (t *MainWindow) openProfile(path string, then func(*loader.DeltaSharing)) {
	ds, err := loader.NewDeltaSharingFromFile(path, t.timeout, t.logger)
	if err != nil {
		t.fail("Error opening profile", err)
		return
	}
	t.SetStatus("Listing shares...")
	runWithProgress(t.w, "Connecting", func(ctx context.Context) (*NavigationTree, error) {
		nav := NewNavigationTree()
		return nav, nav.Load(ctx, ds)
	}, func(nav *NavigationTree, err error) {
		if err != nil {
			t.fail("Error listing shares", err)
			return
		}
		t.sharing = ds
		t.setNavigation(nav)
		t.SetStatus("Profile loaded: " + filepath.Base(path))
		if then != nil {
			then(ds)
		}
	})
}

// LoadTable loads one data file of a shared table into a new tab.
func (t *MainWindow) LoadTable(table delta_sharing.Table, opts LoadOptions) {
	if t.sharing == nil {
		return
	}
	ds := t.sharing
	t.SetStatus("Loading table data: " + table.Name)
	runWithProgress(t.w, "Loading "+table.Name, func(ctx context.Context) (*loader.Result, error) {
		return ds.LoadTable(ctx, table, opts.FileID)
	}, func(res *loader.Result, err error) {
		if err == nil && opts.PageSize > 0 {
			cfg := t.config
			cfg.PageSize = opts.PageSize
			t.showWith(res, cfg)
			return
		}
		t.show(res, err)
	})
}

// loadTableWithOptions lists the files of table and asks how to load it.
func (t *MainWindow) loadTableWithOptions(table delta_sharing.Table) {
	if t.sharing == nil {
		return
	}
	ds := t.sharing
	runWithProgress(t.w, "Listing files", func(ctx context.Context) ([]string, error) {
		return ds.ListFiles(ctx, table)
	}, func(files []string, err error) {
		if err != nil {
			t.fail("Error listing files", err)
			return
		}
		showLoadOptions(t.w, table, files, t.config.PageSize, func(opts LoadOptions) {
			t.LoadTable(table, opts)
		})
	})
}

func (t *MainWindow) show(res *loader.Result, err error) {
	if err != nil {
		t.fail("Error loading data", err)
		return
	}
	t.showWith(res, t.config)
}

func (t *MainWindow) showWith(res *loader.Result, cfg datatable.Config) {
	if _, err := t.browser.OpenWithConfig(res, cfg); err != nil {
		t.fail("Error opening "+res.Name, err)
	}
}

func (t *MainWindow) fail(status string, err error) {
	if errors.Is(err, context.Canceled) {
		t.SetStatus("Cancelled")
		return
	}
	t.logger.Error(status, zap.Error(err))
	t.SetStatus(status)
	dialog.ShowError(err, t.w)
}

// fileMenuItems are the open entries of the toolbar menu.
func (t *MainWindow) fileMenuItems() []*fyne.MenuItem {
	return []*fyne.MenuItem{
		fyne.NewMenuItem("Open data file...", func() {
			NewFileDialog(t.w, "Open data file", dataExtensions, t.OpenFile).Show()
		}),
		fyne.NewMenuItem("Open Delta Sharing profile...", func() {
			NewFileDialog(t.w, "Select Delta Sharing profile", profileExtensions, t.OpenProfile).Show()
		}),
	}
}
