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

package datatable

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Features enables or disables each interactive capability of a view.
type Features struct {
	Sorting     bool `toml:"sorting"`
	Filtering   bool `toml:"filtering"`
	Pagination  bool `toml:"pagination"`
	Reordering  bool `toml:"reordering"`
	Resizing    bool `toml:"resizing"`
	AutoFit     bool `toml:"auto_fit"`
	ContextMenu bool `toml:"context_menu"`
}

// Config is fixed when a view is created; afterwards the view changes only
// through its mutators.
type Config struct {
	Features          Features         `toml:"features"`
	PageSize          int              `toml:"page_size"`
	DefaultVisibility map[string]bool  `toml:"default_visibility"`
	HeaderMenu        HeaderMenuConfig `toml:"header_menu"`
	RowMenu           RowMenuConfig    `toml:"row_menu"`
}

// DefaultConfig enables every feature, every menu group and ten rows per page.
func DefaultConfig() Config {
	return Config{
		Features: Features{
			Sorting:     true,
			Filtering:   true,
			Pagination:  true,
			Reordering:  true,
			Resizing:    true,
			AutoFit:     true,
			ContextMenu: true,
		},
		PageSize:          DefaultPageSize,
		DefaultVisibility: map[string]bool{},
		HeaderMenu: HeaderMenuConfig{
			Enabled:            true,
			ShowDefaultColumns: true,
			ShowAllColumns:     true,
			AutoFitColumns:     true,
			ColumnVisibility:   true,
		},
		RowMenu: RowMenuConfig{Enabled: true},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys absent from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that do not depend on a schema.
func (c Config) Validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	}
	return nil
}

// PipelineOptions returns the row pipeline stages the features enable.
func (c Config) PipelineOptions() PipelineOptions {
	return PipelineOptions{
		Filtering:  c.Features.Filtering,
		Sorting:    c.Features.Sorting,
		Pagination: c.Features.Pagination,
	}
}

// MenuBuilder returns the menu builder for this configuration.
func (c Config) MenuBuilder() MenuBuilder {
	header := c.HeaderMenu
	header.Enabled = header.Enabled && c.Features.ContextMenu
	row := c.RowMenu
	row.Enabled = row.Enabled && c.Features.ContextMenu
	return MenuBuilder{Header: header, Row: row, AutoFit: c.Features.AutoFit}
}
