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

package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"go.uber.org/zap"

	arrowadapter "github.com/magpierre/tableview/adapters/arrow"
)

// DefaultTimeout bounds each Delta Sharing API call.
const DefaultTimeout = 60 * time.Second

// ErrTableNotFound is returned when a share, schema and table name match
// nothing on the server.
var ErrTableNotFound = errors.New("table not found")

// DeltaSharing lists and loads tables of one Delta Sharing profile.
type DeltaSharing struct {
	profile string
	timeout time.Duration
	logger  *zap.Logger
}

// NewDeltaSharing checks profile (the JSON text of a profile file) and
// returns a client for it. A timeout <= 0 means DefaultTimeout.
func NewDeltaSharing(profile string, timeout time.Duration, logger *zap.Logger) (*DeltaSharing, error) {
	if !IsDeltaSharingProfile([]byte(profile)) {
		return nil, fmt.Errorf("not a Delta Sharing profile")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeltaSharing{profile: profile, timeout: timeout, logger: logger}, nil
}

// NewDeltaSharingFromFile reads a profile file.
func NewDeltaSharingFromFile(path string, timeout time.Duration, logger *zap.Logger) (*DeltaSharing, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return NewDeltaSharing(string(content), timeout, logger)
}

// withTimeout derives a context bounded by the client's API timeout.
func (d *DeltaSharing) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

// ListShares returns the share names visible to the profile.
func (d *DeltaSharing) ListShares(ctx context.Context) ([]string, error) {
	client, err := delta_sharing.NewSharingClientV2FromString(d.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	shares, _, err := client.ListShares(ctx, 0, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	names := make([]string, 0, len(shares))
	for _, share := range shares {
		names = append(names, share.Name)
	}
	return names, nil
}

// ListTables returns every table of every share.
func (d *DeltaSharing) ListTables(ctx context.Context) ([]delta_sharing.Table, error) {
	client, err := delta_sharing.NewSharingClientV2FromString(d.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	// maxConcurrency 0 uses the client's default.
	tables, _, err := client.ListAllTables_V2(ctx, 0, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list all tables: %w", err)
	}
	d.logger.Debug("listed tables", zap.Int("count", len(tables)))
	return tables, nil
}

// FindTable looks up a table by share, schema and name.
func (d *DeltaSharing) FindTable(ctx context.Context, share, schema, name string) (delta_sharing.Table, error) {
	tables, err := d.ListTables(ctx)
	if err != nil {
		return delta_sharing.Table{}, err
	}
	return findTable(tables, share, schema, name)
}

func findTable(tables []delta_sharing.Table, share, schema, name string) (delta_sharing.Table, error) {
	for _, t := range tables {
		if t.Share == share && t.Schema == schema && t.Name == name {
			return t, nil
		}
	}
	return delta_sharing.Table{}, fmt.Errorf("%w: %s.%s.%s", ErrTableNotFound, share, schema, name)
}

// ListFiles returns the ids of the data files of table.
func (d *DeltaSharing) ListFiles(ctx context.Context, table delta_sharing.Table) ([]string, error) {
	client, err := delta_sharing.NewSharingClientV2FromString(d.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	resp, err := client.ListFilesInTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list files of %s: %w", table.Name, err)
	}
	ids := make([]string, 0, len(resp.AddFiles))
	for _, f := range resp.AddFiles {
		ids = append(ids, f.Id)
	}
	return ids, nil
}

// LoadTable loads one data file of table. An empty fileID loads the first
// file the server lists.
func (d *DeltaSharing) LoadTable(ctx context.Context, table delta_sharing.Table, fileID string) (*Result, error) {
	files, err := d.ListFiles(ctx, table)
	if err != nil {
		return nil, err
	}
	fileID, err = pickFile(files, fileID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table.Name, err)
	}

	client, err := delta_sharing.NewSharingClientV2FromString(d.profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create Delta Sharing client: %w", err)
	}
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	arrowTable, err := delta_sharing.LoadArrowTable(ctx, client, table, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table.Name, err)
	}
	defer arrowTable.Release()

	src, err := arrowadapter.NewFromArrowTable(arrowTable)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow data source: %w", err)
	}
	d.logger.Info("table loaded", zap.String("share", table.Share), zap.String("schema", table.Schema),
		zap.String("table", table.Name), zap.String("file", fileID), zap.Int("rows", src.RowCount()))
	return &Result{
		Name:   table.Name,
		Type:   FileTypeDeltaTable,
		Source: src,
		Detail: fmt.Sprintf("%s.%s, %d of %d files", table.Share, table.Schema, 1, len(files)),
	}, nil
}

func pickFile(files []string, fileID string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("table has no data files")
	}
	if fileID == "" {
		return files[0], nil
	}
	for _, id := range files {
		if id == fileID {
			return id, nil
		}
	}
	return "", fmt.Errorf("file %q is not part of the table", fileID)
}
