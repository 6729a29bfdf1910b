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

import "errors"

// Common errors returned by the datatable package.
// None of them is fatal: a mutator that fails leaves the prior state intact.
var (
	// ErrUnknownColumn is returned when a column id is not registered.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumnID is returned when two columns share an id.
	ErrDuplicateColumnID = errors.New("duplicate column id")

	// ErrEmptyColumnID is returned when a column has no id.
	ErrEmptyColumnID = errors.New("empty column id")

	// ErrInvalidConstraint is returned when a column's width bounds are inconsistent.
	ErrInvalidConstraint = errors.New("invalid column constraint")

	// ErrColumnNotResizable is returned when resizing a fixed-width column.
	ErrColumnNotResizable = errors.New("column is not resizable")

	// ErrColumnNotSortable is returned when sorting by an unsortable column.
	ErrColumnNotSortable = errors.New("column is not sortable")

	// ErrColumnNotHideable is returned when hiding a column that must stay visible.
	ErrColumnNotHideable = errors.New("column is not hideable")

	// ErrDuplicateSortColumn is returned when a sort specification names a column twice.
	ErrDuplicateSortColumn = errors.New("column appears twice in sort specification")

	// ErrPageOutOfRange is returned for a negative page index.
	ErrPageOutOfRange = errors.New("page index out of range")

	// ErrInvalidPageSize is returned for a page size that is not positive.
	ErrInvalidPageSize = errors.New("invalid page size")

	// ErrOperationInProgress is returned while an auto-fit is in flight.
	ErrOperationInProgress = errors.New("operation in progress")

	// ErrFeatureDisabled is returned when a gesture targets a disabled capability.
	ErrFeatureDisabled = errors.New("feature disabled")

	// ErrUnknownAction is returned when a chosen menu action key is not in the open menu.
	ErrUnknownAction = errors.New("unknown menu action")

	// ErrNoMenuOpen is returned when an action is chosen while no menu is open.
	ErrNoMenuOpen = errors.New("no menu open")

	// ErrInvalidFilter is returned when a filter expression is invalid.
	ErrInvalidFilter = errors.New("invalid filter expression")

	// ErrNoDataSource is returned when a required dataset is nil.
	ErrNoDataSource = errors.New("dataset is nil")

	// ErrNoRegistry is returned when a required column registry is nil.
	ErrNoRegistry = errors.New("column registry is nil")

	// ErrUnsupportedFile is returned when a file type cannot be loaded or written.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrExportFailed is returned when the current view cannot be exported.
	ErrExportFailed = errors.New("export failed")
)
