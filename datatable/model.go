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
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Option configures a TableModel.
type Option func(*TableModel)

// WithConfig sets the feature flags, page size, default visibility and menu groups.
func WithConfig(cfg Config) Option {
	return func(m *TableModel) { m.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *TableModel) { m.logger = l }
}

// WithEstimator replaces the character-count width estimator, typically
// with one backed by a real text measurer.
func WithEstimator(e *WidthEstimator) Option {
	return func(m *TableModel) { m.estimator = e }
}

// WithRowActions sets the generator of row menu entries.
func WithRowActions(fn RowActionsFunc) Option {
	return func(m *TableModel) { m.cfg.RowMenu.Items = fn }
}

// WithDispatcher sets how a finished background auto-fit is handed back to
// the event loop. UI toolkits pass their "run on main thread" function. The
// default runs the commit on the measuring goroutine.
func WithDispatcher(fn func(func())) Option {
	return func(m *TableModel) { m.dispatch = fn }
}

// View is a consistent snapshot of a model for one render pass.
type View struct {
	Registry *Registry
	State    ViewState
	Window   VisibleWindow
}

type openMenu struct {
	scope    MenuScope
	columnID string
	row      Row
	rowIndex int
	actions  []Action
}

// TableModel owns the view state of one table view. It applies gestures one
// at a time, recomputes the visible window, and notifies observers after
// every change. Observers are called synchronously, outside the model's
// lock, so they may read the model back.
type TableModel struct {
	mu sync.Mutex

	cfg       Config
	menus     MenuBuilder
	stages    PipelineOptions
	estimator *WidthEstimator
	logger    *zap.Logger
	dispatch  func(func())

	reg    *Registry
	ds     Dataset
	state  ViewState
	window VisibleWindow

	observers    map[int]func(Notification)
	nextObserver int

	menu    *openMenu
	pending *AutoFitJob
}

// NewTableModel creates a model over ds with the columns of reg.
func NewTableModel(reg *Registry, ds Dataset, opts ...Option) (*TableModel, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	if ds == nil {
		return nil, ErrNoDataSource
	}
	m := &TableModel{
		cfg:       DefaultConfig(),
		logger:    zap.NewNop(),
		dispatch:  func(f func()) { f() },
		reg:       reg,
		ds:        ds,
		observers: map[int]func(Notification){},
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	if m.estimator == nil {
		m.estimator = NewWidthEstimator(nil)
	}
	m.menus = m.cfg.MenuBuilder()
	m.stages = m.cfg.PipelineOptions()

	state, err := NewViewState(reg, m.cfg.PageSize, m.defaultVisibility())
	if err != nil {
		return nil, err
	}
	m.state = state
	m.window = ComputeWith(ds, state, reg, m.stages)
	return m, nil
}

// defaultVisibility returns the configured defaults that apply to the
// current registry. Entries for unknown or unhideable columns are dropped;
// the config may have been written for another schema.
func (m *TableModel) defaultVisibility() map[string]bool {
	out := make(map[string]bool, len(m.cfg.DefaultVisibility))
	for id, visible := range m.cfg.DefaultVisibility {
		col, ok := m.reg.Lookup(id)
		if !ok || (!visible && !col.CanHide) {
			m.logger.Warn("ignoring default visibility entry", zap.String("column", id))
			continue
		}
		out[id] = visible
	}
	return out
}

// Subscribe registers fn for every notification. The returned function
// removes the subscription.
func (m *TableModel) Subscribe(fn func(Notification)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextObserver
	m.nextObserver++
	m.observers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

func (m *TableModel) emit(notes []Notification) {
	if len(notes) == 0 {
		return
	}
	m.mu.Lock()
	ids := make([]int, 0, len(m.observers))
	for id := range m.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Notification), len(ids))
	for i, id := range ids {
		fns[i] = m.observers[id]
	}
	m.mu.Unlock()

	for _, n := range notes {
		for _, fn := range fns {
			fn(n)
		}
	}
}

// Config returns the configuration the model was created with.
func (m *TableModel) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Registry returns the current column registry.
func (m *TableModel) Registry() *Registry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg
}

// State returns the current view state.
func (m *TableModel) State() ViewState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Window returns the last computed visible window.
func (m *TableModel) Window() VisibleWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.window
}

// View returns registry, state and window taken together.
func (m *TableModel) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return View{Registry: m.reg, State: m.state, Window: m.window}
}

// Dataset returns the dataset the model reads from.
func (m *TableModel) Dataset() Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ds
}

// SelectedRows returns the dataset positions of every row passing the
// filters, in sort order, across all pages.
func (m *TableModel) SelectedRows() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return selectRows(m.ds, m.state, m.stages)
}

// commitLocked installs next and returns the notifications to send.
func (m *TableModel) commitLocked(next ViewState) []Notification {
	m.state = next
	notes := []Notification{ViewStateChanged{State: next}}
	win := ComputeWith(m.ds, next, m.reg, m.stages)
	if !sameWindow(m.window, win) {
		notes = append(notes, VisibleWindowChanged{Window: win})
	}
	m.window = win
	return notes
}

func sameWindow(a, b VisibleWindow) bool {
	return a.TotalFilteredCount == b.TotalFilteredCount &&
		a.PageCount == b.PageCount &&
		a.PageIndex == b.PageIndex &&
		a.PageSize == b.PageSize &&
		slices.Equal(a.Indices, b.Indices)
}

// gate is a precondition checked under the lock before a mutation.
type gate func(m *TableModel) error

func requires(enabled func(Features) bool, name string) gate {
	return func(m *TableModel) error {
		if !enabled(m.cfg.Features) {
			return fmt.Errorf("%w: %s", ErrFeatureDisabled, name)
		}
		return nil
	}
}

func idle(m *TableModel) error {
	if m.pending != nil {
		return ErrOperationInProgress
	}
	return nil
}

var (
	sortingEnabled    = requires(func(f Features) bool { return f.Sorting }, "sorting")
	filteringEnabled  = requires(func(f Features) bool { return f.Filtering }, "filtering")
	paginationEnabled = requires(func(f Features) bool { return f.Pagination }, "pagination")
	reorderEnabled    = requires(func(f Features) bool { return f.Reordering }, "reordering")
	resizeEnabled     = requires(func(f Features) bool { return f.Resizing }, "resizing")
	autoFitEnabled    = requires(func(f Features) bool { return f.AutoFit }, "auto-fit")
	menuEnabled       = requires(func(f Features) bool { return f.ContextMenu }, "context menu")
)

// update runs fn against the current state and commits its result.
// A failing gate or fn leaves the model untouched.
func (m *TableModel) update(op string, fn func(ViewState) (ViewState, error), gates ...gate) error {
	m.mu.Lock()
	for _, g := range gates {
		if err := g(m); err != nil {
			m.mu.Unlock()
			m.logger.Debug("gesture rejected", zap.String("op", op), zap.Error(err))
			return err
		}
	}
	next, err := fn(m.state)
	if err != nil {
		m.mu.Unlock()
		m.logger.Debug("gesture rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	notes := m.commitLocked(next)
	m.mu.Unlock()
	m.emit(notes)
	return nil
}

// Dispatch applies one input gesture.
func (m *TableModel) Dispatch(g Gesture) error {
	switch e := g.(type) {
	case ReorderCommitted:
		return m.Reorder(e.DraggedID, e.TargetID)
	case ResizeDelta:
		return m.ResizeBy(e.ColumnID, e.DeltaPixels)
	case HeaderClicked:
		return m.ToggleSort(e.ColumnID)
	case ContextMenuRequested:
		if e.Scope == ScopeRow {
			_, err := m.OpenRowMenu(e.Row, e.RowIndex, e.ScreenPoint)
			return err
		}
		_, err := m.OpenHeaderMenu(e.ColumnID, e.ScreenPoint)
		return err
	case MenuActionChosen:
		return m.ChooseAction(e.ActionKey)
	case MenuDismissed:
		m.CloseMenu()
		return nil
	case PageRequested:
		return m.SetPage(e.PageIndex)
	case PageSizeRequested:
		return m.SetPageSize(e.PageSize)
	case FilterChanged:
		return m.SetFilter(e.ColumnID, e.Filter)
	default:
		return fmt.Errorf("unsupported gesture %T", g)
	}
}

// Reorder moves fromID to the position of toID.
func (m *TableModel) Reorder(fromID, toID string) error {
	if fromID == toID {
		m.mu.Lock()
		known := slices.Contains(m.state.order, fromID)
		m.mu.Unlock()
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, fromID)
		}
		return nil
	}
	return m.update("reorder", func(s ViewState) (ViewState, error) {
		return Reorder(s, fromID, toID)
	}, reorderEnabled, idle)
}

// Resize sets the width of id, clamped to its bounds.
func (m *TableModel) Resize(id string, width float32) error {
	return m.update("resize", func(s ViewState) (ViewState, error) {
		return Resize(s, m.reg, id, width)
	}, resizeEnabled, idle)
}

// ResizeBy changes the width of id by delta pixels.
func (m *TableModel) ResizeBy(id string, delta float32) error {
	return m.update("resize", func(s ViewState) (ViewState, error) {
		return ResizeBy(s, m.reg, id, delta)
	}, resizeEnabled, idle)
}

// ToggleSort cycles the sort direction of id.
func (m *TableModel) ToggleSort(id string) error {
	return m.update("toggle-sort", func(s ViewState) (ViewState, error) {
		return ToggleSort(s, m.reg, id)
	}, sortingEnabled)
}

// SetSort replaces the sort specification.
func (m *TableModel) SetSort(keys []SortKey) error {
	return m.update("set-sort", func(s ViewState) (ViewState, error) {
		return SetSort(s, m.reg, keys)
	}, sortingEnabled)
}

// ClearSort removes every sort key.
func (m *TableModel) ClearSort() error {
	return m.update("clear-sort", func(s ViewState) (ViewState, error) {
		return ClearSort(s), nil
	}, sortingEnabled)
}

// SetFilter sets (or, with a nil f, clears) the filter of id.
func (m *TableModel) SetFilter(id string, f Filter) error {
	return m.update("set-filter", func(s ViewState) (ViewState, error) {
		return SetFilter(s, id, f)
	}, filteringEnabled)
}

// ClearFilter removes the filter of id.
func (m *TableModel) ClearFilter(id string) error {
	return m.SetFilter(id, nil)
}

// ClearFilters removes every filter.
func (m *TableModel) ClearFilters() error {
	return m.update("clear-filters", func(s ViewState) (ViewState, error) {
		return ClearFilters(s), nil
	}, filteringEnabled)
}

// ReplaceFilters swaps every filter at once. On error no filter changes.
func (m *TableModel) ReplaceFilters(filters map[string]Filter) error {
	return m.update("replace-filters", func(s ViewState) (ViewState, error) {
		return ReplaceFilters(s, filters)
	}, filteringEnabled)
}

// SetVisibility shows or hides id.
func (m *TableModel) SetVisibility(id string, visible bool) error {
	return m.update("set-visibility", func(s ViewState) (ViewState, error) {
		return SetVisibility(s, m.reg, id, visible)
	})
}

// ToggleVisibility flips the visibility of id.
func (m *TableModel) ToggleVisibility(id string) error {
	return m.update("toggle-visibility", func(s ViewState) (ViewState, error) {
		return ToggleVisibility(s, m.reg, id)
	})
}

// ShowAll makes every column visible.
func (m *TableModel) ShowAll() error {
	return m.update("show-all", func(s ViewState) (ViewState, error) {
		return ShowAll(s, m.reg), nil
	})
}

// ResetVisibility restores the configured default visibility.
func (m *TableModel) ResetVisibility() error {
	return m.update("reset-visibility", func(s ViewState) (ViewState, error) {
		return ResetVisibility(s, m.reg, m.defaultVisibility())
	})
}

// SetPage moves to pageIndex; indices past the last page show an empty page.
func (m *TableModel) SetPage(pageIndex int) error {
	return m.update("set-page", func(s ViewState) (ViewState, error) {
		return SetPage(s, pageIndex)
	}, paginationEnabled)
}

// SetPageSize changes the page size and returns to the first page.
func (m *TableModel) SetPageSize(pageSize int) error {
	return m.update("set-page-size", func(s ViewState) (ViewState, error) {
		return SetPageSize(s, pageSize)
	}, paginationEnabled)
}

// NextPage advances one page, stopping at the last page of the current window.
func (m *TableModel) NextPage() error {
	return m.update("next-page", func(s ViewState) (ViewState, error) {
		last := max(m.window.PageCount-1, 0)
		return SetPage(s, min(s.pagination.PageIndex, last-1)+1)
	}, paginationEnabled)
}

// PreviousPage goes back one page, stopping at the first. A page index left
// past the end by a shrinking filter jumps back to the last page.
func (m *TableModel) PreviousPage() error {
	return m.update("previous-page", func(s ViewState) (ViewState, error) {
		last := max(m.window.PageCount-1, 0)
		return SetPage(s, max(min(s.pagination.PageIndex-1, last), 0))
	}, paginationEnabled)
}

// FirstPage moves to page 0.
func (m *TableModel) FirstPage() error {
	return m.SetPage(0)
}

// LastPage moves to the last page of the current window.
func (m *TableModel) LastPage() error {
	return m.update("last-page", func(s ViewState) (ViewState, error) {
		return SetPage(s, max(m.window.PageCount-1, 0))
	}, paginationEnabled)
}

// SetDataset swaps the rows under the view. The view state is kept and a
// running auto-fit, which measured the old rows, is cancelled.
func (m *TableModel) SetDataset(ds Dataset) error {
	if ds == nil {
		return ErrNoDataSource
	}
	m.mu.Lock()
	m.cancelPendingLocked()
	m.ds = ds
	m.window = ComputeWith(ds, m.state, m.reg, m.stages)
	notes := []Notification{VisibleWindowChanged{Window: m.window}}
	m.mu.Unlock()
	m.emit(notes)
	return nil
}

// SetSchema replaces the registry. See ViewState.Rebase for what carries over.
func (m *TableModel) SetSchema(reg *Registry) error {
	if reg == nil {
		return ErrNoRegistry
	}
	m.mu.Lock()
	m.cancelPendingLocked()
	m.reg = reg
	m.menu = nil
	next := m.state.Rebase(reg)
	m.state = next
	m.window = ComputeWith(m.ds, next, reg, m.stages)
	notes := []Notification{ViewStateChanged{State: next}, VisibleWindowChanged{Window: m.window}}
	m.mu.Unlock()
	m.logger.Info("schema changed", zap.Int("columns", reg.Len()))
	m.emit(notes)
	return nil
}

// OpenHeaderMenu builds the header menu for columnID (which may be empty)
// and announces it. No menu opens when there is nothing to show.
func (m *TableModel) OpenHeaderMenu(columnID string, at Point) ([]Action, error) {
	m.mu.Lock()
	if err := menuEnabled(m); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	if columnID != "" && !m.reg.Contains(columnID) {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, columnID)
	}
	actions := m.menus.HeaderActions(m.state, m.reg, columnID)
	notes := m.openMenuLocked(&openMenu{scope: ScopeHeader, columnID: columnID, actions: actions}, at)
	m.mu.Unlock()
	m.emit(notes)
	return actions, nil
}

// OpenRowMenu builds the row menu for row and announces it.
func (m *TableModel) OpenRowMenu(row Row, rowIndex int, at Point) ([]Action, error) {
	m.mu.Lock()
	if err := menuEnabled(m); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	builder := m.menus
	m.mu.Unlock()

	// The generator is caller code; run it without holding the lock.
	actions := builder.RowActions(row, rowIndex)

	m.mu.Lock()
	notes := m.openMenuLocked(&openMenu{scope: ScopeRow, row: row, rowIndex: rowIndex, actions: actions}, at)
	m.mu.Unlock()
	m.emit(notes)
	return actions, nil
}

func (m *TableModel) openMenuLocked(menu *openMenu, at Point) []Notification {
	if len(menu.actions) == 0 {
		return nil
	}
	m.menu = menu
	return []Notification{MenuOpened{Scope: menu.scope, Actions: slices.Clone(menu.actions), ScreenPoint: at}}
}

// CloseMenu dismisses the open menu, if any.
func (m *TableModel) CloseMenu() {
	m.mu.Lock()
	open := m.menu != nil
	m.menu = nil
	m.mu.Unlock()
	if open {
		m.emit([]Notification{MenuClosed{}})
	}
}

// ChooseAction runs the entry key of the open menu. The menu closes first.
// Visibility and auto-fit entries act on the view; everything else is
// reported to observers as ActionInvoked.
func (m *TableModel) ChooseAction(key string) error {
	m.mu.Lock()
	menu := m.menu
	if menu == nil {
		m.mu.Unlock()
		return ErrNoMenuOpen
	}
	idx := slices.IndexFunc(menu.actions, func(a Action) bool { return a.Key == key })
	if idx < 0 || menu.actions[idx].Separator || menu.actions[idx].Disabled {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownAction, key)
	}
	m.menu = nil
	reg := m.reg
	m.mu.Unlock()
	m.emit([]Notification{MenuClosed{}})

	if menu.scope == ScopeHeader {
		switch key {
		case ActionShowDefaultColumns:
			return m.ResetVisibility()
		case ActionShowAllColumns:
			return m.ShowAll()
		case ActionAutoFitColumns:
			_, err := m.StartAutoFit(context.Background())
			return err
		}
		if id, ok := ParseToggleActionKey(key); ok && reg.Contains(id) {
			return m.ToggleVisibility(id)
		}
	}
	m.emit([]Notification{ActionInvoked{
		ActionKey: key,
		Scope:     menu.scope,
		ColumnID:  menu.columnID,
		Row:       menu.row,
		RowIndex:  menu.rowIndex,
	}})
	return nil
}
