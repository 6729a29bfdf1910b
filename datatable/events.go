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

// Gesture is an input event from the pointer, keyboard or menu layer.
type Gesture interface {
	gesture()
}

// ReorderCommitted reports a finished column drag.
type ReorderCommitted struct {
	DraggedID string
	TargetID  string
}

// ResizeDelta reports a resize handle movement.
type ResizeDelta struct {
	ColumnID    string
	DeltaPixels float32
}

// HeaderClicked reports a click (or keyboard activation) on a header.
type HeaderClicked struct {
	ColumnID string
}

// ContextMenuRequested reports a secondary click on a header or a row.
// ColumnID is optional for headers; Row and RowIndex are set for rows.
type ContextMenuRequested struct {
	Scope       MenuScope
	ColumnID    string
	Row         Row
	RowIndex    int
	ScreenPoint Point
}

// MenuActionChosen reports the entry picked from the open menu.
type MenuActionChosen struct {
	ActionKey string
}

// MenuDismissed reports that the open menu was closed without a choice.
type MenuDismissed struct{}

// PageRequested reports a paginator click.
type PageRequested struct {
	PageIndex int
}

// PageSizeRequested reports a page size selection.
type PageSizeRequested struct {
	PageSize int
}

// FilterChanged reports a new filter for a column; a nil Filter clears it.
type FilterChanged struct {
	ColumnID string
	Filter   Filter
}

func (ReorderCommitted) gesture()     {}
func (ResizeDelta) gesture()          {}
func (HeaderClicked) gesture()        {}
func (ContextMenuRequested) gesture() {}
func (MenuActionChosen) gesture()     {}
func (MenuDismissed) gesture()        {}
func (PageRequested) gesture()        {}
func (PageSizeRequested) gesture()    {}
func (FilterChanged) gesture()        {}

// Notification is sent to observers after the view changed.
type Notification interface {
	notification()
}

// ViewStateChanged carries the new view state.
type ViewStateChanged struct {
	State ViewState
}

// VisibleWindowChanged carries the recomputed page of rows.
type VisibleWindowChanged struct {
	Window VisibleWindow
}

// MenuOpened asks the menu collaborator to show actions at a point.
type MenuOpened struct {
	Scope       MenuScope
	Actions     []Action
	ScreenPoint Point
}

// MenuClosed asks the menu collaborator to hide the menu.
type MenuClosed struct{}

// ActionInvoked reports a chosen action the engine does not handle itself:
// row actions and caller-defined header actions.
type ActionInvoked struct {
	ActionKey string
	Scope     MenuScope
	ColumnID  string
	Row       Row
	RowIndex  int
}

func (ViewStateChanged) notification()     {}
func (VisibleWindowChanged) notification() {}
func (MenuOpened) notification()           {}
func (MenuClosed) notification()           {}
func (ActionInvoked) notification()        {}
