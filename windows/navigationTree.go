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
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"

	"github.com/magpierre/tableview/loader"
)

// NodeKind is the level of a navigation tree node.
type NodeKind int

const (
	NodeShare NodeKind = iota
	NodeSchema
	NodeTable
)

// TreeNode is one share, schema or table of a Delta Sharing server.
type TreeNode struct {
	ID       widget.TreeNodeID
	Kind     NodeKind
	Name     string
	Table    delta_sharing.Table
	Children []widget.TreeNodeID
}

// NavigationTree indexes the tables a profile can see as a
// share/schema/table hierarchy for a widget.Tree.
type NavigationTree struct {
	mu    sync.RWMutex
	nodes map[widget.TreeNodeID]*TreeNode
	roots []widget.TreeNodeID

	// OnTableSelected is called when a table leaf is selected.
	OnTableSelected func(delta_sharing.Table)
	// OnTableMenu is called on a secondary tap on a table leaf.
	OnTableMenu func(delta_sharing.Table, *fyne.PointEvent)
}

// NewNavigationTree returns an empty tree.
func NewNavigationTree() *NavigationTree {
	return &NavigationTree{nodes: map[widget.TreeNodeID]*TreeNode{}}
}

// nodeID joins path segments; "/" cannot appear in Delta Sharing names.
func nodeID(parts ...string) widget.TreeNodeID {
	return strings.Join(parts, "/")
}

// Load lists every share and table of ds and rebuilds the tree.
func (nt *NavigationTree) Load(ctx context.Context, ds *loader.DeltaSharing) error {
	shares, err := ds.ListShares(ctx)
	if err != nil {
		return err
	}
	tables, err := ds.ListTables(ctx)
	if err != nil {
		return err
	}
	nt.SetTables(shares, tables)
	return nil
}

// SetTables rebuilds the tree. Shares without tables are kept as empty
// branches; tables of unlisted shares add their share.
func (nt *NavigationTree) SetTables(shares []string, tables []delta_sharing.Table) {
	nodes := map[widget.TreeNodeID]*TreeNode{}
	var roots []widget.TreeNodeID

	branch := func(parent *TreeNode, id widget.TreeNodeID, kind NodeKind, name string) *TreeNode {
		if n, ok := nodes[id]; ok {
			return n
		}
		n := &TreeNode{ID: id, Kind: kind, Name: name}
		nodes[id] = n
		if parent == nil {
			roots = append(roots, id)
		} else {
			parent.Children = append(parent.Children, id)
		}
		return n
	}

	for _, share := range shares {
		branch(nil, nodeID(share), NodeShare, share)
	}
	for _, t := range tables {
		share := branch(nil, nodeID(t.Share), NodeShare, t.Share)
		schema := branch(share, nodeID(t.Share, t.Schema), NodeSchema, t.Schema)
		leaf := branch(schema, nodeID(t.Share, t.Schema, t.Name), NodeTable, t.Name)
		leaf.Table = t
	}

	nt.mu.Lock()
	nt.nodes, nt.roots = nodes, roots
	nt.mu.Unlock()
}

// Node returns the node with id, or nil.
func (nt *NavigationTree) Node(id widget.TreeNodeID) *TreeNode {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return nt.nodes[id]
}

// ChildUIDs lists the children of id; the empty id is the root.
func (nt *NavigationTree) ChildUIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	if id == "" {
		return nt.roots
	}
	if n, ok := nt.nodes[id]; ok {
		return n.Children
	}
	return nil
}

// IsBranch reports whether id is the root, a share or a schema.
func (nt *NavigationTree) IsBranch(id widget.TreeNodeID) bool {
	if id == "" {
		return true
	}
	n := nt.Node(id)
	return n != nil && n.Kind != NodeTable
}

// Widget builds the fyne tree over nt.
func (nt *NavigationTree) Widget() *widget.Tree {
	tree := widget.NewTree(nt.ChildUIDs, nt.IsBranch,
		func(bool) fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), newTappableLabel())
		},
		nt.updateNode,
	)
	tree.OnSelected = func(id widget.TreeNodeID) {
		if n := nt.Node(id); n != nil && n.Kind == NodeTable && nt.OnTableSelected != nil {
			nt.OnTableSelected(n.Table)
		}
	}
	return tree
}

func (nt *NavigationTree) updateNode(id widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	n := nt.Node(id)
	box, ok := obj.(*fyne.Container)
	if n == nil || !ok || len(box.Objects) < 2 {
		return
	}
	if icon, ok := box.Objects[0].(*widget.Icon); ok {
		switch n.Kind {
		case NodeShare:
			icon.SetResource(theme.FolderOpenIcon())
		case NodeSchema:
			icon.SetResource(theme.FolderIcon())
		default:
			icon.SetResource(theme.GridIcon())
		}
	}
	if label, ok := box.Objects[1].(*tappableLabel); ok {
		label.SetText(n.Name)
		label.onSecondary = nil
		if n.Kind == NodeTable {
			table := n.Table
			label.onSecondary = func(e *fyne.PointEvent) {
				if nt.OnTableMenu != nil {
					nt.OnTableMenu(table, e)
				}
			}
		}
	}
}

// tappableLabel is a label that reports secondary taps. Primary taps fall
// through to the tree row.
type tappableLabel struct {
	widget.Label
	onSecondary func(*fyne.PointEvent)
}

func newTappableLabel() *tappableLabel {
	l := &tappableLabel{}
	l.ExtendBaseWidget(l)
	return l
}

// TappedSecondary handles right-click.
func (l *tappableLabel) TappedSecondary(e *fyne.PointEvent) {
	if l.onSecondary != nil {
		l.onSecondary(e)
	}
}
