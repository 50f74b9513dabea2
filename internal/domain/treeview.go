package domain

import (
	"fmt"
	"slices"
)

// ViewEventKind classifies view notifications
type ViewEventKind int

const (
	EventInserted ViewEventKind = iota
	EventRemoved
	EventChanged
	EventSelected
)

func (k ViewEventKind) String() string {
	switch k {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventChanged:
		return "changed"
	case EventSelected:
		return "selected"
	}
	return "unknown"
}

// ViewEvent reports a change to the view tree
type ViewEvent struct {
	Kind ViewEventKind
	Node *ViewNode
}

// TreeView is the display tree mirroring a Document.
// Notifications are held back between BeginUpdate and the matching EndUpdate.
type TreeView struct {
	doc      *Document
	roots    []*ViewNode
	selected *ViewNode
	editing  *ViewNode

	index map[*Node]*ViewNode

	updateDepth int
	pending     []ViewEvent
	listeners   []func(ViewEvent)
}

// NewTreeView creates a view bound to doc
func NewTreeView(doc *Document) *TreeView {
	t := &TreeView{index: map[*Node]*ViewNode{}}
	t.Bind(doc)
	return t
}

// Bind rebuilds the whole view from the document
func (t *TreeView) Bind(doc *Document) {
	for _, r := range t.roots {
		r.walk(func(v *ViewNode) { v.view = nil })
	}
	t.doc = doc
	t.roots = nil
	t.selected = nil
	t.editing = nil
	t.index = map[*Node]*ViewNode{}
	if doc == nil {
		return
	}
	for _, c := range doc.node.children {
		v := NewViewNodeFor(c)
		t.roots = append(t.roots, v)
		t.attach(v)
	}
}

// Document returns the bound document
func (t *TreeView) Document() *Document { return t.doc }

// Nodes returns the top-level view nodes
func (t *TreeView) Nodes() []*ViewNode { return slices.Clone(t.roots) }

// Count returns the number of top-level nodes
func (t *TreeView) Count() int { return len(t.roots) }

// Insert adds a top-level node at index i (clamped)
func (t *TreeView) Insert(i int, v *ViewNode) {
	if i < 0 {
		i = 0
	}
	if i > len(t.roots) {
		i = len(t.roots)
	}
	v.detach()
	v.parent = nil
	t.roots = slices.Insert(t.roots, i, v)
	t.attach(v)
}

// SelectedNode returns the current selection
func (t *TreeView) SelectedNode() *ViewNode { return t.selected }

// SetSelectedNode changes the selection. Nodes outside the view clear it.
func (t *TreeView) SetSelectedNode(v *ViewNode) {
	if v != nil && v.view != t {
		v = nil
	}
	if t.selected == v {
		return
	}
	t.selected = v
	t.notify(ViewEvent{Kind: EventSelected, Node: v})
}

// BeginUpdate suspends notifications until the matching EndUpdate
func (t *TreeView) BeginUpdate() {
	t.updateDepth++
}

// EndUpdate releases one BeginUpdate and flushes queued notifications at the outermost level
func (t *TreeView) EndUpdate() {
	if t.updateDepth == 0 {
		return
	}
	t.updateDepth--
	if t.updateDepth > 0 {
		return
	}
	pending := t.pending
	t.pending = nil
	for _, ev := range pending {
		t.dispatch(ev)
	}
}

// Updating reports whether a BeginUpdate is outstanding
func (t *TreeView) Updating() bool { return t.updateDepth > 0 }

// Subscribe registers fn for view notifications
func (t *TreeView) Subscribe(fn func(ViewEvent)) {
	t.listeners = append(t.listeners, fn)
}

// NotifyInserted reports that v now has its document node in place
func (t *TreeView) NotifyInserted(v *ViewNode) {
	t.notify(ViewEvent{Kind: EventInserted, Node: v})
}

func (t *TreeView) notify(ev ViewEvent) {
	if t.updateDepth > 0 {
		t.pending = append(t.pending, ev)
		return
	}
	t.dispatch(ev)
}

func (t *TreeView) dispatch(ev ViewEvent) {
	for _, fn := range t.listeners {
		fn(ev)
	}
}

// BeginEdit marks v as having an in-place label edit open
func (t *TreeView) BeginEdit(v *ViewNode) { t.editing = v }

// EditingNode returns the node with an open label edit
func (t *TreeView) EditingNode() *ViewNode { return t.editing }

// EndEdit closes the label edit
func (t *TreeView) EndEdit() { t.editing = nil }

// CancelEdit abandons any open label edit
func (t *TreeView) CancelEdit() { t.editing = nil }

// FindNode returns the view node mirroring n
func (t *TreeView) FindNode(n *Node) *ViewNode {
	if n == nil {
		return nil
	}
	return t.index[n]
}

// Contains reports whether v is attached to this view
func (t *TreeView) Contains(v *ViewNode) bool {
	return v != nil && v.view == t
}

// NodeAt resolves a path to a view node
func (t *TreeView) NodeAt(path NodePath) (*ViewNode, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	list := t.roots
	var v *ViewNode
	for depth, i := range path {
		if i < 0 || i >= len(list) {
			return nil, fmt.Errorf("no node at %s (index %d out of range at depth %d)", path, i, depth)
		}
		v = list[i]
		list = v.children
	}
	return v, nil
}

// PathOf returns the path of an attached view node
func (t *TreeView) PathOf(v *ViewNode) NodePath {
	if v == nil || v.view != t {
		return nil
	}
	var path NodePath
	for n := v; n != nil; n = n.parent {
		path = append(path, n.Index())
	}
	slices.Reverse(path)
	return path
}

// Flatten returns the visible nodes in display order; collapsed subtrees are skipped
// unless all is true.
func (t *TreeView) Flatten(all bool) []*ViewNode {
	var out []*ViewNode
	var rec func(list []*ViewNode)
	rec = func(list []*ViewNode) {
		for _, v := range list {
			out = append(out, v)
			if all || v.Expanded {
				rec(v.children)
			}
		}
	}
	rec(t.roots)
	return out
}

// ExpandAll expands every node
func (t *TreeView) ExpandAll() {
	for _, r := range t.roots {
		r.walk(func(v *ViewNode) {
			v.Expanded = true
			v.updateImage()
		})
	}
}

// Depth returns how many ancestors v has
func (v *ViewNode) Depth() int {
	d := 0
	for p := v.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// SetExpanded toggles the expanded state and refreshes the image
func (v *ViewNode) SetExpanded(expanded bool) {
	v.Expanded = expanded
	v.updateImage()
}

func (t *TreeView) attach(v *ViewNode) {
	v.walk(func(x *ViewNode) {
		x.view = t
		if x.node != nil {
			t.index[x.node] = x
		}
	})
}

func (t *TreeView) detachIndex(v *ViewNode) {
	v.walk(func(x *ViewNode) {
		x.view = nil
		if x.node != nil && t.index[x.node] == x {
			delete(t.index, x.node)
		}
	})
	if t.selected != nil && (t.selected == v || t.selected.IsDescendantOf(v)) {
		t.selected = nil
	}
	if t.editing != nil && (t.editing == v || t.editing.IsDescendantOf(v)) {
		t.editing = nil
	}
}

func (v *ViewNode) walk(fn func(*ViewNode)) {
	fn(v)
	for _, c := range v.children {
		c.walk(fn)
	}
}
