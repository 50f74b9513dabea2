package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

// NudgeDirection is a one-step move relative to siblings or parent
type NudgeDirection int

const (
	NudgeUp NudgeDirection = iota
	NudgeDown
	NudgeLeft
	NudgeRight
)

func (d NudgeDirection) String() string {
	switch d {
	case NudgeUp:
		return "up"
	case NudgeDown:
		return "down"
	case NudgeLeft:
		return "left"
	case NudgeRight:
		return "right"
	}
	return "unknown"
}

// ParseNudgeDirection parses "up", "down", "left" or "right"
func ParseNudgeDirection(s string) (NudgeDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return NudgeUp, nil
	case "down":
		return NudgeDown, nil
	case "left":
		return NudgeLeft, nil
	case "right":
		return NudgeRight, nil
	}
	return NudgeUp, fmt.Errorf("unknown direction %q (expected up, down, left or right)", s)
}

// MoveNode moves a node, or a copy of it, to a position relative to a target node.
// It also backs Duplicate and the four nudge directions.
type MoveNode struct {
	view   *domain.TreeView
	source *domain.ViewNode
	target *domain.ViewNode
	pos    Position
	copy   bool
	noop   bool

	wasAttached bool
	origAnchor  *Anchor
	origIndex   int
}

// NewMoveNode validates the move and creates the command. The destination is normalized so
// attributes stay in front of the other children. When asCopy is set the moved node is a
// clone of source; a cloned attribute gets a name that is unique at the destination.
func NewMoveNode(view *domain.TreeView, source, target *domain.ViewNode, pos Position, asCopy bool) (*MoveNode, error) {
	if source == nil {
		return nil, &application.ValidationError{Field: "source", Message: "source node is required"}
	}
	if target == nil {
		pos = PositionChild
	}
	if target != nil && !asCopy {
		if target == source && pos != PositionChild {
			return &MoveNode{view: view, source: source, target: target, pos: pos, noop: true}, nil
		}
		if target == source || target.IsDescendantOf(source) {
			return nil, application.ErrMoveIntoSelf
		}
	}

	c := &MoveNode{view: view, source: source, target: target, pos: pos, copy: asCopy, origIndex: -1}
	c.normalize()

	var moving *domain.Node
	if !asCopy {
		moving = source.Node()
	}
	if err := checkPlacement(view, c.pos, source.Kind(), c.target, moving); err != nil {
		return nil, err
	}

	if asCopy {
		clone, err := c.cloneSource()
		if err != nil {
			return nil, err
		}
		c.source = clone
		return c, nil
	}

	if n := source.Node(); n != nil && n.Type() == domain.NodeAttribute {
		owner := resolveParent(view, c.pos, c.target)
		if owner == nil {
			return nil, application.ErrInvalidChild
		}
		if dup := owner.AttributeNode(n.LocalName(), n.NamespaceURI()); dup != nil && dup != n {
			return nil, application.ErrDuplicateAttribute
		}
	}
	c.wasAttached = view.Contains(source)
	if c.wasAttached {
		c.origAnchor = NewAnchorFor(view, source)
		c.origIndex = source.Index()
	}
	return c, nil
}

// NewDuplicate copies node and places the copy right after it
func NewDuplicate(view *domain.TreeView, node *domain.ViewNode) (*MoveNode, error) {
	return NewMoveNode(view, node, node, PositionAfter, true)
}

// NewNudge moves node one step in dir. Up and down swap with the adjacent sibling on the same
// side of the attribute boundary; left makes the node a sibling of its parent; right makes it
// the last child of the preceding element sibling.
func NewNudge(view *domain.TreeView, node *domain.ViewNode, dir NudgeDirection) (*MoveNode, error) {
	if node == nil {
		return nil, &application.ValidationError{Field: "node", Message: "node is required"}
	}
	switch dir {
	case NudgeUp:
		prev := node.PrevSibling()
		if prev == nil || prev.IsAttribute() != node.IsAttribute() {
			return nil, application.ErrCannotNudge
		}
		return NewMoveNode(view, node, prev, PositionBefore, false)
	case NudgeDown:
		next := node.NextSibling()
		if next == nil || next.IsAttribute() != node.IsAttribute() {
			return nil, application.ErrCannotNudge
		}
		return NewMoveNode(view, node, next, PositionAfter, false)
	case NudgeLeft:
		parent := node.Parent()
		if parent == nil {
			return nil, application.ErrCannotNudge
		}
		pos := PositionAfter
		if node.Index() == 0 {
			pos = PositionBefore
		}
		return NewMoveNode(view, node, parent, pos, false)
	case NudgeRight:
		prev := node.PrevSibling()
		if prev == nil || prev.IsAttribute() || node.IsAttribute() || prev.Kind() != domain.NodeElement {
			return nil, application.ErrCannotNudge
		}
		return NewMoveNode(view, node, prev, PositionChild, false)
	}
	return nil, fmt.Errorf("%w: %s", application.ErrCannotNudge, dir)
}

// CanNudge reports whether node can be nudged in dir
func CanNudge(view *domain.TreeView, node *domain.ViewNode, dir NudgeDirection) bool {
	_, err := NewNudge(view, node, dir)
	return err == nil
}

func (c *MoveNode) Name() string {
	if c.copy {
		return "Copy " + c.source.Text()
	}
	return "Move " + c.source.Text()
}

func (c *MoveNode) IsNoop() bool { return c.noop }

// Source returns the node being placed: the clone when copying
func (c *MoveNode) Source() *domain.ViewNode { return c.source }

// Target returns the normalized target
func (c *MoveNode) Target() *domain.ViewNode { return c.target }

// Position returns the normalized position
func (c *MoveNode) Position() Position { return c.pos }

// Do detaches the source, inserts it at the destination and selects it. When the insert fails
// the source goes back where it was.
func (c *MoveNode) Do() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	var from *Anchor
	fromIndex := -1
	if c.view.Contains(c.source) {
		from = NewAnchorFor(c.view, c.source)
		fromIndex = c.source.Index()
		if err := from.Remove(c.source); err != nil {
			return err
		}
	}
	anchor, index, pos := resolvePlacement(c.view, c.source.Kind(), c.pos, c.target)
	if err := anchor.Insert(index, pos, c.source, true); err != nil {
		if from != nil {
			_ = from.Insert(fromIndex, PositionBefore, c.source, true)
		}
		return err
	}
	return nil
}

// Undo removes the source and, when it was part of the view before, puts it back at its
// original index
func (c *MoveNode) Undo() error {
	if c.noop {
		return nil
	}
	c.view.BeginUpdate()
	defer c.view.EndUpdate()

	if c.view.Contains(c.source) {
		if err := NewAnchorFor(c.view, c.source).Remove(c.source); err != nil {
			return err
		}
	}
	if c.wasAttached {
		return c.origAnchor.Insert(c.origIndex, PositionBefore, c.source, true)
	}
	return nil
}

func (c *MoveNode) Redo() error { return c.Do() }

// normalize retargets placements across the attribute boundary. An attribute placed next to
// a non-attribute goes after the last attribute (or becomes a child of the element when it has
// none); a non-attribute placed next to an attribute goes before the first non-attribute (or
// becomes a child of the element when it has none).
func (c *MoveNode) normalize() {
	t := c.target
	if t == nil || c.pos == PositionChild {
		return
	}
	attr := c.source.IsAttribute()
	if attr == t.IsAttribute() {
		return
	}
	parent := t.Parent()
	if parent == nil {
		return
	}
	var lastAttr, firstChild *domain.ViewNode
	for _, s := range parent.Children() {
		if s == c.source {
			continue
		}
		if s.IsAttribute() {
			lastAttr = s
		} else if firstChild == nil {
			firstChild = s
		}
	}
	switch {
	case attr && lastAttr != nil:
		c.target, c.pos = lastAttr, PositionAfter
	case !attr && firstChild != nil:
		c.target, c.pos = firstChild, PositionBefore
	default:
		c.target, c.pos = parent, PositionChild
	}
}

func (c *MoveNode) cloneSource() (*domain.ViewNode, error) {
	n := c.source.Node()
	if n == nil {
		return nil, application.ErrNodeNotCreated
	}
	if n.Type() != domain.NodeAttribute {
		return domain.NewViewNodeFor(n.Clone(true)), nil
	}
	owner := resolveParent(c.view, c.pos, c.target)
	clone := c.view.Document().CreateAttribute(n.Prefix(), GetUniqueAttributeName(owner, n), n.NamespaceURI())
	clone.SetValue(n.Value())
	return domain.NewViewNodeFor(clone), nil
}

// GetUniqueAttributeName returns a local name for attr that no attribute of owner uses in
// attr's namespace. A single letter is bumped to the next free letter; otherwise, or when the
// letters run out, a numeric suffix is incremented.
func GetUniqueAttributeName(owner, attr *domain.Node) string {
	local, ns := attr.LocalName(), attr.NamespaceURI()
	taken := func(name string) bool {
		return owner != nil && owner.AttributeNode(name, ns) != nil
	}
	if !taken(local) {
		return local
	}
	base := strings.TrimRightFunc(local, unicode.IsDigit)
	digits := local[len(base):]
	if digits == "" && len(base) == 1 {
		r := rune(base[0])
		for (r >= 'a' && r < 'z') || (r >= 'A' && r < 'Z') {
			r++
			if !taken(string(r)) {
				return string(r)
			}
		}
	}
	n := 1
	if v, err := strconv.Atoi(digits); err == nil && v < 1<<30 {
		n = v + 1
	}
	for ; ; n++ {
		name := base + strconv.Itoa(n)
		if !taken(name) {
			return name
		}
	}
}
