package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

func TestCutCommand(t *testing.T) {
	view := newView(t, `<r><a /><b /><c /></r>`)
	clip := &memClipboard{}
	b := at(t, view, "/0/1")
	c := at(t, view, "/0/2")
	before := snapshot(view)

	cmd, err := NewCutCommand(view, clip, b)
	require.NoError(t, err)
	require.NoError(t, cmd.Do())

	assert.Equal(t, `<r><a /><c /></r>`, view.Document().String())
	assert.Same(t, c, view.SelectedNode(), "selection moves to the next sibling")
	require.NotNil(t, clip.data)
	assert.Equal(t, domain.NodeElement, clip.data.NodeType)
	assert.Equal(t, `<b />`, clip.data.XML)
	assert.True(t, clip.data.Typed())
	requireInSync(t, view)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, before, snapshot(view))
	assert.Equal(t, 1, b.Index())
	assert.Same(t, b, view.SelectedNode())
	assert.NotNil(t, clip.data, "undo leaves the clipboard alone")
	requireInSync(t, view)

	require.NoError(t, cmd.Redo())
	assert.Equal(t, `<r><a /><c /></r>`, view.Document().String())
}

func TestCutCommand_SelectionFallsBack(t *testing.T) {
	view := newView(t, `<r><a /><b /></r>`)
	clip := &memClipboard{}

	last, err := NewCutCommand(view, clip, at(t, view, "/0/1"))
	require.NoError(t, err)
	require.NoError(t, last.Do())
	assert.Same(t, at(t, view, "/0/0"), view.SelectedNode(), "previous sibling when there is no next")

	only, err := NewCutCommand(view, clip, at(t, view, "/0/0"))
	require.NoError(t, err)
	require.NoError(t, only.Do())
	assert.Same(t, at(t, view, "/0"), view.SelectedNode(), "parent when there are no siblings")
}

type failingClipboard struct{}

func (failingClipboard) SetTreeData(*domain.TreeData) error { return errors.New("clipboard locked") }
func (failingClipboard) TreeData() (*domain.TreeData, error) { return nil, errors.New("clipboard locked") }

func TestCutCommand_ClipboardFailureKeepsNode(t *testing.T) {
	view := newView(t, `<r><a /></r>`)
	cmd, err := NewCutCommand(view, failingClipboard{}, at(t, view, "/0/0"))
	require.NoError(t, err)
	require.Error(t, cmd.Do())
	assert.Equal(t, `<r><a /></r>`, view.Document().String())
}

func TestCopy(t *testing.T) {
	view := newView(t, `<r xmlns:p="urn:p"><p:a k="v" /></r>`)
	clip := &memClipboard{}

	data, err := Copy(clip, at(t, view, "/0/1"))
	require.NoError(t, err)
	assert.Same(t, data, clip.data)
	assert.Equal(t, `<p:a k="v" xmlns:p="urn:p" />`, data.XML, "copied markup declares inherited prefixes")
	assert.Equal(t, `<r xmlns:p="urn:p"><p:a k="v" /></r>`, view.Document().String())

	attr, err := Copy(clip, at(t, view, "/0/1/0"))
	require.NoError(t, err)
	assert.Equal(t, domain.NodeAttribute, attr.NodeType)
	assert.Equal(t, `k="v"`, attr.XML)
}

func TestPasteCommand(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		data   *domain.TreeData
		pos    Position
		target string
		want   string
	}{
		{"element after element", `<r><a /><b /></r>`, domain.NewTreeDataFromText(`<c x="1"/>`), PositionAfter, "/0/0", `<r><a /><c x="1" /><b /></r>`},
		{"element into element", `<r><a /></r>`, domain.NewTreeDataFromText(`<c/>`), PositionChild, "/0/0", `<r><a><c /></a></r>`},
		{"attribute text", `<r><a /></r>`, domain.NewTreeDataFromText(`k = 'v &amp; w'`), PositionChild, "/0/0", `<r><a k="v &amp; w" /></r>`},
		{"attribute onto a child goes after the attributes", `<r x="1"><a /></r>`, domain.NewTreeDataFromText(`k="v"`), PositionAfter, "/0/1", `<r x="1" k="v"><a /></r>`},
		{"plain text", `<r><a /></r>`, domain.NewTreeDataFromText("hello"), PositionChild, "/0/0", `<r><a>hello</a></r>`},
		{"comment text", `<r><a /></r>`, domain.NewTreeDataFromText("<!--note-->"), PositionChild, "/0", `<r><a /><!--note--></r>`},
		{"onto text goes after it", `<r>t</r>`, domain.NewTreeDataFromText("<b/>"), PositionChild, "/0/0", `<r>t<b /></r>`},
		{"redundant declaration dropped", `<r xmlns:p="urn:p"><b /></r>`, domain.NewTypedTreeData(domain.NodeElement, domain.ImageLeafElement, `<p:a xmlns:p="urn:p" />`), PositionChild, "/0/1", `<r xmlns:p="urn:p"><b><p:a /></b></r>`},
		{"unrelated declaration kept", `<r><b /></r>`, domain.NewTypedTreeData(domain.NodeElement, domain.ImageLeafElement, `<p:a xmlns:p="urn:p" />`), PositionChild, "/0/0", `<r><b><p:a xmlns:p="urn:p" /></b></r>`},
		{"malformed untyped markup becomes text", `<r />`, domain.NewTreeDataFromText("<oops"), PositionChild, "/0", `<r>&lt;oops</r>`},
		{"unbound attribute prefix declared on the owner", `<r><a /></r>`, domain.NewTreeDataFromText(`q:y="1"`), PositionChild, "/0/0", `<r><a q:y="1" xmlns:q="urn:q" /></r>`},
		{"unbound element prefix declared on the element", `<r />`, domain.NewTreeDataFromText(`<x:y a="1"/>`), PositionChild, "/0", `<r><x:y a="1" xmlns:x="urn:x" /></r>`},
		{"copied attribute keeps its namespace", `<other />`, domain.NewTypedTreeData(domain.NodeAttribute, domain.ImageAttribute, `p:x="2" xmlns:p="urn:p"`), PositionChild, "/0", `<other p:x="2" xmlns:p="urn:p" />`},
		{"copied attribute uses the binding in scope", `<r xmlns:p="urn:p"><a /></r>`, domain.NewTypedTreeData(domain.NodeAttribute, domain.ImageAttribute, `p:x="2" xmlns:p="urn:p"`), PositionChild, "/0/1", `<r xmlns:p="urn:p"><a p:x="2" /></r>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			before := snapshot(view)

			cmd, err := NewPasteTreeData(view, tt.data, tt.pos, at(t, view, tt.target))
			require.NoError(t, err)
			require.NoError(t, cmd.Do())
			assert.Equal(t, tt.want, view.Document().String())
			assert.Same(t, cmd.NewNode(), view.SelectedNode())
			requireInSync(t, view)
			after := snapshot(view)

			require.NoError(t, cmd.Undo())
			assert.Equal(t, before, snapshot(view))
			requireInSync(t, view)

			require.NoError(t, cmd.Redo())
			assert.Equal(t, after, snapshot(view))
		})
	}
}

func TestPasteCommand_PrefixedCopySurvivesSave(t *testing.T) {
	source := newView(t, `<root xmlns:p="urn:p" p:x="2"><p:e /></root>`)

	tests := []struct {
		name   string
		path   string
		pasted func(root *domain.Node) *domain.Node
	}{
		{"attribute", "/0/1", func(root *domain.Node) *domain.Node { return root.AttributeAt(0) }},
		{"element", "/0/2", func(root *domain.Node) *domain.Node { return root.FirstChild() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clip := &memClipboard{}
			target := newView(t, `<other />`)
			_, err := Copy(clip, at(t, source, tt.path))
			require.NoError(t, err)
			cmd, err := NewPasteCommand(target, clip, PositionChild, at(t, target, "/0"))
			require.NoError(t, err)
			require.NoError(t, cmd.Do())
			assert.Equal(t, "urn:p", cmd.NewNode().Node().NamespaceURI())

			reloaded := domain.NewDocument()
			require.NoError(t, reloaded.LoadString(target.Document().String()))
			assert.Equal(t, target.Document().String(), reloaded.String())
			assert.Equal(t, "urn:p", tt.pasted(reloaded.DocumentElement()).NamespaceURI())
		})
	}
}

func TestPasteCommand_TargetFallback(t *testing.T) {
	t.Run("selection", func(t *testing.T) {
		view := newView(t, `<r><a /><b /></r>`)
		view.SetSelectedNode(at(t, view, "/0/1"))
		cmd, err := NewPasteTreeData(view, domain.NewTreeDataFromText("<c/>"), PositionChild, nil)
		require.NoError(t, err)
		require.NoError(t, cmd.Do())
		assert.Equal(t, `<r><a /><b><c /></b></r>`, view.Document().String())
	})

	t.Run("first top-level node", func(t *testing.T) {
		view := newView(t, `<r />`)
		cmd, err := NewPasteTreeData(view, domain.NewTreeDataFromText("<c/>"), PositionChild, nil)
		require.NoError(t, err)
		require.NoError(t, cmd.Do())
		assert.Equal(t, `<r><c /></r>`, view.Document().String())
	})

	t.Run("empty document", func(t *testing.T) {
		view := newView(t, "")
		cmd, err := NewPasteTreeData(view, domain.NewTreeDataFromText("<root><c/></root>"), PositionChild, nil)
		require.NoError(t, err)
		require.NoError(t, cmd.Do())
		assert.Equal(t, `<root><c /></root>`, view.Document().String())
		requireInSync(t, view)
	})
}

func TestPasteCommand_Refused(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		data   *domain.TreeData
		pos    Position
		target string
		want   error
	}{
		{"attribute name taken", `<r><a k="1" /></r>`, domain.NewTreeDataFromText(`k="2"`), PositionChild, "/0/0", application.ErrDuplicateAttribute},
		{"second document element", `<r />`, domain.NewTreeDataFromText(`<s/>`), PositionAfter, "/0", application.ErrRootLevelElements},
		{"text at the root", `<!--c--><r />`, domain.NewTreeDataFromText(`hello`), PositionAfter, "/0", application.ErrRootLevelText},
		{"malformed typed markup", `<r />`, domain.NewTypedTreeData(domain.NodeElement, domain.ImageElement, "<oops"), PositionChild, "/0", application.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			before := snapshot(view)
			_, err := NewPasteTreeData(view, tt.data, tt.pos, at(t, view, tt.target))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, snapshot(view))
		})
	}
}

func TestPasteCommand_Clipboard(t *testing.T) {
	view := newView(t, `<r><a /></r>`)
	clip := &memClipboard{}

	_, err := NewPasteCommand(view, clip, PositionChild, at(t, view, "/0"))
	assert.ErrorIs(t, err, application.ErrEmptyClipboard)

	_, err = NewPasteCommand(view, failingClipboard{}, PositionChild, at(t, view, "/0"))
	assert.Error(t, err)

	_, err = Copy(clip, at(t, view, "/0/0"))
	require.NoError(t, err)
	cmd, err := NewPasteCommand(view, clip, PositionAfter, at(t, view, "/0/0"))
	require.NoError(t, err)
	require.NoError(t, cmd.Do())
	assert.Equal(t, `<r><a /><a /></r>`, view.Document().String())
}

// Cutting and pasting elsewhere behaves like a move
func TestCutThenPaste(t *testing.T) {
	view := newView(t, `<r><a k="v">t</a><b /></r>`)
	clip := &memClipboard{}

	cut, err := NewCutCommand(view, clip, at(t, view, "/0/0"))
	require.NoError(t, err)
	require.NoError(t, cut.Do())

	paste, err := NewPasteCommand(view, clip, PositionChild, at(t, view, "/0/0"))
	require.NoError(t, err)
	require.NoError(t, paste.Do())
	assert.Equal(t, `<r><b><a k="v">t</a></b></r>`, view.Document().String())
	requireInSync(t, view)

	require.NoError(t, paste.Undo())
	require.NoError(t, cut.Undo())
	assert.Equal(t, `<r><a k="v">t</a><b /></r>`, view.Document().String())
	requireInSync(t, view)
}
