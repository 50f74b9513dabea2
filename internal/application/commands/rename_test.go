package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

func TestEditNodeName(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		path   string
		qname  string
		want   string
	}{
		{"element keeps attributes and children", `<r><a k="v">t<b /></a></r>`, "/0/0", "c", `<r><c k="v">t<b /></c></r>`},
		{"document element", `<!--x--><r a="1" />`, "/1", "root", `<!--x--><root a="1" />`},
		{"element with bound prefix", `<r xmlns:p="urn:p"><a /></r>`, "/0/1", "p:a", `<r xmlns:p="urn:p"><p:a /></r>`},
		{"element with unbound prefix declares it", `<r><a /></r>`, "/0/0", "q:b", `<r><q:b xmlns:q="urn:q" /></r>`},
		{"attribute stays in place", `<a x="1" y="2" z="3" />`, "/0/1", "w", `<a x="1" w="2" z="3" />`},
		{"attribute with unbound prefix declares it on the owner", `<a x="1" y="2" z="3" />`, "/0/1", "q:w", `<a x="1" q:w="2" z="3" xmlns:q="urn:q" />`},
		{"processing instruction", `<r><?pi data?></r>`, "/0/0", "go", `<r><?go data?></r>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			before := snapshot(view)
			node := at(t, view, tt.path)

			cmd, err := NewEditNodeName(view, node, tt.qname)
			require.NoError(t, err)
			require.False(t, cmd.IsNoop())
			require.NoError(t, cmd.Do())

			assert.Equal(t, tt.want, view.Document().String())
			assert.Equal(t, tt.qname, node.Node().Name(), "view node follows the new document node")
			requireInSync(t, view)
			after := snapshot(view)

			require.NoError(t, cmd.Undo())
			assert.Equal(t, before, snapshot(view))
			requireInSync(t, view)

			require.NoError(t, cmd.Redo())
			assert.Equal(t, after, snapshot(view))
			requireInSync(t, view)
		})
	}
}

func TestEditNodeName_SameNameIsNoop(t *testing.T) {
	view := newView(t, `<r k="v"><?pi x?></r>`)
	for _, tc := range []struct{ path, qname string }{{"/0", "r"}, {"/0/0", "k"}, {"/0/1", "pi"}} {
		cmd, err := NewEditNodeName(view, at(t, view, tc.path), tc.qname)
		require.NoError(t, err)
		assert.True(t, cmd.IsNoop(), tc.path)
	}
}

func TestEditNodeName_Refused(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		path   string
		qname  string
		want   error
	}{
		{"invalid element name", `<r />`, "/0", "1r", application.ErrInvalidName},
		{"invalid attribute name", `<r a="1" />`, "/0/0", "a b", application.ErrInvalidName},
		{"invalid target", `<r><?pi x?></r>`, "/0/0", "", application.ErrInvalidName},
		{"attribute name taken", `<r a="1" b="2" />`, "/0/0", "b", application.ErrDuplicateAttribute},
		{"comment has no name", `<r><!--c--></r>`, "/0/0", "x", application.ErrNodeNameNotEditable},
		{"text has no name", `<r>t</r>`, "/0/0", "x", application.ErrNodeNameNotEditable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			_, err := NewEditNodeName(view, at(t, view, tt.path), tt.qname)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEditNodeName_PendingNode(t *testing.T) {
	view := newView(t, `<r />`)
	insert := NewInsertNode(view, PositionChild, domain.NodeElement, at(t, view, "/0"))
	require.NoError(t, insert.Do())

	_, err := NewEditNodeName(view, insert.NewNode(), "x")
	assert.ErrorIs(t, err, application.ErrNodeNotCreated)
}

func TestEditAttributeName_CopiesOnlyTheValue(t *testing.T) {
	view := newView(t, `<r xmlns:p="urn:p" p:a="1" />`)
	cmd, err := NewEditAttributeName(view, at(t, view, "/0/1"), "b")
	require.NoError(t, err)
	require.NoError(t, cmd.Do())

	renamed := cmd.NewNode()
	assert.Equal(t, "b", renamed.Name())
	assert.Empty(t, renamed.NamespaceURI())
	assert.Equal(t, "1", renamed.Value())
}
