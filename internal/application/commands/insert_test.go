package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

func TestInsertNode_EmptyDocument(t *testing.T) {
	view := newView(t, "")
	cmd := NewInsertNode(view, PositionChild, domain.NodeElement, nil)

	require.NoError(t, cmd.Do())
	require.Equal(t, 1, view.Count())
	assert.Nil(t, cmd.NewNode().Node(), "element waits for its name")
	assert.Same(t, cmd.NewNode(), view.SelectedNode())

	require.NoError(t, cmd.Commit("root"))
	root := view.Document().DocumentElement()
	require.NotNil(t, root)
	assert.Equal(t, "root", root.Name())
	assert.Equal(t, "<root />", view.Document().String())
	requireInSync(t, view)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, 0, view.Count())
	assert.Nil(t, view.Document().DocumentElement())

	require.NoError(t, cmd.Redo())
	assert.Equal(t, "<root />", view.Document().String())
	requireInSync(t, view)
}

func TestInsertNode_UnnamedKindsAreCreatedAtOnce(t *testing.T) {
	tests := []struct {
		name string
		kind domain.NodeType
		pos  Position
		path string
		want string
	}{
		{"comment child", domain.NodeComment, PositionChild, "/0", `<a x="1"><b /><!----></a>`},
		{"text before b", domain.NodeText, PositionBefore, "/0/1", `<a x="1"><b /></a>`},
		{"cdata after b", domain.NodeCDATA, PositionAfter, "/0/1", `<a x="1"><b /><![CDATA[]]></a>`},
		{"comment next to attribute goes before children", domain.NodeComment, PositionAfter, "/0/0", `<a x="1"><!----><b /></a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, `<a x="1"><b /></a>`)
			cmd := NewInsertNode(view, tt.pos, tt.kind, at(t, view, tt.path))
			require.NoError(t, cmd.Do())
			require.NotNil(t, cmd.NewNode().Node())
			assert.Equal(t, tt.want, view.Document().String())
			requireInSync(t, view)
		})
	}
}

func TestInsertNode_CommitAttribute(t *testing.T) {
	view := newView(t, `<a x="1"><b /></a>`)
	a := at(t, view, "/0")

	cmd := NewInsertNode(view, PositionChild, domain.NodeAttribute, a)
	require.NoError(t, cmd.Do())
	assert.Equal(t, 1, cmd.NewNode().Index(), "attributes go after the last attribute")

	require.NoError(t, cmd.Commit("y"))
	assert.Equal(t, `<a x="1" y=""><b /></a>`, view.Document().String())
	requireInSync(t, view)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, `<a x="1"><b /></a>`, view.Document().String())
	requireInSync(t, view)
}

func TestInsertNode_CommitDuplicateAttribute(t *testing.T) {
	view := newView(t, `<a x="1" />`)
	cmd := NewInsertNode(view, PositionChild, domain.NodeAttribute, at(t, view, "/0"))
	require.NoError(t, cmd.Do())

	err := cmd.Commit("x")
	require.ErrorIs(t, err, application.ErrDuplicateAttribute)
	assert.Nil(t, cmd.NewNode().Node())
	assert.Equal(t, `<a x="1" />`, view.Document().String())

	require.NoError(t, cmd.Commit("z"))
	assert.Equal(t, `<a x="1" z="" />`, view.Document().String())
}

func TestInsertNode_CommitUnboundPrefix(t *testing.T) {
	t.Run("element declares its own prefix", func(t *testing.T) {
		view := newView(t, `<a />`)
		cmd := NewInsertNode(view, PositionChild, domain.NodeElement, at(t, view, "/0"))
		require.NoError(t, cmd.Do())
		require.NoError(t, cmd.Commit("q:b"))

		assert.Equal(t, `<a><q:b xmlns:q="urn:q" /></a>`, view.Document().String())
		assert.Equal(t, domain.GeneratedNamespace("q"), cmd.NewNode().Node().NamespaceURI())
		requireInSync(t, view)
	})

	t.Run("attribute declaration goes on the owner", func(t *testing.T) {
		view := newView(t, `<a />`)
		cmd := NewInsertNode(view, PositionChild, domain.NodeAttribute, at(t, view, "/0"))
		require.NoError(t, cmd.Do())
		require.NoError(t, cmd.Commit("q:b"))

		assert.Equal(t, `<a q:b="" xmlns:q="urn:q" />`, view.Document().String())
		requireInSync(t, view)

		require.NoError(t, cmd.Undo())
		assert.Equal(t, `<a />`, view.Document().String())
		requireInSync(t, view)

		require.NoError(t, cmd.Redo())
		assert.Equal(t, `<a q:b="" xmlns:q="urn:q" />`, view.Document().String())
		requireInSync(t, view)
	})

	t.Run("bound prefix adds nothing", func(t *testing.T) {
		view := newView(t, `<a xmlns:p="urn:other" />`)
		cmd := NewInsertNode(view, PositionChild, domain.NodeElement, at(t, view, "/0"))
		require.NoError(t, cmd.Do())
		require.NoError(t, cmd.Commit("p:b"))
		assert.Equal(t, `<a xmlns:p="urn:other"><p:b /></a>`, view.Document().String())
		assert.Equal(t, "urn:other", cmd.NewNode().Node().NamespaceURI())
	})
}

func TestInsertNode_CommitErrors(t *testing.T) {
	view := newView(t, `<a />`)
	cmd := NewInsertNode(view, PositionChild, domain.NodeElement, at(t, view, "/0"))
	assert.ErrorIs(t, cmd.Commit("b"), application.ErrNodeNotCreated, "commit before Do")

	require.NoError(t, cmd.Do())
	assert.ErrorIs(t, cmd.Commit("1b"), application.ErrInvalidName)
	require.NoError(t, cmd.Commit("b"))
	assert.ErrorIs(t, cmd.Commit("c"), application.ErrNodeNameNotEditable)
}

func TestInsertNode_PendingRootElementClashes(t *testing.T) {
	view := newView(t, "")
	first := NewInsertNode(view, PositionChild, domain.NodeElement, nil)
	second := NewInsertNode(view, PositionChild, domain.NodeElement, nil)
	require.NoError(t, first.Do())
	require.NoError(t, second.Do(), "neither element exists yet")

	require.NoError(t, first.Commit("a"))
	assert.ErrorIs(t, second.Commit("b"), application.ErrRootLevelElements)
}

func TestInsertNodeFor_ExistingNode(t *testing.T) {
	view := newView(t, `<a><b /></a>`)
	doc := view.Document()
	el := doc.CreateElement("", "c", "")
	el.SetAttribute("k", "v")
	node := domain.NewViewNodeFor(el)

	cmd := NewInsertNodeFor(view, PositionBefore, at(t, view, "/0/0"), node)
	require.NoError(t, cmd.Do())
	assert.Equal(t, `<a><c k="v" /><b /></a>`, doc.String())
	assert.Same(t, node, view.SelectedNode())
	requireInSync(t, view)

	require.NoError(t, cmd.Undo())
	assert.Equal(t, `<a><b /></a>`, doc.String())
	requireInSync(t, view)
}

func TestInsertNode_BatchesNotifications(t *testing.T) {
	view := newView(t, `<a />`)
	var events []domain.ViewEventKind
	view.Subscribe(func(ev domain.ViewEvent) { events = append(events, ev.Kind) })

	view.BeginUpdate()
	require.NoError(t, NewInsertNode(view, PositionChild, domain.NodeComment, at(t, view, "/0")).Do())
	assert.Empty(t, events, "held back while updating")
	view.EndUpdate()

	assert.Contains(t, events, domain.EventInserted)
	assert.Contains(t, events, domain.EventSelected)
}
