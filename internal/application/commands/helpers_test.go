package commands

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"xmlpad/internal/domain"
)

// richDocument exercises every kind the view shows, at the root and below.
//
//	/0 xml declaration   /1 comment   /2 root
//	/2/0 xmlns:p  /2/1 id  /2/2 p:x  /2/3 a  /2/4 b  /2/5 comment  /2/6 pi  /2/7 c
//	/2/3/0 k  /2/3/1 text   /2/7/0 cdata
const richDocument = `<?xml version="1.0"?><!--top--><root xmlns:p="urn:p" id="1" p:x="2"><a k="v">text</a><b /><!--c--><?pi data?><c><![CDATA[raw]]></c></root>`

func newView(t *testing.T, markup string) *domain.TreeView {
	t.Helper()
	doc := domain.NewDocument()
	if markup != "" {
		require.NoError(t, doc.LoadString(markup))
	}
	return domain.NewTreeView(doc)
}

func at(t *testing.T, view *domain.TreeView, path string) *domain.ViewNode {
	t.Helper()
	p, err := domain.ParseNodePath(path)
	require.NoError(t, err)
	v, err := view.NodeAt(p)
	require.NoError(t, err)
	return v
}

// shape renders the view tree: kind and text of every node, nested
func shape(view *domain.TreeView) string {
	var b strings.Builder
	var rec func(list []*domain.ViewNode, depth int)
	rec = func(list []*domain.ViewNode, depth int) {
		for _, v := range list {
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", depth), v.Kind(), v.Text())
			rec(v.Children(), depth+1)
		}
	}
	rec(view.Nodes(), 0)
	return b.String()
}

func snapshot(view *domain.TreeView) string {
	return view.Document().String() + "\n" + shape(view)
}

// requireInSync checks the view is an exact projection of the document
func requireInSync(t *testing.T, view *domain.TreeView) {
	t.Helper()
	rebuilt := domain.NewTreeView(view.Document())
	require.Equal(t, shape(rebuilt), shape(view), "view does not mirror the document")
	for _, v := range view.Flatten(true) {
		require.NotNil(t, v.Node(), "view node %s has no document node", v.Text())
		require.Same(t, v, view.FindNode(v.Node()), "index out of date for %s", v.Text())
	}
}

type memClipboard struct {
	data *domain.TreeData
}

func (m *memClipboard) SetTreeData(data *domain.TreeData) error {
	m.data = data
	return nil
}

func (m *memClipboard) TreeData() (*domain.TreeData, error) { return m.data, nil }
