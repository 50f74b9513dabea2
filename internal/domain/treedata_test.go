package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffNodeType(t *testing.T) {
	tests := []struct {
		in   string
		want NodeType
	}{
		{`a="1"`, NodeAttribute},
		{` p:a = 'x y' `, NodeAttribute},
		{`a="1" b="2"`, NodeText},
		{`p:a="1" xmlns:p="urn:p"`, NodeAttribute},
		{`<?pi x?>`, NodeProcessingInstruction},
		{"\n  <!-- c -->", NodeComment},
		{`<![CDATA[x]]>`, NodeCDATA},
		{`<a/>`, NodeElement},
		{`<oops`, NodeElement},
		{`plain words`, NodeText},
		{``, NodeText},
		{strings.Repeat("n", 300) + `="1"`, NodeText},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SniffNodeType(tt.in))
		})
	}
}

func TestTreeData_CreateNode(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.LoadString(`<r xmlns:p="urn:p"><host /></r>`))
	host := doc.DocumentElement().FirstChild()

	tests := []struct {
		name  string
		data  *TreeData
		kind  NodeType
		outer string
	}{
		{"element", NewTreeDataFromText(`<a k="v"><b/></a>`), NodeElement, `<a k="v"><b /></a>`},
		{"element after leading text", NewTreeDataFromText(`junk <a/>`), NodeElement, `<a />`},
		{"attribute with entity", NewTreeDataFromText(`k="a &lt; b"`), NodeAttribute, `k="a &lt; b"`},
		{"prefixed attribute", NewTreeDataFromText(`p:k="v"`), NodeAttribute, `p:k="v"`},
		{"comment", NewTreeDataFromText(`<!--c-->`), NodeComment, `<!--c-->`},
		{"pi", NewTreeDataFromText(`<?go now?>`), NodeProcessingInstruction, `<?go now?>`},
		{"cdata", NewTreeDataFromText(`<![CDATA[<x>]]>`), NodeCDATA, `<![CDATA[<x>]]>`},
		{"plain text keeps markup characters", NewTreeDataFromText(`a < b`), NodeText, `a &lt; b`},
		{"malformed untyped becomes text", NewTreeDataFromText(`<a>`), NodeText, `&lt;a&gt;`},
		{"redundant declaration dropped", NewTypedTreeData(NodeElement, ImageElement, `<p:a xmlns:p="urn:p" />`), NodeElement, `<p:a />`},
		{"typed text is parsed", NewTypedTreeData(NodeText, ImageText, `a &amp; b`), NodeText, `a &amp; b`},
		{"unbound element prefix gets a declaration", NewTreeDataFromText(`<x:y a="1"><x:z /></x:y>`), NodeElement, `<x:y a="1" xmlns:x="urn:x"><x:z /></x:y>`},
		{"nested declaration left alone", NewTreeDataFromText(`<a><x:b xmlns:x="urn:in" /></a>`), NodeElement, `<a><x:b xmlns:x="urn:in" /></a>`},
		{"bound prefix needs nothing", NewTreeDataFromText(`<p:b />`), NodeElement, `<p:b />`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.data.CreateNode(doc, host)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, n.Type())
			assert.Equal(t, tt.outer, n.OuterXML())
			assert.Nil(t, n.Parent())
		})
	}

	n, err := NewTreeDataFromText(`p:k="v"`).CreateNode(doc, host)
	require.NoError(t, err)
	assert.Equal(t, "urn:p", n.NamespaceURI())
	assert.False(t, NeedsDeclaration(n, host))

	carried, err := NewTypedTreeData(NodeAttribute, ImageAttribute, `q:k="v" xmlns:q="urn:carried"`).CreateNode(doc, host)
	require.NoError(t, err)
	assert.Equal(t, "urn:carried", carried.NamespaceURI())
	assert.True(t, NeedsDeclaration(carried, host))

	rebound, err := NewTypedTreeData(NodeAttribute, ImageAttribute, `p:k="v" xmlns:p="urn:elsewhere"`).CreateNode(doc, host)
	require.NoError(t, err)
	assert.Equal(t, "urn:p", rebound.NamespaceURI(), "a binding at the target wins")

	generated, err := NewTreeDataFromText(`z:k="v"`).CreateNode(doc, host)
	require.NoError(t, err)
	assert.Equal(t, GeneratedNamespace("z"), generated.NamespaceURI())
	assert.True(t, NeedsDeclaration(generated, host))
}

func TestTreeData_CreateNodeErrors(t *testing.T) {
	doc := NewDocument()
	_, err := NewTypedTreeData(NodeElement, ImageElement, `<a>`).CreateNode(doc, nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = NewTypedTreeData(NodeAttribute, ImageAttribute, `no equals`).CreateNode(doc, nil)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = NewTypedTreeData(NodeAttribute, ImageAttribute, `1a="v"`).CreateNode(doc, nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestTreeData_FromViewNode(t *testing.T) {
	doc := NewDocument()
	require.NoError(t, doc.LoadString(`<r xmlns:p="urn:p"><p:a k="v" /></r>`))
	view := NewTreeView(doc)
	a := view.Nodes()[0].ChildAt(1)

	data, err := NewTreeData(a)
	require.NoError(t, err)
	assert.True(t, data.Typed())
	assert.Equal(t, NodeElement, data.NodeType)
	assert.Equal(t, a.ImageIndex(), data.ImageIndex)
	assert.Equal(t, `<p:a k="v" xmlns:p="urn:p" />`, data.Text())

	_, err = NewTreeData(NewViewNode(NodeElement))
	assert.ErrorIs(t, err, ErrUnexpectedNodeType, "pending nodes have nothing to copy")
}

func TestDecodeTreeData(t *testing.T) {
	original := NewTypedTreeData(NodeComment, ImageComment, "<!--c-->")
	payload, err := original.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"image":4,"type":"comment","xml":"<!--c-->"}`, string(payload))

	decoded, err := DecodeTreeData(FormatTreeData, payload)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	text, err := DecodeTreeData(FormatText, []byte(`k="v"`))
	require.NoError(t, err)
	assert.False(t, text.Typed())
	assert.Equal(t, NodeAttribute, text.NodeType)
	assert.Equal(t, ImageAttribute, text.ImageIndex)

	xmlFormat, err := DecodeTreeData("xml-fragment", []byte(`<a/>`))
	require.NoError(t, err)
	assert.Equal(t, NodeElement, xmlFormat.NodeType)

	_, err = DecodeTreeData(FormatTreeData, []byte(`{"type":"gibberish"}`))
	assert.ErrorIs(t, err, ErrUnexpectedNodeType)
	_, err = DecodeTreeData(FormatTreeData, []byte(`not json`))
	assert.Error(t, err)
	_, err = DecodeTreeData("image/png", nil)
	assert.Error(t, err)
}

func TestNewTreeDataFromReader(t *testing.T) {
	data, err := NewTreeDataFromReader(strings.NewReader("<!--from a stream-->"))
	require.NoError(t, err)
	assert.Equal(t, NodeComment, data.NodeType)
	assert.Equal(t, "<!--from a stream-->", data.XML)
}

func TestUnescapeEntities(t *testing.T) {
	assert.Equal(t, `<&>"'`, UnescapeEntities("&lt;&amp;&gt;&quot;&apos;"))
	assert.Equal(t, "AB", UnescapeEntities("&#65;&#x42;"))
	assert.Equal(t, "&unknown; &", UnescapeEntities("&unknown; &"))
}
