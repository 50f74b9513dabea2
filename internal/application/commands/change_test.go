package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

func TestEscapeComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"<!-- x -->", "/* x */"},
		{"/*", `\/*`},
		{"*/", `\*/`},
		{"a/b*c", "a/b*c"},
		{`\x`, `\x`},
		{`\<!--`, `\\/*`},
		{"/<!--", "//*"},
		{"/-->", `\/*/`},
		{"<!---->", "/**/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeComment(tt.in))
		})
	}
}

func TestEscapeSequence_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"no delimiters at all",
		"<!-- a -->",
		"<!--<!--nested-->-->",
		"x<!--y<!--z-->w-->v",
		"/* looks escaped */",
		`\/* backslash before a stand-in *\/`,
		`\\\`,
		`trailing \`,
		"-->--><!--",
		"<!--->",
		"/",
		"*",
		`\`,
		`/\*\/`,
		"<![CDATA[ data ]]>",
		"<![CDATA[<![CDATA[]]>]]>",
		"/[ ]/ ]]] [[[",
		"ünïcödé <!-- ✓ -->",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			comment := EscapeComment(in)
			assert.Equal(t, in, UnescapeComment(comment))
			assert.NotContains(t, comment, "<!--")
			assert.NotContains(t, comment, "-->")

			cdata := EscapeCData(in)
			assert.Equal(t, in, UnescapeCData(cdata))
			assert.NotContains(t, cdata, "<![CDATA[")
			assert.NotContains(t, cdata, "]]>")
		})
	}
}

// Escaping is applied once per level, so content wrapped several times unwraps cleanly
func TestEscapeSequence_Repeated(t *testing.T) {
	in := `<!-- one --> /* two */ \ three`
	out := in
	for i := 0; i < 4; i++ {
		out = EscapeComment("<!--" + out + "-->")
	}
	for i := 0; i < 4; i++ {
		out = UnescapeComment(out)
		require.True(t, strings.HasPrefix(out, "<!--") && strings.HasSuffix(out, "-->"), out)
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<!--"), "-->")
	}
	assert.Equal(t, in, out)
}

func TestChangeNode_AttributeToComment(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		path   string
		want   string
	}{
		{"only attribute", `<a b="1" />`, "/0/0", `<a><!--1--></a>`},
		{"between attributes and before children", `<a x="0" b="1" c="2"><d /></a>`, "/0/1", `<a x="0" c="2"><!--1--><d /></a>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			before := snapshot(view)

			cmd, err := NewChangeNode(view, at(t, view, tt.path), domain.NodeComment)
			require.NoError(t, err)
			require.NoError(t, cmd.Do())
			assert.Equal(t, tt.want, view.Document().String())
			assert.Same(t, cmd.NewNode(), view.FindNode(cmd.NewNode().Node()))
			requireInSync(t, view)
			after := snapshot(view)

			require.NoError(t, cmd.Undo())
			assert.Equal(t, before, snapshot(view))
			assert.Equal(t, tt.markup, view.Document().String())
			requireInSync(t, view)

			require.NoError(t, cmd.Redo())
			assert.Equal(t, after, snapshot(view))
		})
	}
}

func TestChangeNode_SameKindIsNoop(t *testing.T) {
	view := newView(t, `<r><!--c--></r>`)
	cmd, err := NewChangeNode(view, at(t, view, "/0/0"), domain.NodeComment)
	require.NoError(t, err)
	assert.True(t, cmd.IsNoop())
	assert.Nil(t, cmd.NewNode())
	require.NoError(t, cmd.Do())
	assert.Equal(t, `<r><!--c--></r>`, view.Document().String())
}

func TestChangeNode_CommentCDataRoundTrip(t *testing.T) {
	view := newView(t, `<r><!--x--></r>`)
	at(t, view, "/0/0").Node().SetValue("a--b")

	toCData, err := NewChangeNode(view, at(t, view, "/0/0"), domain.NodeCDATA)
	require.NoError(t, err)
	require.NoError(t, toCData.Do())
	assert.Equal(t, `<r><![CDATA[a--b]]></r>`, view.Document().String())

	toComment, err := NewChangeNode(view, at(t, view, "/0/0"), domain.NodeComment)
	require.NoError(t, err)
	require.NoError(t, toComment.Do())
	assert.Equal(t, "a--b", toComment.NewNode().Node().Value())
	requireInSync(t, view)
}

func TestChangeNode_DelimitersSurviveConversions(t *testing.T) {
	view := newView(t, `<r><![CDATA[x]]></r>`)
	content := `keep <!-- this --> and ]]> that`
	at(t, view, "/0/0").Node().SetValue(EscapeCData(content))

	cmd, err := NewChangeNode(view, at(t, view, "/0/0"), domain.NodeComment)
	require.NoError(t, err)
	require.NoError(t, cmd.Do())
	comment := cmd.NewNode().Node()
	assert.NotContains(t, comment.Value(), "-->")
	assert.Equal(t, content, UnescapeComment(comment.Value()))

	back, err := NewChangeNode(view, cmd.NewNode(), domain.NodeText)
	require.NoError(t, err)
	require.NoError(t, back.Do())
	assert.Equal(t, content, back.NewNode().Node().Value())
}

func TestChangeNode_ToElement(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		path    string
		comment string
		want    string
	}{
		{"comment holding markup is parsed", `<r><!--x--></r>`, "/0/0", "<foo k=\"v\">x</foo>", `<r><foo k="v">x</foo></r>`},
		{"plain comment gets a placeholder name", `<r><!--x--></r>`, "/0/0", "hello", `<r><element>hello</element></r>`},
		{"text becomes the content", `<r>t</r>`, "/0/0", "", `<r><element>t</element></r>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			if tt.comment != "" {
				at(t, view, tt.path).Node().SetValue(tt.comment)
			}
			cmd, err := NewChangeNode(view, at(t, view, tt.path), domain.NodeElement)
			require.NoError(t, err)
			require.NoError(t, cmd.Do())
			assert.Equal(t, tt.want, view.Document().String())
			requireInSync(t, view)

			require.NoError(t, cmd.Undo())
			requireInSync(t, view)
		})
	}
}

func TestChangeNode_ElementToLeaf(t *testing.T) {
	tests := []struct {
		kind domain.NodeType
		want string
	}{
		{domain.NodeComment, `<r><!--<a k="v">t</a>--></r>`},
		{domain.NodeCDATA, `<r><![CDATA[<a k="v">t</a>]]></r>`},
		{domain.NodeText, `<r>&lt;a k="v"&gt;t&lt;/a&gt;</r>`},
		{domain.NodeProcessingInstruction, `<r><?a t?></r>`},
		{domain.NodeAttribute, `<r a="t" />`},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			view := newView(t, `<r><a k="v">t</a></r>`)
			cmd, err := NewChangeNode(view, at(t, view, "/0/0"), tt.kind)
			require.NoError(t, err)
			require.NoError(t, cmd.Do())
			assert.Equal(t, tt.want, view.Document().String())
			requireInSync(t, view)

			require.NoError(t, cmd.Undo())
			assert.Equal(t, `<r><a k="v">t</a></r>`, view.Document().String())
			requireInSync(t, view)
		})
	}
}

func TestChangeNode_AttributeNameCollision(t *testing.T) {
	view := newView(t, `<r a="1"><a>t</a></r>`)
	cmd, err := NewChangeNode(view, at(t, view, "/0/1"), domain.NodeAttribute)
	require.NoError(t, err)
	require.NoError(t, cmd.Do())
	assert.Equal(t, `<r a="1" b="t" />`, view.Document().String())
}

func TestChangeNode_Refused(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		path   string
		kind   domain.NodeType
		want   error
	}{
		{"root comment to text", `<!--c--><r />`, "/0", domain.NodeText, application.ErrRootLevelText},
		{"root comment to attribute", `<!--c--><r />`, "/0", domain.NodeAttribute, application.ErrRootLevelAttributes},
		{"root comment to second element", `<!--c--><r />`, "/0", domain.NodeElement, application.ErrRootLevelElements},
		{"kind that cannot be created", `<r><!--c--></r>`, "/0/0", domain.NodeEntity, application.ErrUnexpectedNodeType},
		{"pi content that would close it", `<r>a?&gt;b</r>`, "/0/0", domain.NodeProcessingInstruction, application.ErrValueNotEditable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := newView(t, tt.markup)
			_, err := NewChangeNode(view, at(t, view, tt.path), tt.kind)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestChangeNode_RootElementToComment(t *testing.T) {
	view := newView(t, `<r><a /></r>`)
	cmd, err := NewChangeNode(view, at(t, view, "/0"), domain.NodeComment)
	require.NoError(t, err)
	require.NoError(t, cmd.Do())
	assert.Equal(t, `<!--<r><a /></r>-->`, view.Document().String())

	back, err := NewChangeNode(view, at(t, view, "/0"), domain.NodeElement)
	require.NoError(t, err)
	require.NoError(t, back.Do())
	assert.Equal(t, `<r><a /></r>`, view.Document().String())
	requireInSync(t, view)
}
