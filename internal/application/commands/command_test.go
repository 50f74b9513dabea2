package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/domain"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"", PositionChild, false},
		{"child", PositionChild, false},
		{" Before ", PositionBefore, false},
		{"AFTER", PositionAfter, false},
		{"inside", PositionChild, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Position {
	t.Helper()
	p, err := ParsePosition(s)
	require.NoError(t, err)
	return p
}

func TestCompoundCommand_Order(t *testing.T) {
	var log []string
	a := &fakeCommand{name: "a", log: &log}
	b := &fakeCommand{name: "b", log: &log}
	c := NewCompoundCommand("group", a)
	c.Add(b)

	assert.Equal(t, "group", c.Name())
	assert.Len(t, c.Commands(), 2)
	require.NoError(t, c.Do())
	require.NoError(t, c.Undo())
	require.NoError(t, c.Redo())
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a", "redo a", "redo b"}, log)
}

func TestCompoundCommand_RollsBackOnFailure(t *testing.T) {
	var log []string
	a := &fakeCommand{name: "a", log: &log}
	b := &fakeCommand{name: "b", log: &log}
	bad := &fakeCommand{name: "bad", failDo: true, log: &log}

	err := NewCompoundCommand("group", a, b, bad).Do()
	require.Error(t, err)
	assert.Equal(t, []string{"do a", "do b", "undo b", "undo a"}, log)
	assert.False(t, a.applied)
	assert.False(t, b.applied)
}

func TestCompoundCommand_FailedUndoReapplies(t *testing.T) {
	var log []string
	stuck := &fakeCommand{name: "stuck", failUn: true, log: &log}
	b := &fakeCommand{name: "b", log: &log}

	group := NewCompoundCommand("group", stuck, b)
	require.NoError(t, group.Do())
	require.Error(t, group.Undo())
	assert.Equal(t, []string{"do stuck", "do b", "undo b", "redo b"}, log)
	assert.True(t, b.applied)
}

func TestCompoundCommand_IsNoop(t *testing.T) {
	var log []string
	assert.True(t, NewCompoundCommand("empty").IsNoop())
	assert.True(t, NewCompoundCommand("noops", &fakeCommand{noop: true, log: &log}).IsNoop())
	assert.False(t, NewCompoundCommand("mixed", &fakeCommand{noop: true, log: &log}, &fakeCommand{log: &log}).IsNoop())
}

// A failing step inside a real document edit leaves the document as it was
func TestCompoundCommand_DocumentRollback(t *testing.T) {
	view := newView(t, `<r><a /><b /></r>`)
	before := snapshot(view)

	group := NewCompoundCommand("broken",
		NewInsertNode(view, PositionChild, domain.NodeComment, at(t, view, "/0/0")),
		NewDeleteNode(view, at(t, view, "/0/1")),
		NewInsertNode(view, PositionAfter, domain.NodeElement, at(t, view, "/0")),
	)
	require.Error(t, group.Do())
	assert.Equal(t, before, snapshot(view))
	requireInSync(t, view)
}
