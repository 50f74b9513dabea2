package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/application"
	"xmlpad/internal/domain"
)

func openHistory(t *testing.T) *History {
	t.Helper()
	h := NewHistory()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	require.NoError(t, h.Open(filepath.Join(t.TempDir(), "data", "history.db")))
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHistory_RecordAndList(t *testing.T) {
	h := openHistory(t)

	first, err := h.Record(domain.NewTypedTreeData(domain.NodeElement, domain.ImageLeafElement, `<a />`))
	require.NoError(t, err)
	second, err := h.Record(domain.NewTreeDataFromText(`k="v"`))
	require.NoError(t, err)
	assert.Len(t, first.ID, 36)
	assert.NotEqual(t, first.ID, second.ID)

	entries, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest first")
	assert.Equal(t, domain.NodeAttribute, entries[0].NodeType)
	assert.Equal(t, domain.ImageAttribute, entries[0].Image)
	assert.Equal(t, `<a />`, entries[1].XML)
	assert.Equal(t, domain.ImageLeafElement, entries[1].Image)
	assert.True(t, entries[1].CreatedAt.Equal(first.CreatedAt))

	limited, err := h.List(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.ID, limited[0].ID)

	data := entries[1].TreeData()
	assert.True(t, data.Typed())
	assert.Equal(t, domain.NodeElement, data.NodeType)
}

func TestHistory_Get(t *testing.T) {
	h := openHistory(t)
	entry, err := h.Record(domain.NewTreeDataFromText(`<!--c-->`))
	require.NoError(t, err)

	got, err := h.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.XML, got.XML)

	got, err = h.Get(entry.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)

	var valErr *application.ValidationError
	_, err = h.Get(entry.ID[:3])
	assert.ErrorAs(t, err, &valErr)

	_, err = h.Get("ffffffff-0000")
	assert.ErrorIs(t, err, application.ErrEntryNotFound)
	_, err = h.Get("%%%%%")
	assert.ErrorIs(t, err, application.ErrEntryNotFound, "wildcards are not patterns")
}

func TestHistory_GetAmbiguousPrefix(t *testing.T) {
	h := openHistory(t)
	for _, id := range []string{"abcd1111", "abcd2222"} {
		_, err := h.db.Exec(`INSERT INTO clipboard (id, node_type, image, xml, created_at) VALUES (?, 'text', 3, 'x', 0)`, id)
		require.NoError(t, err)
	}

	_, err := h.Get("abcd")
	assert.ErrorIs(t, err, application.ErrAmbiguousEntry)
	got, err := h.Get("ABCD1")
	require.NoError(t, err)
	assert.Equal(t, "abcd1111", got.ID)
}

func TestHistory_Prune(t *testing.T) {
	h := openHistory(t)
	for _, s := range []string{"a", "b", "c", "d"} {
		_, err := h.Record(domain.NewTreeDataFromText(s))
		require.NoError(t, err)
	}

	removed, err := h.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "d", entries[0].XML)
	assert.Equal(t, "c", entries[1].XML)

	removed, err = h.Prune(-1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}

func TestHistory_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	h := NewHistory()
	require.NoError(t, h.Open(path))
	_, err := h.Record(domain.NewTreeDataFromText("<a/>"))
	require.NoError(t, err)
	require.NoError(t, h.Close())

	reopened := NewHistory()
	require.NoError(t, reopened.Open(path))
	defer reopened.Close()
	entries, err := reopened.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistory_InMemory(t *testing.T) {
	h := NewHistory()
	require.NoError(t, h.Open(":memory:"))
	defer h.Close()

	_, err := h.Record(domain.NewTreeDataFromText("x"))
	require.NoError(t, err)
	entries, err := h.List(0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
