package bootstrap

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/adapters/clipboard"
	"xmlpad/internal/config"
	"xmlpad/internal/domain"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.NewDefaultConfig()
	cfg.Editor.Root = dir
	cfg.Clipboard.Mode = config.ClipboardFile
	cfg.Clipboard.File = filepath.Join(dir, "clip.json")
	cfg.History.Path = filepath.Join(dir, "data", "history.db")
	return cfg
}

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestNew_WiresSessions(t *testing.T) {
	cfg := testConfig(t)
	env, err := New(cfg, quiet)
	require.NoError(t, err)
	defer env.Close()

	assert.IsType(t, &clipboard.File{}, env.Clipboard)
	require.NotNil(t, env.History)
	assert.FileExists(t, cfg.History.Path)

	path := filepath.Join(cfg.Editor.Root, "doc.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<r><a /></r>`), 0644))

	s, err := env.OpenSession("doc.xml")
	require.NoError(t, err)
	_, err = s.Copy("/0/0")
	require.NoError(t, err)

	entries, err := s.ClipboardHistory(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.NodeElement, entries[0].NodeType)

	// a second process sees the same clipboard through the file
	other, err := New(cfg, quiet, WithoutHistory())
	require.NoError(t, err)
	data, err := other.Clipboard.TreeData()
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, `<a />`, data.XML)
}

func TestNew_ClipboardModes(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false

	cfg.Clipboard.Mode = config.ClipboardMemory
	env, err := New(cfg, quiet)
	require.NoError(t, err)
	assert.IsType(t, &clipboard.Memory{}, env.Clipboard)
	assert.Nil(t, env.History)
	assert.NoError(t, env.Close())

	cfg.Clipboard.Mode = config.ClipboardSystem
	env, err = New(cfg, quiet)
	require.NoError(t, err)
	assert.IsType(t, &clipboard.System{}, env.Clipboard)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestOpenSession_MissingFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Enabled = false
	env, err := New(cfg, quiet)
	require.NoError(t, err)

	_, err = env.OpenSession("missing.xml")
	assert.Error(t, err)
}
