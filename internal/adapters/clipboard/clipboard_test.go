package clipboard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlpad/internal/domain"
)

func fakeSystem() (*System, *string) {
	text := new(string)
	return &System{
		read:  func() (string, error) { return *text, nil },
		write: func(s string) error { *text = s; return nil },
	}, text
}

func TestSystem_KeepsTypeOfOwnPayload(t *testing.T) {
	s, text := fakeSystem()
	data := domain.NewTypedTreeData(domain.NodeText, domain.ImageText, `k="v"`)
	require.NoError(t, s.SetTreeData(data))
	assert.Equal(t, `k="v"`, *text)

	got, err := s.TreeData()
	require.NoError(t, err)
	assert.Same(t, data, got)
	assert.Equal(t, domain.NodeText, got.NodeType, "typed text is not re-sniffed")
}

func TestSystem_SniffsForeignText(t *testing.T) {
	s, text := fakeSystem()
	require.NoError(t, s.SetTreeData(domain.NewTypedTreeData(domain.NodeElement, domain.ImageElement, `<a />`)))
	*text = `<!--from elsewhere-->`

	got, err := s.TreeData()
	require.NoError(t, err)
	assert.False(t, got.Typed())
	assert.Equal(t, domain.NodeComment, got.NodeType)

	*text = ""
	got, err = s.TreeData()
	require.NoError(t, err)
	assert.Nil(t, got, "empty clipboard")
}

func TestSystem_Errors(t *testing.T) {
	s := &System{
		read:  func() (string, error) { return "", errors.New("no xclip") },
		write: func(string) error { return errors.New("no xclip") },
	}
	assert.Error(t, s.SetTreeData(domain.NewTreeDataFromText("x")))
	_, err := s.TreeData()
	assert.ErrorContains(t, err, "no xclip")
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	got, err := m.TreeData()
	require.NoError(t, err)
	assert.Nil(t, got)

	data := domain.NewTreeDataFromText("<a/>")
	require.NoError(t, m.SetTreeData(data))
	got, err = m.TreeData()
	require.NoError(t, err)
	assert.Same(t, data, got)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "clipboard.json")
	f := NewFile(path)

	got, err := f.TreeData()
	require.NoError(t, err)
	assert.Nil(t, got, "missing file is an empty clipboard")

	data := domain.NewTypedTreeData(domain.NodeAttribute, domain.ImageAttribute, `k="v"`)
	require.NoError(t, f.SetTreeData(data))

	got, err = NewFile(path).TreeData()
	require.NoError(t, err)
	assert.True(t, got.Typed())
	assert.Equal(t, data.NodeType, got.NodeType)
	assert.Equal(t, data.XML, got.XML)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	_, err = f.TreeData()
	assert.Error(t, err)
}
