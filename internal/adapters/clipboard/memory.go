package clipboard

import (
	"sync"

	"xmlpad/internal/domain"
)

// Memory is an in-process clipboard
type Memory struct {
	mu   sync.Mutex
	data *domain.TreeData
}

// NewMemory creates an empty in-process clipboard
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SetTreeData(data *domain.TreeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

func (m *Memory) TreeData() (*domain.TreeData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}
