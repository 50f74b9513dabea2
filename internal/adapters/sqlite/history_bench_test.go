package sqlite

import (
	"path/filepath"
	"testing"

	"xmlpad/internal/domain"
)

// BenchmarkRecord benchmarks recording a clipboard entry (DB already open)
func BenchmarkRecord(b *testing.B) {
	h := NewHistory()
	if err := h.Open(filepath.Join(b.TempDir(), "history.db")); err != nil {
		b.Fatalf("failed to open history: %v", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			b.Fatalf("failed to close history: %v", err)
		}
	}()

	data := domain.NewTypedTreeData(domain.NodeElement, domain.ImageElement, `<item id="1"><name>x</name></item>`)
	for b.Loop() {
		if _, err := h.Record(data); err != nil {
			b.Fatalf("record failed: %v", err)
		}
	}
}

// BenchmarkGetByPrefix benchmarks prefix lookup in a populated history
func BenchmarkGetByPrefix(b *testing.B) {
	h := NewHistory()
	if err := h.Open(filepath.Join(b.TempDir(), "history.db")); err != nil {
		b.Fatalf("failed to open history: %v", err)
	}
	defer h.Close()

	var last string
	for range 1000 {
		entry, err := h.Record(domain.NewTreeDataFromText("text"))
		if err != nil {
			b.Fatalf("record failed: %v", err)
		}
		last = entry.ID
	}

	for b.Loop() {
		if _, err := h.Get(last[:8]); err != nil {
			b.Fatalf("get failed: %v", err)
		}
	}
}
