package session

import (
	"fmt"
	"io"
	"strings"

	"xmlpad/internal/domain"
)

// OutlineLine is one node of the document as hosts list it
type OutlineLine struct {
	Path  string
	Depth int
	Kind  domain.NodeType
	Text  string
	Node  *domain.ViewNode
}

// Outline lists the nodes of the view in document order. With all unset, children of
// collapsed nodes are left out.
func (s *Session) Outline(all bool) []OutlineLine {
	nodes := s.view.Flatten(all)
	lines := make([]OutlineLine, 0, len(nodes))
	for _, v := range nodes {
		lines = append(lines, OutlineLine{
			Path:  s.view.PathOf(v).String(),
			Depth: v.Depth(),
			Kind:  v.Kind(),
			Text:  v.Text(),
			Node:  v,
		})
	}
	return lines
}

// WriteOutline prints every node as "path  text", indented by depth
func (s *Session) WriteOutline(w io.Writer) error {
	for _, line := range s.Outline(true) {
		if _, err := fmt.Fprintf(w, "%-12s %s%s\n", line.Path, strings.Repeat("  ", line.Depth), line.Text); err != nil {
			return err
		}
	}
	return nil
}
