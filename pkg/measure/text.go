// Package measure sizes text leaves for layout passes.
//
// A [Text] keeps the strings attached to nodes in its own table keyed by
// [layout.NodeID] and implements [layout.MeasureFunc] by word-wrapping them
// with a fixed bitmap font.
package measure

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// Text measures strings attached to node IDs. It is safe for concurrent use;
// the table has its own lock, so measuring never touches the tree.
type Text struct {
	face font.Face

	mu      sync.RWMutex
	content map[layout.NodeID]string
}

// NewText returns a measurer using face, or basicfont.Face7x13 when face is
// nil.
func NewText(face font.Face) *Text {
	if face == nil {
		face = basicfont.Face7x13
	}
	return &Text{face: face, content: make(map[layout.NodeID]string)}
}

// Set attaches s to node.
func (t *Text) Set(node layout.NodeID, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.content[node] = s
}

// Get returns the string attached to node.
func (t *Text) Get(node layout.NodeID) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.content[node]
	return s, ok
}

// Delete detaches node.
func (t *Text) Delete(node layout.NodeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.content, node)
}

// LineHeight is the height of one line of text.
func (t *Text) LineHeight() float32 {
	return float32(t.face.Metrics().Height.Ceil())
}

// Measure implements layout.MeasureFunc. Text wraps at spaces to the known
// width, else to definite available width. Under a min-content constraint
// every word gets its own line; under max-content the text stays on one line.
func (t *Text) Measure(known geom.Size[geom.Optional[float32]], available geom.Size[layout.AvailableSpace], node layout.NodeID) geom.Size[float32] {
	s, _ := t.Get(node)
	words := strings.Fields(s)

	limit := float32(math.Inf(1))
	switch {
	case known.Width.Valid:
		limit = known.Width.Value
	case available.Width.Kind == layout.SpaceDefinite:
		limit = available.Width.Value
	case available.Width.Kind == layout.SpaceMinContent:
		limit = 0
	}

	lines := t.Wrap(words, limit)
	var width float32
	for _, l := range lines {
		width = max(width, t.width(l))
	}
	size := geom.Size[float32]{Width: width, Height: float32(len(lines)) * t.LineHeight()}
	if known.Width.Valid {
		size.Width = known.Width.Value
	}
	if known.Height.Valid {
		size.Height = known.Height.Value
	}
	return size
}

// Wrap greedily breaks words into lines no wider than limit. A word wider
// than limit gets a line of its own.
func (t *Text) Wrap(words []string, limit float32) []string {
	var lines []string
	current := ""
	for _, w := range words {
		candidate := w
		if current != "" {
			candidate = current + " " + w
		}
		if current == "" || t.width(candidate) <= limit {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func (t *Text) width(s string) float32 {
	return float32(font.MeasureString(t.face, s).Ceil())
}

var _ layout.MeasureFunc = (*Text)(nil)
