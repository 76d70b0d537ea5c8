package document

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// LayoutNode is the computed layout of one node and its subtree.
type LayoutNode struct {
	ID       layout.NodeID       `json:"id,string"`
	Name     string              `json:"name,omitempty"`
	Text     string              `json:"text,omitempty"`
	Layout   layout.Layout       `json:"layout"`
	Absolute geom.Point[float32] `json:"absolute"`
	Children []*LayoutNode       `json:"children,omitempty"`
}

// Export reads back the layout of every node under b.Root.
func Export(b *Built) (*LayoutNode, error) {
	return b.export(b.Root, geom.Point[float32]{})
}

func (b *Built) export(id layout.NodeID, origin geom.Point[float32]) (*LayoutNode, error) {
	l, err := b.Tree.Layout(id)
	if err != nil {
		return nil, err
	}
	n := &LayoutNode{
		ID:       id,
		Name:     b.Names[id],
		Layout:   l,
		Absolute: geom.Point[float32]{X: origin.X + l.Location.X, Y: origin.Y + l.Location.Y},
	}
	n.Text, _ = b.Text.Get(id)

	kids, err := b.Tree.Children(id)
	if err != nil {
		return nil, err
	}
	for _, c := range kids {
		child, err := b.export(c, n.Absolute)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Walk calls fn for n and every descendant, parents first.
func (n *LayoutNode) Walk(fn func(*LayoutNode, int)) {
	n.walk(fn, 0)
}

func (n *LayoutNode) walk(fn func(*LayoutNode, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Label returns the node's name, or its decimal ID.
func (n *LayoutNode) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return strconv.FormatUint(uint64(n.ID), 10)
}

// WriteJSON writes the layout tree as indented JSON.
func WriteJSON(w io.Writer, n *LayoutNode) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}

// ReadJSON reads a layout tree written by WriteJSON.
func ReadJSON(r io.Reader) (*LayoutNode, error) {
	var n LayoutNode
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}
