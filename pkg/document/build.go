package document

import (
	"context"
	"fmt"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
	"github.com/matzehuels/boxtree/pkg/measure"
)

// Built is a document loaded into a layout tree.
type Built struct {
	Tree  *layout.Tree
	Root  layout.NodeID
	Names map[layout.NodeID]string
	Text  *measure.Text

	available geom.Size[layout.AvailableSpace]
}

// Build creates a tree for doc. Text nodes are registered with text, which
// may be nil to use the default font.
func Build(doc *Document, text *measure.Text) (*Built, error) {
	if text == nil {
		text = measure.NewText(nil)
	}
	avail, err := Available(doc.Width, doc.Height)
	if err != nil {
		return nil, err
	}
	b := &Built{
		Tree:      layout.NewTreeWithCapacity(uint64(doc.Count())),
		Names:     make(map[layout.NodeID]string),
		Text:      text,
		available: avail,
	}
	if doc.Rounding != nil && !*doc.Rounding {
		if err := b.Tree.DisableRounding(); err != nil {
			return nil, err
		}
	}
	if b.Root, err = b.add(&doc.Root, "root"); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Built) add(n *Node, path string) (layout.NodeID, error) {
	style, err := n.Style.Style()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", b.label(n, path), err)
	}
	if n.Text != "" && len(n.Children) > 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: a text node cannot have children", b.label(n, path))
	}

	var id layout.NodeID
	if n.Text != "" {
		if id, err = b.Tree.NewLeafWithContext(style); err != nil {
			return 0, err
		}
		b.Text.Set(id, n.Text)
	} else {
		kids := make([]layout.NodeID, 0, len(n.Children))
		for i := range n.Children {
			c, err := b.add(&n.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return 0, err
			}
			kids = append(kids, c)
		}
		if id, err = b.Tree.NewWithChildren(style, kids); err != nil {
			return 0, err
		}
	}
	if n.ID != "" {
		b.Names[id] = n.ID
	}
	return id, nil
}

func (b *Built) label(n *Node, path string) string {
	if n.ID != "" {
		return fmt.Sprintf("node %q", n.ID)
	}
	return path
}

// Available returns the space the document asked for.
func (b *Built) Available() geom.Size[layout.AvailableSpace] { return b.available }

// Compute lays out the tree in the document's available space, or in
// override when it is non-nil.
func (b *Built) Compute(ctx context.Context, override *geom.Size[layout.AvailableSpace]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	avail := b.available
	if override != nil {
		avail = *override
	}
	if err := b.Tree.ComputeLayoutWithMeasure(b.Root, avail, b.Text); err != nil {
		return err
	}
	return ctx.Err()
}

// Name returns the document ID of node, or its numeric ID.
func (b *Built) Name(node layout.NodeID) string {
	if n, ok := b.Names[node]; ok {
		return n
	}
	return node.String()
}

// Available parses a width and height; empty means max-content.
func Available(width, height string) (geom.Size[layout.AvailableSpace], error) {
	var out geom.Size[layout.AvailableSpace]
	var err error
	if out.Width, err = space(width); err != nil {
		return out, fmt.Errorf("width: %w", err)
	}
	if out.Height, err = space(height); err != nil {
		return out, fmt.Errorf("height: %w", err)
	}
	return out, nil
}

func space(s string) (layout.AvailableSpace, error) {
	if s == "" {
		return layout.MaxContent(), nil
	}
	return layout.ParseAvailableSpace(s)
}
