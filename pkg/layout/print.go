package layout

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/boxtree/internal/engine"
)

// PrintTree writes a dump of the subtree rooted at root to standard output.
func (t *Tree) PrintTree(root NodeID) error {
	return t.FprintTree(os.Stdout, root)
}

// FprintTree writes a dump of the subtree rooted at root to w, one node per
// line with its kind, final layout and ID.
func (t *Tree) FprintTree(w io.Writer, root NodeID) error {
	return t.g.read(func() error {
		if _, err := t.need(RoleInput, root); err != nil {
			return err
		}
		bw := bufio.NewWriter(w)
		fmt.Fprintln(bw, "TREE")
		t.printNode(bw, root, "", true)
		return bw.Flush()
	})
}

func (t *Tree) printNode(w io.Writer, id NodeID, prefix string, last bool) {
	n := t.lookup(id)
	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}
	l := n.final
	fmt.Fprintf(w, "%s%s%s [x: %-4g y: %-4g w: %-4g h: %-4g content_w: %-4g content_h: %-4g] (%d)\n",
		prefix, branch, nodeKind(n),
		l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height,
		l.ContentSize.Width, l.ContentSize.Height, id)
	for i, c := range n.children {
		t.printNode(w, c, prefix+indent, i == len(n.children)-1)
	}
}

func nodeKind(n *node) string {
	switch {
	case n.style.Display == engine.DisplayNone:
		return "NONE"
	case len(n.children) == 0:
		return "LEAF"
	case n.style.Display == engine.DisplayGrid:
		return "GRID"
	case n.style.Display == engine.DisplayBlock:
		return "BLOCK"
	}
	return "FLEX"
}
