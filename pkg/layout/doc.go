// Package layout manages a mutable tree of layout nodes and computes box
// geometry for it using block, flexbox and grid formatting.
//
// # Overview
//
// A [Tree] owns its nodes. Each node has a style, an ordered list of children,
// at most one parent, a dirty flag and the layout produced by the last pass
// that covered it. Nodes are addressed by [NodeID] handles that stay unique
// for the lifetime of the tree: removing a node invalidates its handle and the
// handle is never handed out again.
//
// # Basic Usage
//
// Build styles with [NewStyle] and its setters, create nodes, then request a
// layout and read it back:
//
//	tree := layout.NewTree()
//	grow := layout.NewStyle()
//	_ = grow.SetFlexGrow(1)
//	a, _ := tree.NewLeaf(grow)
//	b, _ := tree.NewLeaf(grow)
//
//	root := layout.NewStyle()
//	_ = root.SetSize(geom.Size[layout.Dimension]{Width: layout.Length(200), Height: layout.Length(100)})
//	r, _ := tree.NewWithChildren(root, []layout.NodeID{a, b})
//
//	_ = tree.ComputeLayout(r, geom.Size[layout.AvailableSpace]{
//	    Width: layout.MaxContent(), Height: layout.MaxContent(),
//	})
//	l, _ := tree.Layout(a) // 100×100 at (0, 0)
//
// # Styles
//
// A [Style] is an independent value with its own lock. Assigning it to a node
// copies it; changing it afterwards has no effect until it is assigned again.
// Setters validate their argument and return an INVALID_INPUT error without
// changing the style, so every stored value converts back unchanged.
// Percentages are fractions: 0.5 is fifty percent.
//
// # Dirty Tracking
//
// Style changes, children changes and [Tree.MarkDirty] flag the node and all
// of its ancestors. A successful [Tree.ComputeLayout] clears the flag on every
// node of the computed subtree. Results of intermediate sizing steps are
// cached per node and dropped when the node is dirtied.
//
// # Measured Leaves
//
// Leaves whose node context flag is set ([Tree.NewLeafWithContext],
// [Tree.SetNodeContext]) are sized by the [MeasureFunc] passed to
// [Tree.ComputeLayoutWithMeasure]. The callback runs while the tree is
// locked and must not call back into it. The flag carries no data; hosts keep
// their content (text runs, images) in their own table keyed by NodeID.
//
// # Concurrency and Errors
//
// Every Tree method is safe for concurrent use. Queries share the tree lock,
// mutations and layout passes hold it exclusively. Failures are returned as
// errors carrying a code from [github.com/matzehuels/boxtree/pkg/errors]:
//
//   - [*InvalidNodeError]: INVALID_PARENT_NODE, INVALID_CHILD_NODE or
//     INVALID_INPUT_NODE, by the role of the bad argument
//   - [*ChildIndexOutOfBoundsError]: CHILD_INDEX_OUT_OF_BOUNDS
//   - INVALID_INPUT for rejected style values
//   - [ErrLockUnavailable] once the tree is poisoned
//
// A panic during an exclusive operation, typically from a measure callback,
// poisons the tree. The panicking call returns LOCK_UNAVAILABLE and so does
// every later call; the tree must then be discarded.
package layout
