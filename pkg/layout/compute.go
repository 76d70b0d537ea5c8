package layout

import (
	"time"

	"github.com/matzehuels/boxtree/internal/engine"
	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/observability"
)

// Layout is the computed geometry of a node. Location is relative to the
// parent's border box; Size is the border box size.
type Layout struct {
	Order         uint32              `json:"order"`
	Location      geom.Point[float32] `json:"location"`
	Size          geom.Size[float32]  `json:"size"`
	ContentSize   geom.Size[float32]  `json:"content_size"`
	ScrollbarSize geom.Size[float32]  `json:"scrollbar_size"`
	Border        geom.Rect[float32]  `json:"border"`
	Padding       geom.Rect[float32]  `json:"padding"`
}

// ComputeLayout lays out the subtree rooted at node within available space.
// Leaves are sized from their styles alone.
func (t *Tree) ComputeLayout(node NodeID, available geom.Size[AvailableSpace]) error {
	return t.compute("ComputeLayout", node, available, nil)
}

// ComputeLayoutWithMeasure is ComputeLayout with fn sizing every leaf that
// has its node context flag set. The tree stays locked while fn runs.
func (t *Tree) ComputeLayoutWithMeasure(node NodeID, available geom.Size[AvailableSpace], fn MeasureFunc) error {
	return t.compute("ComputeLayoutWithMeasure", node, available, fn)
}

func (t *Tree) compute(op string, root NodeID, available geom.Size[AvailableSpace], fn MeasureFunc) error {
	avail, err := geom.TryMapSize(available, spaceToEngine)
	if err != nil {
		return err
	}

	hooks := observability.Layout()
	start := time.Now()
	nodes := 0
	err = t.g.write(op, func() error {
		if _, err := t.need(RoleInput, root); err != nil {
			return err
		}
		nodes = t.subtreeSize(root)
		hooks.OnLayoutStart(uint64(root), nodes)
		t.clearAncestorCaches(root)

		v := view{t}
		engine.ComputeRoot(v, uint64(root), avail, bridge(fn))
		engine.Finalize(v, uint64(root), t.rounding)
		t.clean(root)
		return nil
	})
	hooks.OnLayoutComplete(uint64(root), nodes, time.Since(start), err)
	return err
}

func (t *Tree) subtreeSize(id NodeID) int {
	n := 1
	for _, c := range t.lookup(id).children {
		n += t.subtreeSize(c)
	}
	return n
}

// clearAncestorCaches drops the cached results above id. A pass over a
// subtree rewrites its layouts, so an ancestor's cached perform-layout
// result no longer describes them. Dirty flags are left alone.
func (t *Tree) clearAncestorCaches(id NodeID) {
	for n := t.lookup(id); n.hasParent; {
		n = t.lookup(n.parent)
		n.cache.Clear()
	}
}

func (t *Tree) clean(id NodeID) {
	n := t.lookup(id)
	n.dirty = false
	for _, c := range n.children {
		t.clean(c)
	}
}

// Layout returns the layout of node from the last pass that covered it.
// The result is stale while the node is dirty.
func (t *Tree) Layout(node NodeID) (Layout, error) {
	return readValue(&t.g, func() (Layout, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return Layout{}, err
		}
		return layoutFromEngine(n.final), nil
	})
}

// UnroundedLayout returns the fractional layout of node before pixel
// rounding.
func (t *Tree) UnroundedLayout(node NodeID) (Layout, error) {
	return readValue(&t.g, func() (Layout, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return Layout{}, err
		}
		return layoutFromEngine(n.unrounded), nil
	})
}

// EnableRounding makes later passes snap geometry to whole pixels. This is
// the default.
func (t *Tree) EnableRounding() error {
	return t.setRounding("EnableRounding", true)
}

// DisableRounding makes later passes keep fractional geometry.
func (t *Tree) DisableRounding() error {
	return t.setRounding("DisableRounding", false)
}

func (t *Tree) setRounding(op string, on bool) error {
	return t.g.write(op, func() error {
		t.rounding = on
		return nil
	})
}

// RoundingEnabled reports whether passes round their results.
func (t *Tree) RoundingEnabled() (bool, error) {
	return readValue(&t.g, func() (bool, error) {
		return t.rounding, nil
	})
}

// view exposes the node table to the engine. It is only used while the
// guard is held exclusively.
type view struct{ t *Tree }

func (v view) node(id engine.NodeID) *node { return &v.t.nodes[NodeID(id).slot()] }

func (v view) ChildCount(id engine.NodeID) int { return len(v.node(id).children) }

func (v view) Child(id engine.NodeID, i int) engine.NodeID {
	return engine.NodeID(v.node(id).children[i])
}

func (v view) Style(id engine.NodeID) *engine.Style           { return &v.node(id).style }
func (v view) HasMeasure(id engine.NodeID) bool               { return v.node(id).context }
func (v view) Cache(id engine.NodeID) *engine.Cache           { return &v.node(id).cache }
func (v view) UnroundedLayout(id engine.NodeID) engine.Layout { return v.node(id).unrounded }

func (v view) SetUnroundedLayout(id engine.NodeID, l engine.Layout) { v.node(id).unrounded = l }
func (v view) SetFinalLayout(id engine.NodeID, l engine.Layout)     { v.node(id).final = l }
