package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// Opt is an optional float, used for sizes that may not be known yet.
type Opt = geom.Optional[float32]

func some(v float32) Opt { return geom.Some(v) }
func none() Opt          { return geom.None[float32]() }

// NodeID identifies a node within the tree handed to the engine.
type NodeID = uint64

// Layout is the computed geometry of a node. Location is relative to the
// parent's border box origin.
type Layout struct {
	Order         uint32
	Location      geom.Point[float32]
	Size          geom.Size[float32]
	ContentSize   geom.Size[float32]
	ScrollbarSize geom.Size[float32]
	Border        geom.Rect[float32]
	Padding       geom.Rect[float32]
}

// Tree is the view of the node store the algorithm runs against. The caller
// holds exclusive access to the store for the whole pass.
type Tree interface {
	// ChildCount returns the number of children of id.
	ChildCount(id NodeID) int
	// Child returns the i-th child of id.
	Child(id NodeID, i int) NodeID
	// Style returns the internal style of id. The engine never mutates it.
	Style(id NodeID) *Style
	// HasMeasure reports whether id defers its intrinsic size to the
	// measure function.
	HasMeasure(id NodeID) bool
	// Cache returns the per-node result cache.
	Cache(id NodeID) *Cache
	// UnroundedLayout returns the layout last stored by SetUnroundedLayout.
	UnroundedLayout(id NodeID) Layout
	// SetUnroundedLayout stores the fractional layout of id.
	SetUnroundedLayout(id NodeID, l Layout)
	// SetFinalLayout stores the layout callers read back.
	SetFinalLayout(id NodeID, l Layout)
}

// MeasureFunc computes the content size of a measured leaf. known holds the
// content-box size along each axis the parent already fixed; available
// holds the content-box space along each axis.
type MeasureFunc func(known geom.Size[Opt], available geom.Size[Space], id NodeID) geom.Size[float32]

// RunMode selects whether a node is only sized or fully laid out.
type RunMode uint8

const (
	RunComputeSize RunMode = iota
	RunPerformLayout
)

// Inputs are the constraints a parent passes when laying out a child.
// Known and Available refer to the child's border box; Parent is the size
// percentages resolve against.
type Inputs struct {
	Known     geom.Size[Opt]
	Parent    geom.Size[Opt]
	Available geom.Size[Space]
	Mode      RunMode
	// ContentOnly sizes the node from its content, ignoring its preferred
	// size. Used for the automatic minimum size of flex items.
	ContentOnly bool
}

// Output is the result of sizing a node.
type Output struct {
	Size        geom.Size[float32]
	ContentSize geom.Size[float32]
}

// cacheSlots bounds the number of size-only results kept per node. Even
// deep flex/grid nesting rarely probes a node under more distinct inputs.
const cacheSlots = 9

type cacheEntry struct {
	known     geom.Size[Opt]
	parent    geom.Size[Opt]
	available geom.Size[Space]
	content   bool
	measured  bool
	out       Output
}

func (e *cacheEntry) matches(in Inputs, measured bool) bool {
	return e.known == in.Known && e.parent == in.Parent && e.available == in.Available &&
		e.content == in.ContentOnly && e.measured == measured
}

// Cache memoizes node results between passes. The owner clears it whenever
// the node is dirtied; entries are additionally tagged with whether the pass
// had a measure function, since a measured leaf sizes differently without one.
type Cache struct {
	final    cacheEntry
	hasFinal bool
	sizes    [cacheSlots]cacheEntry
	n        int
	next     int
}

// Clear drops every cached result.
func (c *Cache) Clear() {
	*c = Cache{}
}

// IsEmpty reports whether nothing is cached.
func (c *Cache) IsEmpty() bool {
	return !c.hasFinal && c.n == 0
}

func (c *Cache) get(in Inputs, measured bool) (Output, bool) {
	if in.Mode == RunPerformLayout {
		if c.hasFinal && c.final.matches(in, measured) {
			return c.final.out, true
		}
		return Output{}, false
	}
	if c.hasFinal && c.final.matches(in, measured) {
		return c.final.out, true
	}
	for i := 0; i < c.n; i++ {
		if c.sizes[i].matches(in, measured) {
			return c.sizes[i].out, true
		}
	}
	return Output{}, false
}

func (c *Cache) put(in Inputs, measured bool, out Output) {
	e := cacheEntry{
		known:     in.Known,
		parent:    in.Parent,
		available: in.Available,
		content:   in.ContentOnly,
		measured:  measured,
		out:       out,
	}
	if in.Mode == RunPerformLayout {
		c.final = e
		c.hasFinal = true
		return
	}
	c.sizes[c.next] = e
	c.next = (c.next + 1) % cacheSlots
	if c.n < cacheSlots {
		c.n++
	}
}
