package layout

import (
	"slices"
	"strconv"

	"github.com/matzehuels/boxtree/internal/engine"
)

// NodeID identifies a node within the Tree that created it. IDs are never
// reused: the low 32 bits address a slot in the node table and the high 32
// bits carry the slot's generation, which changes when the node is removed.
//
// IDs from one Tree must not be passed to another. A foreign ID either fails
// as invalid or, by coincidence, addresses an unrelated node.
type NodeID uint64

func (id NodeID) slot() uint32       { return uint32(id) }
func (id NodeID) generation() uint32 { return uint32(id >> 32) }

func (id NodeID) String() string { return strconv.FormatUint(uint64(id), 10) }

func makeID(slot, gen uint32) NodeID { return NodeID(uint64(gen)<<32 | uint64(slot)) }

// maxCapacityHint bounds the preallocation done by NewTreeWithCapacity.
const maxCapacityHint = 1 << 20

type node struct {
	gen  uint32
	live bool

	style     engine.Style
	children  []NodeID
	parent    NodeID
	hasParent bool
	context   bool

	dirty     bool
	cache     engine.Cache
	unrounded engine.Layout
	final     engine.Layout
}

// Tree owns a forest of layout nodes. All methods are safe for concurrent
// use: queries take shared access, mutations and layout passes take
// exclusive access for their whole duration.
//
// Every method returns an error instead of panicking on bad input, and a
// failing mutation leaves the tree unchanged.
type Tree struct {
	g        guard
	nodes    []node
	free     []uint32
	count    uint64
	rounding bool
}

// NewTree returns an empty tree with rounding enabled.
func NewTree() *Tree {
	return &Tree{rounding: true}
}

// NewTreeWithCapacity returns an empty tree with room for capacity nodes.
func NewTreeWithCapacity(capacity uint64) *Tree {
	return &Tree{
		nodes:    make([]node, 0, min(capacity, maxCapacityHint)),
		rounding: true,
	}
}

// =============================================================================
// Internal helpers (callers hold the guard)
// =============================================================================

func (t *Tree) lookup(id NodeID) *node {
	slot := id.slot()
	if int(slot) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[slot]
	if !n.live || n.gen != id.generation() {
		return nil
	}
	return n
}

func (t *Tree) need(role NodeRole, id NodeID) (*node, error) {
	if n := t.lookup(id); n != nil {
		return n, nil
	}
	return nil, invalidNode(role, id)
}

func (t *Tree) alloc(style engine.Style, context bool) NodeID {
	var slot uint32
	if k := len(t.free); k > 0 {
		slot = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		slot = uint32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	n := &t.nodes[slot]
	gen := n.gen + 1
	if gen == 0 {
		gen = 1
	}
	*n = node{gen: gen, live: true, style: style, context: context, dirty: true}
	t.count++
	return makeID(slot, gen)
}

// markDirty flags id and every ancestor and drops their cached results.
func (t *Tree) markDirty(id NodeID) {
	for {
		n := t.lookup(id)
		if n == nil {
			return
		}
		n.dirty = true
		n.cache.Clear()
		if !n.hasParent {
			return
		}
		id = n.parent
	}
}

// isAncestorOrSelf reports whether a is b or one of b's ancestors.
func (t *Tree) isAncestorOrSelf(a, b NodeID) bool {
	for {
		if a == b {
			return true
		}
		n := t.lookup(b)
		if n == nil || !n.hasParent {
			return false
		}
		b = n.parent
	}
}

// checkAttachable validates that child may become a child of parent.
func (t *Tree) checkAttachable(parent, child NodeID) (*node, error) {
	c, err := t.need(RoleChild, child)
	if err != nil {
		return nil, err
	}
	if c.hasParent || t.isAncestorOrSelf(child, parent) {
		return nil, invalidNode(RoleChild, child)
	}
	return c, nil
}

func (t *Tree) attach(parent NodeID, c *node) {
	c.parent = parent
	c.hasParent = true
}

func (t *Tree) detach(child NodeID) {
	if c := t.lookup(child); c != nil {
		c.parent = 0
		c.hasParent = false
	}
}

// release frees id and its whole subtree.
func (t *Tree) release(id NodeID) {
	n := t.lookup(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.release(c)
	}
	gen := n.gen
	*n = node{gen: gen}
	t.free = append(t.free, id.slot())
	t.count--
}

func styleValue(s *Style) engine.Style {
	if s == nil {
		return engine.DefaultStyle()
	}
	return s.snapshot()
}

// =============================================================================
// Construction
// =============================================================================

// NewLeaf creates a node without children. A nil style means [NewStyle].
func (t *Tree) NewLeaf(style *Style) (NodeID, error) {
	v := styleValue(style)
	return writeValue(&t.g, "NewLeaf", func() (NodeID, error) {
		return t.alloc(v, false), nil
	})
}

// NewLeafWithContext creates a leaf whose node context flag is set, so it
// is sized by the measurement callback of ComputeLayoutWithMeasure.
func (t *Tree) NewLeafWithContext(style *Style) (NodeID, error) {
	v := styleValue(style)
	return writeValue(&t.g, "NewLeafWithContext", func() (NodeID, error) {
		return t.alloc(v, true), nil
	})
}

// NewWithChildren creates a node with the given children, in order. Every
// child must exist, must not already have a parent and must appear only once.
func (t *Tree) NewWithChildren(style *Style, children []NodeID) (NodeID, error) {
	v := styleValue(style)
	return writeValue(&t.g, "NewWithChildren", func() (NodeID, error) {
		seen := make(map[NodeID]bool, len(children))
		for _, c := range children {
			n, err := t.need(RoleChild, c)
			if err != nil {
				return 0, err
			}
			if n.hasParent || seen[c] {
				return 0, invalidNode(RoleChild, c)
			}
			seen[c] = true
		}
		id := t.alloc(v, false)
		t.lookup(id).children = slices.Clone(children)
		for _, c := range children {
			t.attach(id, t.lookup(c))
		}
		return id, nil
	})
}

// =============================================================================
// Children
// =============================================================================

// Children returns a copy of the children of parent.
func (t *Tree) Children(parent NodeID) ([]NodeID, error) {
	return readValue(&t.g, func() ([]NodeID, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return nil, err
		}
		return slices.Clone(p.children), nil
	})
}

// ChildCount returns the number of children of parent.
func (t *Tree) ChildCount(parent NodeID) (uint64, error) {
	return readValue(&t.g, func() (uint64, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return 0, err
		}
		return uint64(len(p.children)), nil
	})
}

// ChildAtIndex returns the index-th child of parent.
func (t *Tree) ChildAtIndex(parent NodeID, index uint64) (NodeID, error) {
	return readValue(&t.g, func() (NodeID, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return 0, err
		}
		if index >= uint64(len(p.children)) {
			return 0, &ChildIndexOutOfBoundsError{Parent: parent, Index: index, Count: uint64(len(p.children))}
		}
		return p.children[index], nil
	})
}

// InsertChildAtIndex inserts child before position index. An index equal to
// the child count appends.
func (t *Tree) InsertChildAtIndex(parent NodeID, index uint64, child NodeID) error {
	return t.g.write("InsertChildAtIndex", func() error {
		return t.insert(parent, index, child, false)
	})
}

// AddChild appends child to the children of parent.
func (t *Tree) AddChild(parent, child NodeID) error {
	return t.g.write("AddChild", func() error {
		return t.insert(parent, 0, child, true)
	})
}

func (t *Tree) insert(parent NodeID, index uint64, child NodeID, appendChild bool) error {
	p, err := t.need(RoleParent, parent)
	if err != nil {
		return err
	}
	c, err := t.checkAttachable(parent, child)
	if err != nil {
		return err
	}
	count := uint64(len(p.children))
	if appendChild {
		index = count
	}
	if index > count {
		return &ChildIndexOutOfBoundsError{Parent: parent, Index: index, Count: count}
	}
	p.children = slices.Insert(p.children, int(index), child)
	t.attach(parent, c)
	t.markDirty(parent)
	return nil
}

// ReplaceChildAtIndex puts newChild at position index and returns the child
// that was there, now detached.
func (t *Tree) ReplaceChildAtIndex(parent NodeID, index uint64, newChild NodeID) (NodeID, error) {
	return writeValue(&t.g, "ReplaceChildAtIndex", func() (NodeID, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return 0, err
		}
		if index >= uint64(len(p.children)) {
			return 0, &ChildIndexOutOfBoundsError{Parent: parent, Index: index, Count: uint64(len(p.children))}
		}
		old := p.children[index]
		if old == newChild {
			t.markDirty(parent)
			return old, nil
		}
		c, err := t.checkAttachable(parent, newChild)
		if err != nil {
			return 0, err
		}
		p.children[index] = newChild
		t.detach(old)
		t.attach(parent, c)
		t.markDirty(parent)
		return old, nil
	})
}

// RemoveChildAtIndex detaches and returns the index-th child of parent.
// The child stays in the tree as a root.
func (t *Tree) RemoveChildAtIndex(parent NodeID, index uint64) (NodeID, error) {
	return writeValue(&t.g, "RemoveChildAtIndex", func() (NodeID, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return 0, err
		}
		if index >= uint64(len(p.children)) {
			return 0, &ChildIndexOutOfBoundsError{Parent: parent, Index: index, Count: uint64(len(p.children))}
		}
		child := p.children[index]
		p.children = slices.Delete(p.children, int(index), int(index)+1)
		t.detach(child)
		t.markDirty(parent)
		return child, nil
	})
}

// RemoveChild detaches child from parent and returns it.
func (t *Tree) RemoveChild(parent, child NodeID) (NodeID, error) {
	return writeValue(&t.g, "RemoveChild", func() (NodeID, error) {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return 0, err
		}
		if _, err := t.need(RoleChild, child); err != nil {
			return 0, err
		}
		i := slices.Index(p.children, child)
		if i < 0 {
			return 0, invalidNode(RoleChild, child)
		}
		p.children = slices.Delete(p.children, i, i+1)
		t.detach(child)
		t.markDirty(parent)
		return child, nil
	})
}

// RemoveChildrenRange detaches the children of parent in [start, end).
func (t *Tree) RemoveChildrenRange(parent NodeID, start, end uint64) error {
	return t.g.write("RemoveChildrenRange", func() error {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return err
		}
		count := uint64(len(p.children))
		if end > count {
			return &ChildIndexOutOfBoundsError{Parent: parent, Index: end, Count: count}
		}
		if start > end {
			return &ChildIndexOutOfBoundsError{Parent: parent, Index: start, Count: count}
		}
		for _, c := range p.children[start:end] {
			t.detach(c)
		}
		p.children = slices.Delete(p.children, int(start), int(end))
		t.markDirty(parent)
		return nil
	})
}

// SetChildren replaces the children of parent. Previous children missing
// from the new list are detached. A listed child must not belong to another
// parent and must appear only once.
func (t *Tree) SetChildren(parent NodeID, children []NodeID) error {
	return t.g.write("SetChildren", func() error {
		p, err := t.need(RoleParent, parent)
		if err != nil {
			return err
		}
		seen := make(map[NodeID]bool, len(children))
		for _, c := range children {
			n, err := t.need(RoleChild, c)
			if err != nil {
				return err
			}
			if seen[c] || (n.hasParent && n.parent != parent) {
				return invalidNode(RoleChild, c)
			}
			if !n.hasParent && t.isAncestorOrSelf(c, parent) {
				return invalidNode(RoleChild, c)
			}
			seen[c] = true
		}
		for _, old := range p.children {
			t.detach(old)
		}
		p.children = slices.Clone(children)
		for _, c := range children {
			t.attach(parent, t.lookup(c))
		}
		t.markDirty(parent)
		return nil
	})
}

// Remove detaches node from its parent and deletes it together with its
// whole subtree. It returns the removed ID, which is invalid afterwards.
func (t *Tree) Remove(node NodeID) (NodeID, error) {
	return writeValue(&t.g, "Remove", func() (NodeID, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return 0, err
		}
		if n.hasParent {
			parent := n.parent
			if p := t.lookup(parent); p != nil {
				if i := slices.Index(p.children, node); i >= 0 {
					p.children = slices.Delete(p.children, i, i+1)
				}
			}
			t.markDirty(parent)
		}
		t.release(node)
		return node, nil
	})
}

// Parent returns the parent of child. ok is false for roots.
func (t *Tree) Parent(child NodeID) (parent NodeID, ok bool, err error) {
	err = t.g.read(func() error {
		n, err := t.need(RoleInput, child)
		if err != nil {
			return err
		}
		parent, ok = n.parent, n.hasParent
		return nil
	})
	return parent, ok, err
}

// =============================================================================
// Per-node state
// =============================================================================

// SetStyle copies the current value of style into node and marks it dirty.
// A nil style means [NewStyle].
func (t *Tree) SetStyle(node NodeID, style *Style) error {
	v := styleValue(style)
	return t.g.write("SetStyle", func() error {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return err
		}
		n.style = v
		t.markDirty(node)
		return nil
	})
}

// Style returns a new Style holding the node's current properties.
// Changing it does not affect the node until it is passed to SetStyle.
func (t *Tree) Style(node NodeID) (*Style, error) {
	return readValue(&t.g, func() (*Style, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return nil, err
		}
		return styleFrom(n.style.Clone()), nil
	})
}

// MarkDirty flags node and all of its ancestors for re-layout.
func (t *Tree) MarkDirty(node NodeID) error {
	return t.g.write("MarkDirty", func() error {
		if _, err := t.need(RoleInput, node); err != nil {
			return err
		}
		t.markDirty(node)
		return nil
	})
}

// Dirty reports whether node needs re-layout.
func (t *Tree) Dirty(node NodeID) (bool, error) {
	return readValue(&t.g, func() (bool, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return false, err
		}
		return n.dirty, nil
	})
}

// SetNodeContext sets or clears the flag that makes a leaf measured.
func (t *Tree) SetNodeContext(node NodeID, has bool) error {
	return t.g.write("SetNodeContext", func() error {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return err
		}
		if n.context != has {
			n.context = has
			t.markDirty(node)
		}
		return nil
	})
}

// NodeContext reports whether node has its context flag set.
func (t *Tree) NodeContext(node NodeID) (bool, error) {
	return readValue(&t.g, func() (bool, error) {
		n, err := t.need(RoleInput, node)
		if err != nil {
			return false, err
		}
		return n.context, nil
	})
}

// Contains reports whether node addresses a live node of this tree.
func (t *Tree) Contains(node NodeID) (bool, error) {
	return readValue(&t.g, func() (bool, error) {
		return t.lookup(node) != nil, nil
	})
}

// TotalNodeCount returns the number of live nodes.
func (t *Tree) TotalNodeCount() (uint64, error) {
	return readValue(&t.g, func() (uint64, error) {
		return t.count, nil
	})
}

// Clear removes every node. IDs handed out before remain invalid.
func (t *Tree) Clear() error {
	return t.g.write("Clear", func() error {
		for i := range t.nodes {
			n := &t.nodes[i]
			if n.live {
				*n = node{gen: n.gen}
				t.free = append(t.free, uint32(i))
			}
		}
		t.count = 0
		return nil
	})
}
