package layout

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/boxtree/pkg/errors"
)

func mustLeaf(t *testing.T, tree *Tree) NodeID {
	t.Helper()
	id, err := tree.NewLeaf(nil)
	if err != nil {
		t.Fatalf("NewLeaf() error: %v", err)
	}
	return id
}

func mustParent(t *testing.T, tree *Tree, children ...NodeID) NodeID {
	t.Helper()
	id, err := tree.NewWithChildren(nil, children)
	if err != nil {
		t.Fatalf("NewWithChildren() error: %v", err)
	}
	return id
}

func wantCode(t *testing.T, name string, err error, code errors.Code) {
	t.Helper()
	if got := errors.GetCode(err); got != code {
		t.Errorf("%s error code = %q, want %q (err: %v)", name, got, code, err)
	}
}

func children(t *testing.T, tree *Tree, parent NodeID) []NodeID {
	t.Helper()
	got, err := tree.Children(parent)
	if err != nil {
		t.Fatalf("Children() error: %v", err)
	}
	return got
}

func parentOf(t *testing.T, tree *Tree, child NodeID) (NodeID, bool) {
	t.Helper()
	p, ok, err := tree.Parent(child)
	if err != nil {
		t.Fatalf("Parent() error: %v", err)
	}
	return p, ok
}

func TestNodeIDsAreNeverReused(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	if _, err := tree.Remove(a); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	b := mustLeaf(t, tree)

	if a == b {
		t.Fatalf("NewLeaf() reused removed ID %v", a)
	}
	if a.slot() != b.slot() {
		t.Errorf("slot = %d, want reused slot %d", b.slot(), a.slot())
	}
	ok, err := tree.Contains(a)
	if err != nil || ok {
		t.Errorf("Contains(removed) = %v, %v; want false, nil", ok, err)
	}
	_, err = tree.Style(a)
	wantCode(t, "Style(removed)", err, errors.ErrCodeInvalidInputNode)
}

func TestNewWithChildren(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	b := mustLeaf(t, tree)
	p := mustParent(t, tree, a, b)

	if got := children(t, tree, p); !slices.Equal(got, []NodeID{a, b}) {
		t.Errorf("Children() = %v, want [%v %v]", got, a, b)
	}
	for _, c := range []NodeID{a, b} {
		if got, ok := parentOf(t, tree, c); !ok || got != p {
			t.Errorf("Parent(%v) = %v, %v; want %v, true", c, got, ok, p)
		}
	}
	if got, ok := parentOf(t, tree, p); ok {
		t.Errorf("Parent(root) = %v, true; want no parent", got)
	}
}

func TestNewWithChildrenRejectsBadChildren(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	owned := mustLeaf(t, tree)
	mustParent(t, tree, owned)
	stale := mustLeaf(t, tree)
	_, _ = tree.Remove(stale)

	tests := []struct {
		name     string
		children []NodeID
	}{
		{"duplicate", []NodeID{a, a}},
		{"already parented", []NodeID{a, owned}},
		{"removed", []NodeID{a, stale}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, _ := tree.TotalNodeCount()
			_, err := tree.NewWithChildren(nil, tt.children)
			wantCode(t, "NewWithChildren()", err, errors.ErrCodeInvalidChildNode)
			after, _ := tree.TotalNodeCount()
			if after != before {
				t.Errorf("TotalNodeCount() = %d, want %d", after, before)
			}
			if _, ok := parentOf(t, tree, a); ok {
				t.Error("failed NewWithChildren() attached a child")
			}
		})
	}
}

func TestChildAtIndexOutOfBounds(t *testing.T) {
	tree := NewTree()
	p := mustParent(t, tree, mustLeaf(t, tree), mustLeaf(t, tree))

	_, err := tree.ChildAtIndex(p, 5)
	var oob *ChildIndexOutOfBoundsError
	if !stderrors.As(err, &oob) {
		t.Fatalf("ChildAtIndex() error = %v, want *ChildIndexOutOfBoundsError", err)
	}
	want := ChildIndexOutOfBoundsError{Parent: p, Index: 5, Count: 2}
	if *oob != want {
		t.Errorf("ChildAtIndex() error = %+v, want %+v", *oob, want)
	}
	wantCode(t, "ChildAtIndex()", err, errors.ErrCodeChildIndexOutOfBounds)
}

func TestInsertChildAtIndex(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	b := mustLeaf(t, tree)
	c := mustLeaf(t, tree)
	p := mustParent(t, tree, a, b)

	if err := tree.InsertChildAtIndex(p, 1, c); err != nil {
		t.Fatalf("InsertChildAtIndex() error: %v", err)
	}
	if got := children(t, tree, p); !slices.Equal(got, []NodeID{a, c, b}) {
		t.Errorf("Children() = %v, want [%v %v %v]", got, a, c, b)
	}

	d := mustLeaf(t, tree)
	if err := tree.InsertChildAtIndex(p, 3, d); err != nil {
		t.Fatalf("InsertChildAtIndex(count) error: %v", err)
	}
	if got, _ := tree.ChildAtIndex(p, 3); got != d {
		t.Errorf("ChildAtIndex(3) = %v, want %v", got, d)
	}

	e := mustLeaf(t, tree)
	err := tree.InsertChildAtIndex(p, 9, e)
	wantCode(t, "InsertChildAtIndex(9)", err, errors.ErrCodeChildIndexOutOfBounds)
	if _, ok := parentOf(t, tree, e); ok {
		t.Error("failed insert attached the child")
	}
}

func TestStructuralGuards(t *testing.T) {
	tree := NewTree()
	leaf := mustLeaf(t, tree)
	mid := mustParent(t, tree, leaf)
	root := mustParent(t, tree, mid)
	other := mustParent(t, tree)

	tests := []struct {
		name   string
		parent NodeID
		child  NodeID
	}{
		{"self", other, other},
		{"ancestor", leaf, root},
		{"parent", leaf, mid},
		{"already parented", other, leaf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := children(t, tree, tt.parent)
			err := tree.AddChild(tt.parent, tt.child)
			wantCode(t, "AddChild()", err, errors.ErrCodeInvalidChildNode)
			if got := children(t, tree, tt.parent); !slices.Equal(got, before) {
				t.Errorf("Children() = %v after failed AddChild, want %v", got, before)
			}
		})
	}
}

func TestErrorRoles(t *testing.T) {
	tree := NewTree()
	live := mustLeaf(t, tree)
	gone := mustLeaf(t, tree)
	_, _ = tree.Remove(gone)

	tests := []struct {
		name string
		call func() error
		want errors.Code
	}{
		{"Children", func() error { _, err := tree.Children(gone); return err }, errors.ErrCodeInvalidParentNode},
		{"ChildCount", func() error { _, err := tree.ChildCount(gone); return err }, errors.ErrCodeInvalidParentNode},
		{"AddChild parent", func() error { return tree.AddChild(gone, live) }, errors.ErrCodeInvalidParentNode},
		{"AddChild child", func() error { return tree.AddChild(live, gone) }, errors.ErrCodeInvalidChildNode},
		{"RemoveChild child", func() error { _, err := tree.RemoveChild(live, gone); return err }, errors.ErrCodeInvalidChildNode},
		{"Dirty", func() error { _, err := tree.Dirty(gone); return err }, errors.ErrCodeInvalidInputNode},
		{"SetStyle", func() error { return tree.SetStyle(gone, nil) }, errors.ErrCodeInvalidInputNode},
		{"Parent", func() error { _, _, err := tree.Parent(gone); return err }, errors.ErrCodeInvalidInputNode},
		{"Layout", func() error { _, err := tree.Layout(gone); return err }, errors.ErrCodeInvalidInputNode},
		{"Remove", func() error { _, err := tree.Remove(gone); return err }, errors.ErrCodeInvalidInputNode},
		{"ComputeLayout", func() error { return tree.ComputeLayout(gone, avail(10, 10)) }, errors.ErrCodeInvalidInputNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.name, tt.call(), tt.want)
		})
	}
}

func TestReplaceChildAtIndex(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	b := mustLeaf(t, tree)
	p := mustParent(t, tree, a)

	old, err := tree.ReplaceChildAtIndex(p, 0, b)
	if err != nil {
		t.Fatalf("ReplaceChildAtIndex() error: %v", err)
	}
	if old != a {
		t.Errorf("ReplaceChildAtIndex() = %v, want %v", old, a)
	}
	if _, ok := parentOf(t, tree, a); ok {
		t.Error("replaced child still has a parent")
	}
	if got, ok := parentOf(t, tree, b); !ok || got != p {
		t.Errorf("Parent(new) = %v, %v; want %v, true", got, ok, p)
	}
}

func TestRemoveChild(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	b := mustLeaf(t, tree)
	stray := mustLeaf(t, tree)
	p := mustParent(t, tree, a, b)

	got, err := tree.RemoveChild(p, a)
	if err != nil || got != a {
		t.Fatalf("RemoveChild() = %v, %v; want %v, nil", got, err, a)
	}
	if kids := children(t, tree, p); !slices.Equal(kids, []NodeID{b}) {
		t.Errorf("Children() = %v, want [%v]", kids, b)
	}
	if ok, _ := tree.Contains(a); !ok {
		t.Error("RemoveChild() deleted the node, want detached only")
	}

	_, err = tree.RemoveChild(p, stray)
	wantCode(t, "RemoveChild(not a child)", err, errors.ErrCodeInvalidChildNode)

	got, err = tree.RemoveChildAtIndex(p, 0)
	if err != nil || got != b {
		t.Errorf("RemoveChildAtIndex() = %v, %v; want %v, nil", got, err, b)
	}
}

func TestRemoveChildrenRange(t *testing.T) {
	tree := NewTree()
	ids := make([]NodeID, 5)
	for i := range ids {
		ids[i] = mustLeaf(t, tree)
	}
	p := mustParent(t, tree, ids...)

	if err := tree.RemoveChildrenRange(p, 1, 3); err != nil {
		t.Fatalf("RemoveChildrenRange() error: %v", err)
	}
	want := []NodeID{ids[0], ids[3], ids[4]}
	if got := children(t, tree, p); !slices.Equal(got, want) {
		t.Errorf("Children() = %v, want %v", got, want)
	}
	for _, id := range ids[1:3] {
		if _, ok := parentOf(t, tree, id); ok {
			t.Errorf("Parent(%v) still set after range removal", id)
		}
	}

	err := tree.RemoveChildrenRange(p, 0, 4)
	wantCode(t, "RemoveChildrenRange(0, 4)", err, errors.ErrCodeChildIndexOutOfBounds)
	err = tree.RemoveChildrenRange(p, 2, 1)
	wantCode(t, "RemoveChildrenRange(2, 1)", err, errors.ErrCodeChildIndexOutOfBounds)
}

func TestSetChildren(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	b := mustLeaf(t, tree)
	c := mustLeaf(t, tree)
	p := mustParent(t, tree, a, b)

	if err := tree.SetChildren(p, []NodeID{c, a}); err != nil {
		t.Fatalf("SetChildren() error: %v", err)
	}
	if got := children(t, tree, p); !slices.Equal(got, []NodeID{c, a}) {
		t.Errorf("Children() = %v, want [%v %v]", got, c, a)
	}
	if _, ok := parentOf(t, tree, b); ok {
		t.Error("dropped child still has a parent")
	}
	if got, ok := parentOf(t, tree, a); !ok || got != p {
		t.Errorf("Parent(kept) = %v, %v; want %v, true", got, ok, p)
	}

	err := tree.SetChildren(p, []NodeID{b, b})
	wantCode(t, "SetChildren(duplicate)", err, errors.ErrCodeInvalidChildNode)
	if got := children(t, tree, p); !slices.Equal(got, []NodeID{c, a}) {
		t.Errorf("Children() = %v after failed SetChildren, want unchanged", got)
	}

	err = tree.SetChildren(a, []NodeID{p})
	wantCode(t, "SetChildren(ancestor)", err, errors.ErrCodeInvalidChildNode)
}

func TestRemoveDeletesSubtree(t *testing.T) {
	tree := NewTree()
	leaf := mustLeaf(t, tree)
	mid := mustParent(t, tree, leaf)
	sibling := mustLeaf(t, tree)
	root := mustParent(t, tree, mid, sibling)

	got, err := tree.Remove(mid)
	if err != nil || got != mid {
		t.Fatalf("Remove() = %v, %v; want %v, nil", got, err, mid)
	}
	if n, _ := tree.TotalNodeCount(); n != 2 {
		t.Errorf("TotalNodeCount() = %d, want 2", n)
	}
	if ok, _ := tree.Contains(leaf); ok {
		t.Error("descendant of removed node still exists")
	}
	if kids := children(t, tree, root); !slices.Equal(kids, []NodeID{sibling}) {
		t.Errorf("Children(root) = %v, want [%v]", kids, sibling)
	}
}

func TestClear(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	mustParent(t, tree, a)

	if err := tree.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n, _ := tree.TotalNodeCount(); n != 0 {
		t.Errorf("TotalNodeCount() = %d, want 0", n)
	}
	if ok, _ := tree.Contains(a); ok {
		t.Error("Contains() = true after Clear")
	}
	if b := mustLeaf(t, tree); b == a {
		t.Errorf("NewLeaf() after Clear reused %v", a)
	}
}

func TestNewTreeWithCapacity(t *testing.T) {
	tree := NewTreeWithCapacity(16)
	if n, err := tree.TotalNodeCount(); err != nil || n != 0 {
		t.Errorf("TotalNodeCount() = %d, %v; want 0, nil", n, err)
	}
	huge := NewTreeWithCapacity(1 << 62)
	if _, err := huge.NewLeaf(nil); err != nil {
		t.Errorf("NewLeaf() on huge capacity tree: %v", err)
	}
}

func TestDirtyPropagation(t *testing.T) {
	tree := NewTree()
	leaf := mustLeaf(t, tree)
	sibling := mustLeaf(t, tree)
	mid := mustParent(t, tree, leaf)
	root := mustParent(t, tree, mid, sibling)

	for _, id := range []NodeID{leaf, sibling, mid, root} {
		if d, _ := tree.Dirty(id); !d {
			t.Errorf("Dirty(%v) = false for new node, want true", id)
		}
	}
	if err := tree.ComputeLayout(root, avail(100, 100)); err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	for _, id := range []NodeID{leaf, sibling, mid, root} {
		if d, _ := tree.Dirty(id); d {
			t.Errorf("Dirty(%v) = true after layout, want false", id)
		}
	}

	if err := tree.SetStyle(leaf, NewStyle()); err != nil {
		t.Fatalf("SetStyle() error: %v", err)
	}
	want := map[NodeID]bool{leaf: true, mid: true, root: true, sibling: false}
	for id, w := range want {
		if d, _ := tree.Dirty(id); d != w {
			t.Errorf("Dirty(%v) = %v, want %v", id, d, w)
		}
	}
}

func TestDetachMarksFormerParentDirty(t *testing.T) {
	tree := NewTree()
	a := mustLeaf(t, tree)
	p := mustParent(t, tree, a)
	if err := tree.ComputeLayout(p, avail(10, 10)); err != nil {
		t.Fatalf("ComputeLayout() error: %v", err)
	}
	if _, err := tree.Remove(a); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if d, _ := tree.Dirty(p); !d {
		t.Error("Dirty(former parent) = false, want true")
	}
}

func TestNodeContext(t *testing.T) {
	tree := NewTree()
	plain := mustLeaf(t, tree)
	ctx, err := tree.NewLeafWithContext(nil)
	if err != nil {
		t.Fatalf("NewLeafWithContext() error: %v", err)
	}
	if has, _ := tree.NodeContext(ctx); !has {
		t.Error("NodeContext() = false for NewLeafWithContext node")
	}
	if has, _ := tree.NodeContext(plain); has {
		t.Error("NodeContext() = true for plain leaf")
	}
	if err := tree.SetNodeContext(plain, true); err != nil {
		t.Fatalf("SetNodeContext() error: %v", err)
	}
	if has, _ := tree.NodeContext(plain); !has {
		t.Error("NodeContext() = false after SetNodeContext(true)")
	}
}

func TestStyleIsCopiedIntoNode(t *testing.T) {
	tree := NewTree()
	s := NewStyle()
	_ = s.SetFlexGrow(2)
	id, err := tree.NewLeaf(s)
	if err != nil {
		t.Fatalf("NewLeaf() error: %v", err)
	}
	_ = s.SetFlexGrow(5)

	got, err := tree.Style(id)
	if err != nil {
		t.Fatalf("Style() error: %v", err)
	}
	if g := got.FlexGrow(); g != 2 {
		t.Errorf("node FlexGrow() = %v, want 2", g)
	}
	_ = got.SetFlexGrow(7)
	again, _ := tree.Style(id)
	if g := again.FlexGrow(); g != 2 {
		t.Errorf("node FlexGrow() after editing returned copy = %v, want 2", g)
	}
}

func TestFprintTree(t *testing.T) {
	tree := NewTree()
	grid := NewStyle()
	_ = grid.SetDisplay(DisplayGrid)
	leaf := mustLeaf(t, tree)
	root, _ := tree.NewWithChildren(grid, []NodeID{leaf})
	_ = tree.ComputeLayout(root, avail(50, 50))

	var b strings.Builder
	if err := tree.FprintTree(&b, root); err != nil {
		t.Fatalf("FprintTree() error: %v", err)
	}
	out := b.String()
	for _, want := range []string{"TREE\n", "└── GRID", "    └── LEAF", "(" + leaf.String() + ")"} {
		if !strings.Contains(out, want) {
			t.Errorf("FprintTree() output missing %q:\n%s", want, out)
		}
	}
}
