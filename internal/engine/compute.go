package engine

import (
	"math"

	"github.com/matzehuels/boxtree/pkg/geom"
)

// computer carries the state of one layout pass.
type computer struct {
	tree     Tree
	measure  MeasureFunc
	measured bool
}

// ComputeRoot lays out the subtree rooted at root within available space and
// stores an unrounded layout for every node in it. measure may be nil, in
// which case every leaf is sized from its style alone.
//
// The root is treated as a block-level box: an auto width in definite
// available space fills that space (minus margins); an auto height is sized
// to content.
func ComputeRoot(tree Tree, root NodeID, available geom.Size[Space], measure MeasureFunc) {
	c := &computer{tree: tree, measure: measure, measured: measure != nil}
	style := tree.Style(root)
	if style.Display == DisplayNone {
		c.hide(root)
		return
	}

	parent := optFromSpace(available)
	margin, _ := resolveMargin(style.Margin, parent.Width)
	known := applyAspectRatio(resolveSize(style.Size, parent), style.AspectRatio)
	if !known.Width.Valid && available.Width.IsDefinite() && !c.isMeasuredLeaf(root) {
		b := resolveBox(style, Inputs{Parent: parent})
		known.Width = some(b.clampWidth(available.Width.Value - margin.Left - margin.Right))
		known = applyAspectRatio(known, style.AspectRatio)
	}

	c.compute(root, Inputs{
		Known:  known,
		Parent: parent,
		Available: geom.Size[Space]{
			Width:  available.Width.Sub(margin.Left + margin.Right),
			Height: available.Height.Sub(margin.Top + margin.Bottom),
		},
		Mode: RunPerformLayout,
	})
	c.place(root, geom.Point[float32]{X: margin.Left, Y: margin.Top}, 0)
}

func (c *computer) isMeasuredLeaf(id NodeID) bool {
	return c.measure != nil && c.tree.HasMeasure(id) && c.tree.ChildCount(id) == 0
}

// compute sizes (and in perform mode lays out) a single node.
func (c *computer) compute(id NodeID, in Inputs) Output {
	cache := c.tree.Cache(id)
	if out, ok := cache.get(in, c.measured); ok {
		return out
	}

	style := c.tree.Style(id)
	var out Output
	switch {
	case style.Display == DisplayNone:
		if in.Mode == RunPerformLayout {
			c.hide(id)
		}
	case c.tree.ChildCount(id) == 0:
		out = c.computeLeaf(id, style, in)
	case style.Display == DisplayFlex:
		out = c.computeFlex(id, style, in)
	case style.Display == DisplayGrid:
		out = c.computeGrid(id, style, in)
	default:
		out = c.computeBlock(id, style, in)
	}

	cache.put(in, c.measured, out)
	return out
}

// computeLeaf sizes a node without children, consulting the measure
// function when the node has one.
func (c *computer) computeLeaf(id NodeID, style *Style, in Inputs) Output {
	b := resolveBox(style, in)

	var content geom.Size[float32]
	if !b.known.Width.Valid || !b.known.Height.Valid {
		if c.isMeasuredLeaf(id) {
			content = c.measure(b.innerKnown(), b.innerAvailable(in.Available), id)
			content.Width = sanitize(content.Width)
			content.Height = sanitize(content.Height)
		}
	}
	out := Output{Size: b.finish(content), ContentSize: content}
	if in.Mode == RunPerformLayout {
		c.store(id, b, out)
	}
	return out
}

// store records the node's own layout. Its location and order are filled in
// by the parent through place.
func (c *computer) store(id NodeID, b box, out Output) {
	c.tree.SetUnroundedLayout(id, Layout{
		Size:          out.Size,
		ContentSize:   out.ContentSize,
		ScrollbarSize: b.scrollbar,
		Border:        b.border,
		Padding:       b.padding,
	})
}

// place sets the location and paint order of a laid-out child.
func (c *computer) place(id NodeID, at geom.Point[float32], order uint32) {
	l := c.tree.UnroundedLayout(id)
	l.Location = at
	l.Order = order
	c.tree.SetUnroundedLayout(id, l)
}

// hide zeroes the layout of a display:none subtree. Cached results are
// dropped so the subtree is laid out again once it becomes visible.
func (c *computer) hide(id NodeID) {
	c.tree.SetUnroundedLayout(id, Layout{})
	c.tree.Cache(id).Clear()
	for i := 0; i < c.tree.ChildCount(id); i++ {
		c.hide(c.tree.Child(id, i))
	}
}

// layoutAbsolute positions an absolutely positioned child against the
// padding box of its container. containerSize is the container's border box.
func (c *computer) layoutAbsolute(child NodeID, order uint32, cb box, containerSize geom.Size[float32]) {
	style := c.tree.Style(child)
	if style.Display == DisplayNone {
		c.hide(child)
		return
	}
	area := geom.Size[float32]{
		Width:  containerSize.Width - cb.border.Left - cb.border.Right - cb.scrollbar.Width,
		Height: containerSize.Height - cb.border.Top - cb.border.Bottom - cb.scrollbar.Height,
	}
	areaOpt := geom.Size[Opt]{Width: some(area.Width), Height: some(area.Height)}
	inset := geom.Rect[Opt]{
		Left:   style.Inset.Left.Resolve(areaOpt.Width),
		Right:  style.Inset.Right.Resolve(areaOpt.Width),
		Top:    style.Inset.Top.Resolve(areaOpt.Height),
		Bottom: style.Inset.Bottom.Resolve(areaOpt.Height),
	}
	margin, _ := resolveMargin(style.Margin, areaOpt.Width)

	known := applyAspectRatio(resolveSize(style.Size, areaOpt), style.AspectRatio)
	if !known.Width.Valid && inset.Left.Valid && inset.Right.Valid {
		known.Width = some(max(0, area.Width-inset.Left.Value-inset.Right.Value-margin.Left-margin.Right))
	}
	if !known.Height.Valid && inset.Top.Valid && inset.Bottom.Valid {
		known.Height = some(max(0, area.Height-inset.Top.Value-inset.Bottom.Value-margin.Top-margin.Bottom))
	}
	known = applyAspectRatio(known, style.AspectRatio)

	out := c.compute(child, Inputs{
		Known:  known,
		Parent: areaOpt,
		Available: geom.Size[Space]{
			Width:  Definite(max(0, area.Width-margin.Left-margin.Right)),
			Height: Definite(max(0, area.Height-margin.Top-margin.Bottom)),
		},
		Mode: RunPerformLayout,
	})

	var at geom.Point[float32]
	switch {
	case inset.Left.Valid:
		at.X = cb.border.Left + inset.Left.Value + margin.Left
	case inset.Right.Valid:
		at.X = cb.border.Left + area.Width - inset.Right.Value - margin.Right - out.Size.Width
	default:
		at.X = cb.border.Left + cb.padding.Left + margin.Left
	}
	switch {
	case inset.Top.Valid:
		at.Y = cb.border.Top + inset.Top.Value + margin.Top
	case inset.Bottom.Valid:
		at.Y = cb.border.Top + area.Height - inset.Bottom.Value - margin.Bottom - out.Size.Height
	default:
		at.Y = cb.border.Top + cb.padding.Top + margin.Top
	}
	c.place(child, at, order)
}

// relativeOffset returns the inset shift of a relatively positioned node.
func relativeOffset(style *Style, container geom.Size[Opt]) geom.Point[float32] {
	if style.Position != PositionRelative {
		return geom.Point[float32]{}
	}
	var p geom.Point[float32]
	if l := style.Inset.Left.Resolve(container.Width); l.Valid {
		p.X = l.Value
	} else if r := style.Inset.Right.Resolve(container.Width); r.Valid {
		p.X = -r.Value
	}
	if t := style.Inset.Top.Resolve(container.Height); t.Valid {
		p.Y = t.Value
	} else if b := style.Inset.Bottom.Resolve(container.Height); b.Valid {
		p.Y = -b.Value
	}
	return p
}

// contentExtent grows ext to cover a child placed at loc with size size.
func contentExtent(ext geom.Size[float32], loc geom.Point[float32], size geom.Size[float32]) geom.Size[float32] {
	return geom.Size[float32]{
		Width:  max(ext.Width, loc.X+size.Width),
		Height: max(ext.Height, loc.Y+size.Height),
	}
}

func sanitize(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) || v < 0 {
		return 0
	}
	return v
}
