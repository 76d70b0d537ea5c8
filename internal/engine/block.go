package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// computeBlock stacks in-flow children vertically. Children with an auto
// width fill the container's content box; margins do not collapse.
func (c *computer) computeBlock(id NodeID, style *Style, in Inputs) Output {
	b := resolveBox(style, in)
	innerKnown := b.innerKnown()
	innerAvail := b.innerAvailable(in.Available)

	innerWidth := innerKnown.Width
	if !innerWidth.Valid && innerAvail.Width.IsDefinite() {
		innerWidth = some(innerAvail.Width.Value)
	}
	if !innerWidth.Valid {
		var widest float32
		for i := 0; i < c.tree.ChildCount(id); i++ {
			child := c.tree.Child(id, i)
			cs := c.tree.Style(child)
			if cs.Display == DisplayNone || cs.Position == PositionAbsolute {
				continue
			}
			margin, _ := resolveMargin(cs.Margin, none())
			out := c.compute(child, Inputs{
				Known:     geom.Size[Opt]{Width: none(), Height: cs.Size.Height.Resolve(innerKnown.Height)},
				Parent:    innerKnown,
				Available: geom.Size[Space]{Width: innerAvail.Width.Sub(margin.Left + margin.Right), Height: innerAvail.Height},
				Mode:      RunComputeSize,
			})
			widest = max(widest, out.Size.Width+margin.Left+margin.Right)
		}
		innerWidth = some(b.clampWidth(widest+b.inset.Width) - b.inset.Width)
	}

	parent := geom.Size[Opt]{Width: innerWidth, Height: innerKnown.Height}
	origin := b.contentOrigin()

	type placed struct {
		id    NodeID
		order uint32
		at    geom.Point[float32]
		rel   geom.Point[float32]
	}
	var children []placed
	var absolute []absChild
	var y float32
	for i := 0; i < c.tree.ChildCount(id); i++ {
		child := c.tree.Child(id, i)
		cs := c.tree.Style(child)
		if cs.Display == DisplayNone {
			if in.Mode == RunPerformLayout {
				c.hide(child)
			}
			continue
		}
		if cs.Position == PositionAbsolute {
			absolute = append(absolute, absChild{id: child, order: uint32(i)})
			continue
		}

		margin, auto := resolveMargin(cs.Margin, innerWidth)
		known := applyAspectRatio(resolveSize(cs.Size, parent), cs.AspectRatio)
		fill := max(0, innerWidth.Value-margin.Left-margin.Right)
		if !known.Width.Valid && !c.isMeasuredLeaf(child) {
			cb := resolveBox(cs, Inputs{Parent: parent})
			known.Width = some(cb.clampWidth(fill))
			known = applyAspectRatio(known, cs.AspectRatio)
		}

		y += margin.Top
		out := c.compute(child, Inputs{
			Known:     known,
			Parent:    parent,
			Available: geom.Size[Space]{Width: Definite(fill), Height: innerAvail.Height},
			Mode:      in.Mode,
		})

		x := margin.Left
		if free := fill - out.Size.Width; free > 0 {
			switch {
			case auto.Left && auto.Right:
				x += free / 2
			case auto.Left:
				x += free
			}
		}
		children = append(children, placed{
			id:    child,
			order: uint32(i),
			at:    geom.Point[float32]{X: origin.X + x, Y: origin.Y + y},
			rel:   relativeOffset(cs, parent),
		})
		y += out.Size.Height + margin.Bottom
	}

	var size geom.Size[float32]
	size.Width = innerWidth.Value + b.inset.Width
	if b.known.Width.Valid {
		size.Width = b.known.Width.Value
	}
	if b.known.Height.Valid {
		size.Height = b.known.Height.Value
	} else {
		size.Height = b.clampHeight(y + b.inset.Height)
	}

	if in.Mode == RunComputeSize {
		return Output{Size: size}
	}

	var extent geom.Size[float32]
	for _, p := range children {
		at := geom.Point[float32]{X: p.at.X + p.rel.X, Y: p.at.Y + p.rel.Y}
		c.place(p.id, at, p.order)
		extent = contentExtent(extent, at, c.tree.UnroundedLayout(p.id).Size)
	}
	for _, a := range absolute {
		c.layoutAbsolute(a.id, a.order, b, size)
	}

	out := Output{Size: size, ContentSize: withEndPadding(extent, b)}
	c.store(id, b, out)
	return out
}
