package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// box holds the resolved box-model values of a node for one layout call.
type box struct {
	padding   geom.Rect[float32]
	border    geom.Rect[float32]
	scrollbar geom.Size[float32] // space reserved for scrollbars
	inset     geom.Size[float32] // padding + border + scrollbar per axis
	known     geom.Size[Opt]     // border-box size fixed by the parent or the style
	min       geom.Size[Opt]
	max       geom.Size[Opt]
}

// resolveBox resolves the box model of a node. Percent padding and border
// resolve against the parent width on both axes, as in CSS.
func resolveBox(s *Style, in Inputs) box {
	var b box
	pw := in.Parent.Width
	b.padding = geom.MapRect(s.Padding, func(d Dim) float32 { return max(0, d.ResolveOrZero(pw)) })
	b.border = geom.MapRect(s.Border, func(d Dim) float32 { return max(0, d.ResolveOrZero(pw)) })

	// A vertical scrollbar takes horizontal space and vice versa.
	if s.Overflow.Y == OverflowScroll {
		b.scrollbar.Width = s.ScrollbarWidth
	}
	if s.Overflow.X == OverflowScroll {
		b.scrollbar.Height = s.ScrollbarWidth
	}
	b.inset = geom.Size[float32]{
		Width:  b.padding.Left + b.padding.Right + b.border.Left + b.border.Right + b.scrollbar.Width,
		Height: b.padding.Top + b.padding.Bottom + b.border.Top + b.border.Bottom + b.scrollbar.Height,
	}

	b.min = resolveSize(s.MinSize, in.Parent)
	b.max = resolveSize(s.MaxSize, in.Parent)

	styled := applyAspectRatio(resolveSize(s.Size, in.Parent), s.AspectRatio)
	if in.ContentOnly {
		styled = geom.Size[Opt]{}
	}
	b.known = in.Known
	if !b.known.Width.Valid && styled.Width.Valid {
		b.known.Width = some(b.clampWidth(styled.Width.Value))
	}
	if !b.known.Height.Valid && styled.Height.Valid {
		b.known.Height = some(b.clampHeight(styled.Height.Value))
	}
	b.known = applyAspectRatio(b.known, s.AspectRatio)
	return b
}

func (b *box) clampWidth(v float32) float32 {
	return max(clampOpt(v, b.min.Width, b.max.Width), b.inset.Width)
}

func (b *box) clampHeight(v float32) float32 {
	return max(clampOpt(v, b.min.Height, b.max.Height), b.inset.Height)
}

// innerKnown returns the content-box size for axes whose border-box size is known.
func (b *box) innerKnown() geom.Size[Opt] {
	return geom.Size[Opt]{
		Width:  optSub(b.known.Width, b.inset.Width),
		Height: optSub(b.known.Height, b.inset.Height),
	}
}

// innerAvailable returns the content-box available space.
func (b *box) innerAvailable(avail geom.Size[Space]) geom.Size[Space] {
	out := geom.Size[Space]{
		Width:  avail.Width.Sub(b.inset.Width),
		Height: avail.Height.Sub(b.inset.Height),
	}
	if b.known.Width.Valid {
		out.Width = Definite(max(0, b.known.Width.Value-b.inset.Width))
	}
	if b.known.Height.Valid {
		out.Height = Definite(max(0, b.known.Height.Value-b.inset.Height))
	}
	return out
}

// finish turns a content-box size into the border-box size of the node,
// honoring known axes and min/max constraints on the others.
func (b *box) finish(content geom.Size[float32]) geom.Size[float32] {
	var out geom.Size[float32]
	if b.known.Width.Valid {
		out.Width = b.known.Width.Value
	} else {
		out.Width = b.clampWidth(content.Width + b.inset.Width)
	}
	if b.known.Height.Valid {
		out.Height = b.known.Height.Value
	} else {
		out.Height = b.clampHeight(content.Height + b.inset.Height)
	}
	return out
}

// contentOrigin is the offset of the content box from the border-box origin.
func (b *box) contentOrigin() geom.Point[float32] {
	return geom.Point[float32]{
		X: b.border.Left + b.padding.Left,
		Y: b.border.Top + b.padding.Top,
	}
}

func resolveSize(s geom.Size[Dim], parent geom.Size[Opt]) geom.Size[Opt] {
	return geom.Size[Opt]{
		Width:  s.Width.Resolve(parent.Width),
		Height: s.Height.Resolve(parent.Height),
	}
}

// resolveMargin resolves margins against the parent width. Auto margins
// resolve to zero and are reported separately.
func resolveMargin(m geom.Rect[Dim], parentWidth Opt) (geom.Rect[float32], geom.Rect[bool]) {
	values := geom.MapRect(m, func(d Dim) float32 { return d.ResolveOrZero(parentWidth) })
	auto := geom.MapRect(m, Dim.IsAuto)
	return values, auto
}

func applyAspectRatio(s geom.Size[Opt], ratio Opt) geom.Size[Opt] {
	if !ratio.Valid || ratio.Value <= 0 {
		return s
	}
	switch {
	case s.Width.Valid && !s.Height.Valid:
		s.Height = some(s.Width.Value / ratio.Value)
	case s.Height.Valid && !s.Width.Valid:
		s.Width = some(s.Height.Value * ratio.Value)
	}
	return s
}

// clampOpt restricts v to [lo, hi]. When lo > hi, lo wins (CSS behavior).
func clampOpt(v float32, lo, hi Opt) float32 {
	if hi.Valid && v > hi.Value {
		v = hi.Value
	}
	if lo.Valid && v < lo.Value {
		v = lo.Value
	}
	return v
}

func optSub(o Opt, v float32) Opt {
	if !o.Valid {
		return o
	}
	return some(max(0, o.Value-v))
}

func spaceFromOpt(o Opt, fallback Space) Space {
	if o.Valid {
		return Definite(o.Value)
	}
	return fallback
}

func optFromSpace(s geom.Size[Space]) geom.Size[Opt] {
	return geom.Size[Opt]{Width: s.Width.Opt(), Height: s.Height.Opt()}
}

// axis helpers: row == true means the main axis is horizontal.

func mainOf[T any](s geom.Size[T], row bool) T {
	if row {
		return s.Width
	}
	return s.Height
}

func crossOf[T any](s geom.Size[T], row bool) T {
	if row {
		return s.Height
	}
	return s.Width
}

func fromAxes[T any](main, cross T, row bool) geom.Size[T] {
	if row {
		return geom.Size[T]{Width: main, Height: cross}
	}
	return geom.Size[T]{Width: cross, Height: main}
}

func mainStart[T any](r geom.Rect[T], row bool) T {
	if row {
		return r.Left
	}
	return r.Top
}

func mainEnd[T any](r geom.Rect[T], row bool) T {
	if row {
		return r.Right
	}
	return r.Bottom
}

func crossStart[T any](r geom.Rect[T], row bool) T {
	if row {
		return r.Top
	}
	return r.Left
}

func crossEnd[T any](r geom.Rect[T], row bool) T {
	if row {
		return r.Bottom
	}
	return r.Right
}

func sumMain(r geom.Rect[float32], row bool) float32 {
	return mainStart(r, row) + mainEnd(r, row)
}

func sumCross(r geom.Rect[float32], row bool) float32 {
	return crossStart(r, row) + crossEnd(r, row)
}
