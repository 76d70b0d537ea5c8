package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// flexItem is an in-flow child of a flex container. Sizes are border-box
// sizes; main/cross refer to the container's axes.
type flexItem struct {
	id    NodeID
	order uint32
	style *Style

	margin     geom.Rect[float32]
	autoMargin geom.Rect[bool]
	size       geom.Size[Opt]
	min        geom.Size[Opt]
	max        geom.Size[Opt]
	floor      geom.Size[float32] // padding + border + scrollbar

	basis     float32
	hypoMain  float32
	target    float32
	frozen    bool
	violation float32

	hypoCross float32
	cross     float32

	mainPos  float32
	crossPos float32
}

func (it *flexItem) marginMain(row bool) float32  { return sumMain(it.margin, row) }
func (it *flexItem) marginCross(row bool) float32 { return sumCross(it.margin, row) }

func (it *flexItem) clampMain(v float32, row bool) float32 {
	return max(clampOpt(v, mainOf(it.min, row), mainOf(it.max, row)), mainOf(it.floor, row))
}

func (it *flexItem) clampCross(v float32, row bool) float32 {
	return max(clampOpt(v, crossOf(it.min, row), crossOf(it.max, row)), crossOf(it.floor, row))
}

type flexLine struct {
	items []*flexItem
	cross float32
	pos   float32
}

// computeFlex implements the flexbox algorithm for one container.
func (c *computer) computeFlex(id NodeID, style *Style, in Inputs) Output {
	b := resolveBox(style, in)
	row := style.FlexDirection.IsRow()
	innerKnown := b.innerKnown()
	innerAvail := b.innerAvailable(in.Available)

	mainGap := mainOf(style.Gap, row).Resolve(mainOf(innerKnown, row)).Or(0)
	crossGap := crossOf(style.Gap, row).Resolve(crossOf(innerKnown, row)).Or(0)

	items, absolute := c.collectFlexItems(id, innerKnown, in.Mode)

	// Single-line containers stretch items to a definite container cross
	// size before measuring them.
	singleLine := style.FlexWrap == NoWrap
	for _, it := range items {
		c.flexBasis(it, style, innerKnown, innerAvail, row, singleLine)
	}

	mainAvail := mainOf(innerAvail, row)
	lines := breakLines(items, style.FlexWrap, mainAvail, mainGap, row)

	// Container main size.
	innerMain := none()
	if k := mainOf(innerKnown, row); k.Valid {
		innerMain = k
	}
	if !innerMain.Valid {
		var longest float32
		for _, l := range lines {
			longest = max(longest, lineOuterHypo(l, mainGap, row))
		}
		if len(lines) > 1 && mainAvail.IsDefinite() {
			longest = max(longest, mainAvail.Value)
		}
		insetMain := mainOf(b.inset, row)
		var outer float32
		if row {
			outer = b.clampWidth(longest + insetMain)
		} else {
			outer = b.clampHeight(longest + insetMain)
		}
		innerMain = some(outer - insetMain)
	}

	for _, l := range lines {
		resolveFlexibleLengths(l, innerMain.Value, mainGap, row)
	}

	// Hypothetical cross sizes.
	containerCross := crossOf(innerKnown, row)
	for _, it := range items {
		c.hypotheticalCross(it, innerMain.Value, containerCross, crossOf(innerAvail, row), row)
	}

	for _, l := range lines {
		var lc float32
		for _, it := range l.items {
			lc = max(lc, it.hypoCross+it.marginCross(row))
		}
		l.cross = lc
	}
	if singleLine && len(lines) == 1 {
		if containerCross.Valid {
			lines[0].cross = containerCross.Value
		} else {
			minC := optSub(crossOf(b.min, row), crossOf(b.inset, row))
			maxC := optSub(crossOf(b.max, row), crossOf(b.inset, row))
			lines[0].cross = clampOpt(lines[0].cross, minC, maxC)
		}
	}

	// Container cross size.
	innerCross := containerCross
	if !innerCross.Valid {
		total := crossGap * float32(max(0, len(lines)-1))
		for _, l := range lines {
			total += l.cross
		}
		insetCross := crossOf(b.inset, row)
		var outer float32
		if row {
			outer = b.clampHeight(total + insetCross)
		} else {
			outer = b.clampWidth(total + insetCross)
		}
		innerCross = some(outer - insetCross)
	}

	innerSize := fromAxes(innerMain.Value, innerCross.Value, row)
	outerSize := geom.Size[float32]{
		Width:  innerSize.Width + b.inset.Width,
		Height: innerSize.Height + b.inset.Height,
	}

	if in.Mode == RunComputeSize {
		return Output{Size: outerSize}
	}

	// align-content: stretch lines into leftover cross space.
	content := style.AlignContent
	if content == ContentUnset {
		content = ContentStretch
	}
	freeCross := innerCross.Value - crossGap*float32(max(0, len(lines)-1))
	for _, l := range lines {
		freeCross -= l.cross
	}
	if !singleLine && content == ContentStretch && freeCross > 0 && len(lines) > 0 {
		extra := freeCross / float32(len(lines))
		for _, l := range lines {
			l.cross += extra
		}
		freeCross = 0
	}
	if singleLine && len(lines) == 1 {
		lines[0].cross = innerCross.Value
		freeCross = 0
	}

	// Stretch items and perform their final layout.
	parent := geom.Size[Opt]{Width: some(innerSize.Width), Height: some(innerSize.Height)}
	for _, l := range lines {
		for _, it := range l.items {
			if alignSelf(it.style, style) == AlignStretch && !crossOf(it.size, row).Valid &&
				!crossStart(it.autoMargin, row) && !crossEnd(it.autoMargin, row) {
				it.cross = it.clampCross(l.cross-it.marginCross(row), row)
			}
			c.compute(it.id, Inputs{
				Known:     fromAxes(some(it.target), some(it.cross), row),
				Parent:    parent,
				Available: fromAxes(Definite(it.target), Definite(it.cross), row),
				Mode:      RunPerformLayout,
			})
		}
	}

	// Main axis positions within each line.
	for _, l := range lines {
		justifyLine(l, style.JustifyContent, innerMain.Value, mainGap, row)
	}

	// Cross axis positions of lines, then of items within lines.
	offset, between := distribute(content, freeCross, len(lines), singleLine)
	pos := offset
	for _, l := range lines {
		l.pos = pos
		pos += l.cross + crossGap + between
		for _, it := range l.items {
			alignInLine(it, l, style, row)
		}
	}

	origin := b.contentOrigin()
	var extent geom.Size[float32]
	for _, l := range lines {
		for _, it := range l.items {
			mainPos := it.mainPos
			if style.FlexDirection.IsReverse() {
				mainPos = innerMain.Value - it.mainPos - it.target
			}
			crossPos := l.pos + it.crossPos
			if style.FlexWrap == WrapReverse {
				crossPos = innerCross.Value - crossPos - it.cross
			}
			local := fromAxes(mainPos, crossPos, row)
			rel := relativeOffset(it.style, parent)
			at := geom.Point[float32]{
				X: origin.X + local.Width + rel.X,
				Y: origin.Y + local.Height + rel.Y,
			}
			c.place(it.id, at, it.order)
			extent = contentExtent(extent, at, c.tree.UnroundedLayout(it.id).Size)
		}
	}

	for _, a := range absolute {
		c.layoutAbsolute(a.id, a.order, b, outerSize)
	}

	out := Output{Size: outerSize, ContentSize: withEndPadding(extent, b)}
	c.store(id, b, out)
	return out
}

type absChild struct {
	id    NodeID
	order uint32
}

// collectFlexItems splits the children of id into in-flow items and
// absolutely positioned children. display:none children are hidden.
func (c *computer) collectFlexItems(id NodeID, innerKnown geom.Size[Opt], mode RunMode) ([]*flexItem, []absChild) {
	var items []*flexItem
	var absolute []absChild
	for i := 0; i < c.tree.ChildCount(id); i++ {
		child := c.tree.Child(id, i)
		cs := c.tree.Style(child)
		switch {
		case cs.Display == DisplayNone:
			if mode == RunPerformLayout {
				c.hide(child)
			}
			continue
		case cs.Position == PositionAbsolute:
			absolute = append(absolute, absChild{id: child, order: uint32(i)})
			continue
		}
		margin, auto := resolveMargin(cs.Margin, innerKnown.Width)
		cb := resolveBox(cs, Inputs{Parent: innerKnown})
		items = append(items, &flexItem{
			id:         child,
			order:      uint32(i),
			style:      cs,
			margin:     margin,
			autoMargin: auto,
			size:       applyAspectRatio(resolveSize(cs.Size, innerKnown), cs.AspectRatio),
			min:        resolveSize(cs.MinSize, innerKnown),
			max:        resolveSize(cs.MaxSize, innerKnown),
			floor:      cb.inset,
		})
	}
	return items, absolute
}

// flexBasis determines the flex base size, automatic minimum size and
// hypothetical main size of it.
func (c *computer) flexBasis(it *flexItem, container *Style, innerKnown geom.Size[Opt], innerAvail geom.Size[Space], row, singleLine bool) {
	knownCross := crossOf(it.size, row)
	if !knownCross.Valid && singleLine && crossOf(innerKnown, row).Valid &&
		alignSelf(it.style, container) == AlignStretch &&
		!crossStart(it.autoMargin, row) && !crossEnd(it.autoMargin, row) {
		knownCross = some(it.clampCross(crossOf(innerKnown, row).Value-it.marginCross(row), row))
	}
	crossAvail := crossOf(innerAvail, row).Sub(it.marginCross(row))

	measureMain := func(space Space, contentOnly bool) float32 {
		out := c.compute(it.id, Inputs{
			Known:       fromAxes(none(), knownCross, row),
			Parent:      innerKnown,
			Available:   fromAxes(space, crossAvail, row),
			Mode:        RunComputeSize,
			ContentOnly: contentOnly,
		})
		return mainOf(out.Size, row)
	}

	switch basis := it.style.FlexBasis.Resolve(mainOf(innerKnown, row)); {
	case basis.Valid:
		it.basis = basis.Value
	case mainOf(it.size, row).Valid:
		it.basis = mainOf(it.size, row).Value
	default:
		it.basis = measureMain(MaxContent(), false)
	}
	it.basis = max(it.basis, mainOf(it.floor, row))

	// Automatic minimum size for items that are not scroll containers.
	overflow := it.style.Overflow.X
	if !row {
		overflow = it.style.Overflow.Y
	}
	if !mainOf(it.min, row).Valid && !overflow.IsScrollContainer() {
		auto := measureMain(MinContent(), true)
		if s := mainOf(it.size, row); s.Valid {
			auto = min(auto, s.Value)
		}
		if m := mainOf(it.max, row); m.Valid {
			auto = min(auto, m.Value)
		}
		if row {
			it.min.Width = some(auto)
		} else {
			it.min.Height = some(auto)
		}
	}

	it.hypoMain = it.clampMain(it.basis, row)
}

// breakLines collects items into flex lines.
func breakLines(items []*flexItem, wrap FlexWrap, avail Space, gap float32, row bool) []*flexLine {
	if len(items) == 0 {
		return []*flexLine{{}}
	}
	if wrap == NoWrap || avail.Kind == SpaceMaxContent {
		return []*flexLine{{items: items}}
	}
	var lines []*flexLine
	if avail.Kind == SpaceMinContent {
		for _, it := range items {
			lines = append(lines, &flexLine{items: []*flexItem{it}})
		}
		return lines
	}
	cur := &flexLine{}
	var used float32
	for _, it := range items {
		outer := it.hypoMain + it.marginMain(row)
		if len(cur.items) > 0 && used+gap+outer > avail.Value {
			lines = append(lines, cur)
			cur = &flexLine{}
			used = 0
		}
		if len(cur.items) > 0 {
			used += gap
		}
		used += outer
		cur.items = append(cur.items, it)
	}
	return append(lines, cur)
}

func lineOuterHypo(l *flexLine, gap float32, row bool) float32 {
	var total float32
	for i, it := range l.items {
		if i > 0 {
			total += gap
		}
		total += it.hypoMain + it.marginMain(row)
	}
	return total
}

// resolveFlexibleLengths distributes free space among the items of a line,
// freezing items that hit their min or max constraints.
func resolveFlexibleLengths(l *flexLine, innerMain, gap float32, row bool) {
	if len(l.items) == 0 {
		return
	}
	gaps := gap * float32(len(l.items)-1)
	growing := lineOuterHypo(l, gap, row) < innerMain

	for _, it := range l.items {
		factor := it.style.FlexShrink
		if growing {
			factor = it.style.FlexGrow
		}
		it.frozen = false
		it.target = it.basis
		if factor == 0 || (growing && it.basis > it.hypoMain) || (!growing && it.basis < it.hypoMain) {
			it.frozen = true
			it.target = it.hypoMain
		}
	}

	used := func() float32 {
		total := gaps
		for _, it := range l.items {
			if it.frozen {
				total += it.target + it.marginMain(row)
			} else {
				total += it.basis + it.marginMain(row)
			}
		}
		return total
	}
	initialFree := innerMain - used()

	for {
		var unfrozen []*flexItem
		for _, it := range l.items {
			if !it.frozen {
				unfrozen = append(unfrozen, it)
			}
		}
		if len(unfrozen) == 0 {
			return
		}

		free := innerMain - used()
		var sumGrow, sumShrink, sumScaled float32
		for _, it := range unfrozen {
			sumGrow += it.style.FlexGrow
			sumShrink += it.style.FlexShrink
			sumScaled += it.style.FlexShrink * it.basis
		}
		sum := sumShrink
		if growing {
			sum = sumGrow
		}
		if sum < 1 {
			if scaled := initialFree * sum; abs(scaled) < abs(free) {
				free = scaled
			}
		}

		for _, it := range unfrozen {
			switch {
			case free == 0:
				it.target = it.basis
			case growing:
				it.target = it.basis + free*it.style.FlexGrow/sumGrow
			case sumScaled > 0:
				it.target = it.basis + free*(it.style.FlexShrink*it.basis)/sumScaled
			default:
				it.target = it.basis
			}
		}

		var total float32
		for _, it := range unfrozen {
			clamped := it.clampMain(it.target, row)
			it.violation = clamped - it.target
			it.target = clamped
			total += it.violation
		}
		for _, it := range unfrozen {
			switch {
			case total == 0:
				it.frozen = true
			case total > 0 && it.violation > 0:
				it.frozen = true
			case total < 0 && it.violation < 0:
				it.frozen = true
			}
		}
	}
}

// hypotheticalCross sizes an item along the cross axis given its final main size.
func (c *computer) hypotheticalCross(it *flexItem, innerMain float32, containerCross Opt, crossAvail Space, row bool) {
	if s := crossOf(it.size, row); s.Valid {
		it.hypoCross = it.clampCross(s.Value, row)
		it.cross = it.hypoCross
		return
	}
	parent := fromAxes(some(innerMain), containerCross, row)
	out := c.compute(it.id, Inputs{
		Known:     fromAxes(some(it.target), none(), row),
		Parent:    parent,
		Available: fromAxes(Definite(it.target), crossAvail.Sub(it.marginCross(row)), row),
		Mode:      RunComputeSize,
	})
	it.hypoCross = it.clampCross(crossOf(out.Size, row), row)
	it.cross = it.hypoCross
}

// justifyLine sets the main axis offset of each item in l, measured from the
// main-start edge of the content box.
func justifyLine(l *flexLine, justify Content, innerMain, gap float32, row bool) {
	n := len(l.items)
	if n == 0 {
		return
	}
	free := innerMain - gap*float32(n-1)
	for _, it := range l.items {
		free -= it.target + it.marginMain(row)
	}

	var autos int
	for _, it := range l.items {
		if mainStart(it.autoMargin, row) {
			autos++
		}
		if mainEnd(it.autoMargin, row) {
			autos++
		}
	}
	if free > 0 && autos > 0 {
		share := free / float32(autos)
		pos := float32(0)
		for _, it := range l.items {
			if mainStart(it.autoMargin, row) {
				pos += share
			}
			it.mainPos = pos + mainStart(it.margin, row)
			pos = it.mainPos + it.target + mainEnd(it.margin, row) + gap
			if mainEnd(it.autoMargin, row) {
				pos += share
			}
		}
		return
	}

	offset, between := distribute(justify, free, n, false)
	pos := offset
	for _, it := range l.items {
		it.mainPos = pos + mainStart(it.margin, row)
		pos = it.mainPos + it.target + mainEnd(it.margin, row) + gap + between
	}
}

// distribute returns the leading offset and the extra spacing between n
// boxes for a content-distribution value and free space.
func distribute(c Content, free float32, n int, single bool) (float32, float32) {
	if n == 0 || single {
		return 0, 0
	}
	switch c {
	case ContentEnd, ContentFlexEnd:
		return free, 0
	case ContentCenter:
		return free / 2, 0
	case ContentSpaceBetween:
		if free <= 0 || n == 1 {
			return 0, 0
		}
		return 0, free / float32(n-1)
	case ContentSpaceAround:
		if free <= 0 {
			return free / 2, 0
		}
		between := free / float32(n)
		return between / 2, between
	case ContentSpaceEvenly:
		if free <= 0 {
			return free / 2, 0
		}
		between := free / float32(n+1)
		return between, between
	}
	return 0, 0
}

// alignInLine sets the cross axis offset of it within its line.
func alignInLine(it *flexItem, l *flexLine, container *Style, row bool) {
	free := l.cross - it.cross - it.marginCross(row)
	startAuto, endAuto := crossStart(it.autoMargin, row), crossEnd(it.autoMargin, row)
	switch {
	case startAuto && endAuto:
		it.crossPos = crossStart(it.margin, row) + max(0, free)/2
		return
	case startAuto:
		it.crossPos = crossStart(it.margin, row) + max(0, free)
		return
	case endAuto:
		it.crossPos = crossStart(it.margin, row)
		return
	}
	switch alignSelf(it.style, container) {
	case AlignEnd, AlignFlexEnd:
		it.crossPos = crossStart(it.margin, row) + free
	case AlignCenter:
		it.crossPos = crossStart(it.margin, row) + free/2
	default:
		it.crossPos = crossStart(it.margin, row)
	}
}

// alignSelf resolves the effective alignment of an item in container.
func alignSelf(item, container *Style) Align {
	a := item.AlignSelf
	if a == AlignUnset {
		a = container.AlignItems
	}
	if a == AlignUnset {
		a = AlignStretch
	}
	return a
}

// withEndPadding extends the children extent by the trailing padding.
func withEndPadding(extent geom.Size[float32], b box) geom.Size[float32] {
	if extent.Width == 0 && extent.Height == 0 {
		return extent
	}
	return geom.Size[float32]{
		Width:  extent.Width + b.padding.Right,
		Height: extent.Height + b.padding.Bottom,
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
