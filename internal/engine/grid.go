package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// maxAutoRepeat bounds auto-fill/auto-fit expansion for tiny track sizes.
const maxAutoRepeat = 1000

type gridTrack struct {
	min, max    TrackFunc
	base        float32
	limit       Opt // absent = infinite growth limit
	flexMax     float32
	collapsible bool
	used        bool
	pos         float32
}

func (t *gridTrack) isFlex() bool { return t.max.Kind == TrackFraction }

type gridSpan struct {
	start, span int
	definite    bool
}

func (s gridSpan) end() int { return s.start + s.span }

type gridItem struct {
	id         NodeID
	order      uint32
	style      *Style
	col, row   gridSpan
	margin     geom.Rect[float32]
	autoMargin geom.Rect[bool]
}

// computeGrid implements the grid algorithm for one container.
func (c *computer) computeGrid(id NodeID, style *Style, in Inputs) Output {
	b := resolveBox(style, in)
	innerKnown := b.innerKnown()
	innerAvail := b.innerAvailable(in.Available)

	// An auto-width grid fills definite available space like a block box.
	innerWidth := innerKnown.Width
	if !innerWidth.Valid && innerAvail.Width.IsDefinite() {
		innerWidth = some(innerAvail.Width.Value)
	}

	colGap := style.Gap.Width.Resolve(innerWidth).Or(0)
	rowGap := style.Gap.Height.Resolve(innerKnown.Height).Or(0)

	colSize := innerWidth
	if !colSize.Valid {
		colSize = optSub(b.max.Width, b.inset.Width)
	}
	rowSize := innerKnown.Height
	if !rowSize.Valid {
		rowSize = optSub(b.max.Height, b.inset.Height)
	}
	explicitCols := expandTemplate(style.GridTemplateColumns, colSize, colGap)
	explicitRows := expandTemplate(style.GridTemplateRows, rowSize, rowGap)

	var items []*gridItem
	var absolute []absChild
	for i := 0; i < c.tree.ChildCount(id); i++ {
		child := c.tree.Child(id, i)
		cs := c.tree.Style(child)
		switch {
		case cs.Display == DisplayNone:
			if in.Mode == RunPerformLayout {
				c.hide(child)
			}
			continue
		case cs.Position == PositionAbsolute:
			absolute = append(absolute, absChild{id: child, order: uint32(i)})
			continue
		}
		margin, auto := resolveMargin(cs.Margin, innerWidth)
		items = append(items, &gridItem{
			id:         child,
			order:      uint32(i),
			style:      cs,
			col:        resolveSpan(cs.GridColumn, len(explicitCols)),
			row:        resolveSpan(cs.GridRow, len(explicitRows)),
			margin:     margin,
			autoMargin: auto,
		})
	}

	nCols, nRows := placeItems(items, style.GridAutoFlow, len(explicitCols), len(explicitRows))
	cols := buildTracks(explicitCols, style.GridAutoColumns, nCols)
	rows := buildTracks(explicitRows, style.GridAutoRows, nRows)
	for _, it := range items {
		for i := it.col.start; i < it.col.end(); i++ {
			cols[i].used = true
		}
		for i := it.row.start; i < it.row.end(); i++ {
			rows[i].used = true
		}
	}

	// Columns first; rows then size against the resolved column widths.
	colContrib := func(it *gridItem, space Space) float32 {
		out := c.compute(it.id, Inputs{
			Known:     geom.Size[Opt]{Width: none(), Height: it.style.Size.Height.Resolve(innerKnown.Height)},
			Parent:    geom.Size[Opt]{Width: innerWidth, Height: innerKnown.Height},
			Available: geom.Size[Space]{Width: space, Height: innerAvail.Height},
			Mode:      RunComputeSize,
		})
		return out.Size.Width + it.margin.Left + it.margin.Right
	}
	sizeTracks(cols, items, func(it *gridItem) gridSpan { return it.col }, innerWidth, innerAvail.Width, colGap, colContrib)
	if !innerWidth.Valid {
		innerWidth = some(b.clampWidth(tracksTotal(cols, colGap)+b.inset.Width) - b.inset.Width)
	}
	stretchAutoTracks(cols, style.JustifyContent, innerWidth.Value, colGap)
	placeTracks(cols, style.JustifyContent, innerWidth.Value, colGap)

	rowContrib := func(it *gridItem, space Space) float32 {
		area := spanSize(cols, it.col, colGap) - it.margin.Left - it.margin.Right
		known := geom.Size[Opt]{Width: it.style.Size.Width.Resolve(innerWidth)}
		if !known.Width.Valid && justifySelf(it.style, style) == AlignStretch && !it.autoMargin.Left && !it.autoMargin.Right {
			known.Width = some(max(0, area))
		}
		out := c.compute(it.id, Inputs{
			Known:     known,
			Parent:    geom.Size[Opt]{Width: innerWidth, Height: innerKnown.Height},
			Available: geom.Size[Space]{Width: Definite(max(0, area)), Height: space},
			Mode:      RunComputeSize,
		})
		return out.Size.Height + it.margin.Top + it.margin.Bottom
	}
	sizeTracks(rows, items, func(it *gridItem) gridSpan { return it.row }, innerKnown.Height, innerAvail.Height, rowGap, rowContrib)
	innerHeight := innerKnown.Height
	if !innerHeight.Valid {
		innerHeight = some(b.clampHeight(tracksTotal(rows, rowGap)+b.inset.Height) - b.inset.Height)
	}
	stretchAutoTracks(rows, style.AlignContent, innerHeight.Value, rowGap)
	placeTracks(rows, style.AlignContent, innerHeight.Value, rowGap)

	size := geom.Size[float32]{
		Width:  innerWidth.Value + b.inset.Width,
		Height: innerHeight.Value + b.inset.Height,
	}
	if b.known.Width.Valid {
		size.Width = b.known.Width.Value
	}
	if b.known.Height.Valid {
		size.Height = b.known.Height.Value
	}
	if in.Mode == RunComputeSize {
		return Output{Size: size}
	}

	parent := geom.Size[Opt]{Width: innerWidth, Height: innerHeight}
	origin := b.contentOrigin()
	var extent geom.Size[float32]
	for _, it := range items {
		areaW := spanSize(cols, it.col, colGap)
		areaH := spanSize(rows, it.row, rowGap)
		x, w := c.alignGridAxis(it, style, parent, areaW, areaH, true)
		y, h := c.alignGridAxis(it, style, parent, areaW, areaH, false)
		c.compute(it.id, Inputs{
			Known:     geom.Size[Opt]{Width: some(w), Height: some(h)},
			Parent:    parent,
			Available: geom.Size[Space]{Width: Definite(w), Height: Definite(h)},
			Mode:      RunPerformLayout,
		})
		rel := relativeOffset(it.style, parent)
		at := geom.Point[float32]{
			X: origin.X + cols[it.col.start].pos + x + rel.X,
			Y: origin.Y + rows[it.row.start].pos + y + rel.Y,
		}
		c.place(it.id, at, it.order)
		extent = contentExtent(extent, at, geom.Size[float32]{Width: w, Height: h})
	}
	for _, a := range absolute {
		c.layoutAbsolute(a.id, a.order, b, size)
	}

	out := Output{Size: size, ContentSize: withEndPadding(extent, b)}
	c.store(id, b, out)
	return out
}

// alignGridAxis returns the offset within the grid area and the size of an
// item along one axis (horizontal when inline is true).
func (c *computer) alignGridAxis(it *gridItem, container *Style, parent geom.Size[Opt], areaW, areaH float32, inline bool) (float32, float32) {
	area, startM, endM := areaH, it.margin.Top, it.margin.Bottom
	startAuto, endAuto := it.autoMargin.Top, it.autoMargin.Bottom
	styled := it.style.Size.Height.Resolve(parent.Height)
	align := alignSelf(it.style, container)
	if inline {
		area, startM, endM = areaW, it.margin.Left, it.margin.Right
		startAuto, endAuto = it.autoMargin.Left, it.autoMargin.Right
		styled = it.style.Size.Width.Resolve(parent.Width)
		align = justifySelf(it.style, container)
	}
	room := max(0, area-startM-endM)

	var size float32
	switch {
	case styled.Valid:
		ib := resolveBox(it.style, Inputs{Parent: parent})
		if inline {
			size = ib.clampWidth(styled.Value)
		} else {
			size = ib.clampHeight(styled.Value)
		}
	case align == AlignStretch && !startAuto && !endAuto:
		ib := resolveBox(it.style, Inputs{Parent: parent})
		if inline {
			size = ib.clampWidth(room)
		} else {
			size = ib.clampHeight(room)
		}
	default:
		known := geom.Size[Opt]{Width: it.style.Size.Width.Resolve(parent.Width)}
		if !inline {
			// Height depends on the width the item will actually get.
			w := areaW - it.margin.Left - it.margin.Right
			if _, fw := c.alignGridAxis(it, container, parent, areaW, areaH, true); fw > 0 {
				w = fw
			}
			known.Width = some(max(0, w))
		}
		out := c.compute(it.id, Inputs{
			Known:     known,
			Parent:    parent,
			Available: geom.Size[Space]{Width: Definite(max(0, areaW-it.margin.Left-it.margin.Right)), Height: Definite(max(0, areaH-it.margin.Top-it.margin.Bottom))},
			Mode:      RunComputeSize,
		})
		size = out.Size.Height
		if inline {
			size = out.Size.Width
		}
	}

	free := area - size - startM - endM
	switch {
	case startAuto && endAuto:
		return startM + max(0, free)/2, size
	case startAuto:
		return startM + max(0, free), size
	case endAuto:
		return startM, size
	}
	switch align {
	case AlignEnd, AlignFlexEnd:
		return startM + free, size
	case AlignCenter:
		return startM + free/2, size
	}
	return startM, size
}

// justifySelf resolves the effective inline-axis alignment of a grid item.
func justifySelf(item, container *Style) Align {
	a := item.JustifySelf
	if a == AlignUnset {
		a = container.JustifyItems
	}
	if a == AlignUnset {
		a = AlignStretch
	}
	return a
}

// expandTemplate instantiates repeat() clauses of a track template. size is
// the definite inner size used to resolve auto-fill and auto-fit counts.
func expandTemplate(template []TrackList, size Opt, gap float32) []gridTrack {
	var fixedSum float32
	var fixedN int
	var repeatSum float32
	var repeatN int
	for _, l := range template {
		sum := float32(0)
		for _, t := range l.Tracks {
			sum += fixedTrackSize(t, size)
		}
		if l.Repeat && l.Rep.Kind != RepeatCount {
			repeatSum, repeatN = sum, len(l.Tracks)
			continue
		}
		n := 1
		if l.Repeat {
			n = int(l.Rep.Count)
		}
		fixedSum += sum * float32(n)
		fixedN += len(l.Tracks) * n
	}

	autoCount := 1
	if size.Valid && repeatN > 0 && repeatSum > 0 {
		total := func(k int) float32 {
			n := fixedN + k*repeatN
			return fixedSum + float32(k)*repeatSum + gap*float32(max(0, n-1))
		}
		for autoCount < maxAutoRepeat && total(autoCount+1) <= size.Value {
			autoCount++
		}
	}

	var out []gridTrack
	for _, l := range template {
		n := 1
		switch {
		case !l.Repeat:
		case l.Rep.Kind == RepeatCount:
			n = int(l.Rep.Count)
		default:
			n = autoCount
		}
		for i := 0; i < n; i++ {
			for _, t := range l.Tracks {
				out = append(out, gridTrack{
					min:         t.Min,
					max:         t.Max,
					collapsible: l.Repeat && l.Rep.Kind == RepeatAutoFit,
				})
			}
		}
	}
	return out
}

func fixedTrackSize(t TrackPair, size Opt) float32 {
	if t.Max.Kind == TrackFixed {
		if v := t.Max.Length.Resolve(size); v.Valid {
			return v.Value
		}
	}
	if t.Min.Kind == TrackFixed {
		if v := t.Min.Length.Resolve(size); v.Valid {
			return v.Value
		}
	}
	return 0
}

// resolveSpan converts a placement pair into a zero-based track span.
// Lines before the start of the explicit grid are clamped to the first line.
func resolveSpan(p geom.Line[Placement], explicit int) gridSpan {
	line := func(l int16) int {
		if l > 0 {
			return int(l) - 1
		}
		return max(0, explicit+1+int(l))
	}
	span := func(pl Placement) int {
		if pl.Kind == PlaceSpan && pl.Span > 0 {
			return int(pl.Span)
		}
		return 1
	}

	s, e := p.Start, p.End
	switch {
	case s.Kind == PlaceLine && e.Kind == PlaceLine:
		a, z := line(s.Line), line(e.Line)
		if z < a {
			a, z = z, a
		}
		if z == a {
			z = a + 1
		}
		return gridSpan{start: a, span: z - a, definite: true}
	case s.Kind == PlaceLine:
		n := 1
		if e.Kind == PlaceSpan {
			n = span(e)
		}
		return gridSpan{start: line(s.Line), span: n, definite: true}
	case e.Kind == PlaceLine:
		n := span(s)
		z := line(e.Line)
		return gridSpan{start: max(0, z-n), span: max(1, min(n, z)), definite: true}
	case s.Kind == PlaceSpan:
		return gridSpan{span: span(s)}
	default:
		return gridSpan{span: span(e)}
	}
}

type gridCell struct{ major, minor int }

// placeItems runs grid auto-placement and returns the column and row counts
// of the resulting grid.
func placeItems(items []*gridItem, flow GridAutoFlow, explicitCols, explicitRows int) (int, int) {
	column := flow.IsColumn()
	dense := flow.IsDense()
	// major is the axis new lines are added along; minor is the other.
	axes := func(it *gridItem) (*gridSpan, *gridSpan) {
		if column {
			return &it.col, &it.row
		}
		return &it.row, &it.col
	}
	minorCount := explicitCols
	if column {
		minorCount = explicitRows
	}

	occupied := map[gridCell]bool{}
	fits := func(major, minor gridSpan) bool {
		for m := major.start; m < major.end(); m++ {
			for n := minor.start; n < minor.end(); n++ {
				if occupied[gridCell{m, n}] {
					return false
				}
			}
		}
		return true
	}
	mark := func(major, minor gridSpan) {
		for m := major.start; m < major.end(); m++ {
			for n := minor.start; n < minor.end(); n++ {
				occupied[gridCell{m, n}] = true
			}
		}
	}

	for _, it := range items {
		_, minor := axes(it)
		if minor.definite {
			minorCount = max(minorCount, minor.end())
		} else {
			minorCount = max(minorCount, minor.span)
		}
	}

	// Items locked to both axes.
	for _, it := range items {
		major, minor := axes(it)
		if major.definite && minor.definite {
			mark(*major, *minor)
		}
	}

	// Items locked to a major line.
	lineCursor := map[int]int{}
	for _, it := range items {
		major, minor := axes(it)
		if !major.definite || minor.definite {
			continue
		}
		n := 0
		if !dense {
			n = lineCursor[major.start]
		}
		for {
			minor.start = n
			if minor.end() > minorCount {
				minorCount = minor.end()
			}
			if fits(*major, *minor) {
				break
			}
			n++
		}
		minor.definite = true
		mark(*major, *minor)
		lineCursor[major.start] = minor.end()
	}

	// Everything else, in order, from the auto-placement cursor.
	var curMajor, curMinor int
	for _, it := range items {
		major, minor := axes(it)
		if major.definite {
			continue
		}
		if dense {
			curMajor, curMinor = 0, 0
		}
		if minor.definite {
			if !dense && minor.start < curMinor {
				curMajor++
			}
			curMinor = minor.start
			for {
				major.start = curMajor
				if fits(*major, *minor) {
					break
				}
				curMajor++
			}
		} else {
			for {
				if curMinor+minor.span > minorCount {
					curMajor++
					curMinor = 0
					continue
				}
				major.start, minor.start = curMajor, curMinor
				if fits(*major, *minor) {
					break
				}
				curMinor++
			}
			curMinor += minor.span
		}
		major.definite, minor.definite = true, true
		mark(*major, *minor)
	}

	nCols, nRows := explicitCols, explicitRows
	for _, it := range items {
		nCols = max(nCols, it.col.end())
		nRows = max(nRows, it.row.end())
	}
	return nCols, nRows
}

// buildTracks appends implicit tracks, cycling through the auto track list.
func buildTracks(explicit []gridTrack, auto []TrackPair, count int) []*gridTrack {
	tracks := make([]*gridTrack, 0, count)
	for i := range explicit {
		tracks = append(tracks, &explicit[i])
	}
	for i := 0; len(tracks) < count; i++ {
		t := &gridTrack{
			min: TrackFunc{Kind: TrackAuto},
			max: TrackFunc{Kind: TrackAuto},
		}
		if len(auto) > 0 {
			p := auto[i%len(auto)]
			t.min, t.max = p.Min, p.Max
		}
		tracks = append(tracks, t)
	}
	return tracks
}

// sizeTracks runs the track sizing algorithm along one axis.
func sizeTracks(tracks []*gridTrack, items []*gridItem, spanOf func(*gridItem) gridSpan, size Opt, avail Space, gap float32, contrib func(*gridItem, Space) float32) {
	// Initialize base sizes and growth limits.
	for _, t := range tracks {
		t.base, t.limit, t.flexMax = 0, none(), 0
		if t.min.Kind == TrackFixed {
			t.base = t.min.Length.Resolve(size).Or(0)
		}
		if t.max.Kind == TrackFixed {
			if v := t.max.Length.Resolve(size); v.Valid {
				t.limit = some(max(v.Value, t.base))
			}
		}
		if t.collapsible && !t.used {
			t.base, t.limit = 0, some(0)
		}
	}

	intrinsicMin := func(t *gridTrack) bool {
		k := t.min.Kind
		return k == TrackAuto || k == TrackMinContent || k == TrackMaxContent ||
			(k == TrackFixed && !t.min.Length.Resolve(size).Valid)
	}
	intrinsicMax := func(t *gridTrack) bool {
		k := t.max.Kind
		return k == TrackAuto || k == TrackMinContent || k == TrackMaxContent || k == TrackFitContent ||
			(k == TrackFixed && !t.max.Length.Resolve(size).Valid)
	}

	// Single-span items.
	for _, it := range items {
		sp := spanOf(it)
		if sp.span != 1 {
			continue
		}
		t := tracks[sp.start]
		if t.collapsible && !t.used {
			continue
		}
		minC := contrib(it, MinContent())
		maxC := contrib(it, MaxContent())
		if intrinsicMin(t) {
			if t.min.Kind == TrackMaxContent {
				t.base = max(t.base, maxC)
			} else {
				t.base = max(t.base, minC)
			}
		}
		switch {
		case t.isFlex():
			t.flexMax = max(t.flexMax, maxC)
		case intrinsicMax(t):
			v := maxC
			switch t.max.Kind {
			case TrackMinContent:
				v = minC
			case TrackFitContent:
				v = min(maxC, max(minC, t.max.Length.Resolve(size).Or(maxC)))
			}
			if t.limit.Valid {
				t.limit = some(max(t.limit.Value, v))
			} else {
				t.limit = some(v)
			}
		}
	}

	// Items spanning several non-flexible tracks.
	for _, it := range items {
		sp := spanOf(it)
		if sp.span < 2 {
			continue
		}
		spanned := tracks[sp.start:sp.end()]
		var crossesFlex bool
		for _, t := range spanned {
			crossesFlex = crossesFlex || t.isFlex()
		}
		if crossesFlex {
			continue
		}
		gaps := gap * float32(sp.span-1)

		var baseSum float32
		var grow []*gridTrack
		for _, t := range spanned {
			baseSum += t.base
			if intrinsicMin(t) {
				grow = append(grow, t)
			}
		}
		if len(grow) == 0 {
			grow = spanned
		}
		if extra := contrib(it, MinContent()) - baseSum - gaps; extra > 0 {
			share := extra / float32(len(grow))
			for _, t := range grow {
				t.base += share
			}
		}

		var limitSum float32
		var growLimit []*gridTrack
		for _, t := range spanned {
			limitSum += t.limit.Or(t.base)
			if intrinsicMax(t) {
				growLimit = append(growLimit, t)
			}
		}
		if len(growLimit) > 0 {
			if extra := contrib(it, MaxContent()) - limitSum - gaps; extra > 0 {
				share := extra / float32(len(growLimit))
				for _, t := range growLimit {
					t.limit = some(t.limit.Or(t.base) + share)
				}
			}
		}
	}

	for _, t := range tracks {
		if !t.limit.Valid || t.limit.Value < t.base {
			t.limit = some(t.base)
		}
	}

	// Maximize tracks.
	switch {
	case size.Valid:
		free := size.Value - tracksTotal(tracks, gap)
		for free > 0.001 {
			var growable []*gridTrack
			for _, t := range tracks {
				if !t.isFlex() && t.base < t.limit.Value {
					growable = append(growable, t)
				}
			}
			if len(growable) == 0 {
				break
			}
			share := free / float32(len(growable))
			for _, t := range growable {
				step := min(share, t.limit.Value-t.base)
				t.base += step
				free -= step
			}
		}
	case avail.Kind == SpaceMaxContent:
		for _, t := range tracks {
			if !t.isFlex() {
				t.base = t.limit.Value
			}
		}
	}

	// Expand flexible tracks.
	var frSum float32
	for _, t := range tracks {
		if t.isFlex() {
			frSum += t.max.Fr
		}
	}
	if frSum == 0 {
		return
	}
	var unit float32
	if size.Valid {
		leftover := size.Value - gap*float32(max(0, len(tracks)-1))
		for _, t := range tracks {
			if !t.isFlex() {
				leftover -= t.base
			}
		}
		unit = max(0, leftover) / max(1, frSum)
	} else {
		for _, t := range tracks {
			if t.isFlex() && t.max.Fr > 0 {
				need := max(t.base, t.flexMax)
				if t.max.Fr < 1 {
					unit = max(unit, need)
				} else {
					unit = max(unit, need/t.max.Fr)
				}
			}
		}
	}
	for _, t := range tracks {
		if t.isFlex() {
			t.base = max(t.base, unit*t.max.Fr)
			t.limit = some(t.base)
		}
	}
}

// stretchAutoTracks grows tracks with an auto max bound into free space.
func stretchAutoTracks(tracks []*gridTrack, content Content, size, gap float32) {
	if content != ContentUnset && content != ContentStretch {
		return
	}
	free := size - tracksTotal(tracks, gap)
	if free <= 0 {
		return
	}
	var auto []*gridTrack
	for _, t := range tracks {
		if t.isFlex() {
			return
		}
		if t.max.Kind == TrackAuto && !(t.collapsible && !t.used) {
			auto = append(auto, t)
		}
	}
	if len(auto) == 0 {
		return
	}
	share := free / float32(len(auto))
	for _, t := range auto {
		t.base += share
	}
}

// placeTracks computes the offset of each track from the content origin.
func placeTracks(tracks []*gridTrack, content Content, size, gap float32) {
	free := size - tracksTotal(tracks, gap)
	offset, between := distribute(content, free, len(tracks), false)
	pos := offset
	for _, t := range tracks {
		t.pos = pos
		pos += t.base + gap + between
	}
}

func tracksTotal(tracks []*gridTrack, gap float32) float32 {
	var total float32
	for _, t := range tracks {
		total += t.base
	}
	return total + gap*float32(max(0, len(tracks)-1))
}

func spanSize(tracks []*gridTrack, sp gridSpan, gap float32) float32 {
	var total float32
	for i := sp.start; i < sp.end() && i < len(tracks); i++ {
		total += tracks[i].base
	}
	return total + gap*float32(max(0, sp.span-1))
}
