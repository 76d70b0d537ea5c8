package engine

import "github.com/matzehuels/boxtree/pkg/geom"

// Unit tags the representation of a length value.
type Unit uint8

const (
	UnitAuto    Unit = iota // Determined by the algorithm
	UnitPoints              // Absolute length
	UnitPercent             // Fraction of the parent size (0.5 = 50%)
)

// Dim is a length that may be absolute, relative or automatic. It backs
// dimensions, length-percentages and length-percentage-autos alike; the
// conversion layer guarantees a length-percentage never carries UnitAuto.
type Dim struct {
	Unit  Unit
	Value float32
}

// Points returns an absolute Dim.
func Points(v float32) Dim { return Dim{Unit: UnitPoints, Value: v} }

// Percent returns a relative Dim. f is a fraction (0.5 = 50%).
func Percent(f float32) Dim { return Dim{Unit: UnitPercent, Value: f} }

// Auto returns an automatic Dim.
func Auto() Dim { return Dim{Unit: UnitAuto} }

// Resolve converts d to an absolute value against parent.
// Percentages of an unknown parent and auto values resolve to absent.
func (d Dim) Resolve(parent Opt) Opt {
	switch d.Unit {
	case UnitPoints:
		return some(d.Value)
	case UnitPercent:
		if parent.Valid {
			return some(d.Value * parent.Value)
		}
	}
	return none()
}

// ResolveOrZero is Resolve with absent values treated as zero.
func (d Dim) ResolveOrZero(parent Opt) float32 {
	return d.Resolve(parent).Or(0)
}

// IsAuto reports whether d is automatic.
func (d Dim) IsAuto() bool { return d.Unit == UnitAuto }

// SpaceKind tags an AvailableSpace value.
type SpaceKind uint8

const (
	SpaceDefinite SpaceKind = iota
	SpaceMinContent
	SpaceMaxContent
)

// Space is the amount of space available to a node along one axis.
type Space struct {
	Kind  SpaceKind
	Value float32
}

// Definite returns a definite amount of available space.
func Definite(v float32) Space { return Space{Kind: SpaceDefinite, Value: v} }

// MinContent returns the min-content constraint.
func MinContent() Space { return Space{Kind: SpaceMinContent} }

// MaxContent returns the max-content constraint.
func MaxContent() Space { return Space{Kind: SpaceMaxContent} }

// Opt returns the definite value, if any.
func (s Space) Opt() Opt {
	if s.Kind == SpaceDefinite {
		return some(s.Value)
	}
	return none()
}

// IsDefinite reports whether s carries a definite amount.
func (s Space) IsDefinite() bool { return s.Kind == SpaceDefinite }

// Sub shrinks a definite amount by v, never below zero. Content-based
// constraints are returned unchanged.
func (s Space) Sub(v float32) Space {
	if s.Kind != SpaceDefinite {
		return s
	}
	return Definite(max(0, s.Value-v))
}

// TrackKind tags one bound of a grid track sizing function.
type TrackKind uint8

const (
	TrackAuto TrackKind = iota
	TrackFixed
	TrackMinContent
	TrackMaxContent
	TrackFitContent // max bound only
	TrackFraction   // max bound only
)

// TrackFunc is one bound of a track sizing function. Length is used by
// TrackFixed and TrackFitContent, Fr by TrackFraction.
type TrackFunc struct {
	Kind   TrackKind
	Length Dim
	Fr     float32
}

// TrackPair is a non-repeated track: minmax(min, max).
type TrackPair = geom.MinMax[TrackFunc, TrackFunc]

// RepeatKind tags how many times a repeated track list is instantiated.
type RepeatKind uint8

const (
	RepeatCount RepeatKind = iota
	RepeatAutoFill
	RepeatAutoFit
)

// Repetition is the first argument of repeat().
type Repetition struct {
	Kind  RepeatKind
	Count uint16
}

// TrackList is one entry of a grid template: either a single track
// (Repeat false, exactly one element in Tracks) or a repeat() clause.
type TrackList struct {
	Repeat bool
	Rep    Repetition
	Tracks []TrackPair
}

// PlaceKind tags a grid placement.
type PlaceKind uint8

const (
	PlaceAuto PlaceKind = iota
	PlaceLine
	PlaceSpan
)

// Placement positions one edge of a grid item. Line is 1-based and may be
// negative (counting from the end of the explicit grid); it is never zero.
type Placement struct {
	Kind PlaceKind
	Line int16
	Span uint16
}

// Display selects the formatting context of a node.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayGrid
	DisplayBlock
	DisplayNone
)

// Position selects in-flow or absolute positioning.
type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

// Overflow controls how content overflowing a node is treated.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowHidden
	OverflowScroll
)

// IsScrollContainer reports whether o makes a node a scroll container.
func (o Overflow) IsScrollContainer() bool {
	return o == OverflowHidden || o == OverflowScroll
}

// FlexDirection selects the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

// IsRow reports whether the main axis is horizontal.
func (d FlexDirection) IsRow() bool { return d == FlexRow || d == FlexRowReverse }

// IsReverse reports whether items run from main-end to main-start.
func (d FlexDirection) IsReverse() bool { return d == FlexRowReverse || d == FlexColumnReverse }

// FlexWrap controls line breaking in a flex container.
type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

// Align is used for align-items, align-self, justify-items and
// justify-self. AlignUnset means the property was not specified.
type Align uint8

const (
	AlignUnset Align = iota
	AlignStart
	AlignEnd
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
)

// Content is used for align-content and justify-content. ContentUnset
// means the property was not specified.
type Content uint8

const (
	ContentUnset Content = iota
	ContentStart
	ContentEnd
	ContentFlexStart
	ContentFlexEnd
	ContentCenter
	ContentStretch
	ContentSpaceBetween
	ContentSpaceEvenly
	ContentSpaceAround
)

// GridAutoFlow controls the grid auto-placement algorithm.
type GridAutoFlow uint8

const (
	FlowRow GridAutoFlow = iota
	FlowColumn
	FlowRowDense
	FlowColumnDense
)

// IsColumn reports whether items are placed column by column.
func (f GridAutoFlow) IsColumn() bool { return f == FlowColumn || f == FlowColumnDense }

// IsDense reports whether the dense packing algorithm is used.
func (f GridAutoFlow) IsDense() bool { return f == FlowRowDense || f == FlowColumnDense }

// Style is the internal representation of every layout property of a node.
type Style struct {
	Display        Display
	Position       Position
	Overflow       geom.Point[Overflow]
	ScrollbarWidth float32
	Inset          geom.Rect[Dim]

	Size        geom.Size[Dim]
	MinSize     geom.Size[Dim]
	MaxSize     geom.Size[Dim]
	AspectRatio Opt

	Margin  geom.Rect[Dim]
	Padding geom.Rect[Dim]
	Border  geom.Rect[Dim]

	AlignItems     Align
	AlignSelf      Align
	JustifyItems   Align
	JustifySelf    Align
	AlignContent   Content
	JustifyContent Content
	Gap            geom.Size[Dim]

	FlexDirection FlexDirection
	FlexWrap      FlexWrap
	FlexBasis     Dim
	FlexGrow      float32
	FlexShrink    float32

	GridTemplateRows    []TrackList
	GridTemplateColumns []TrackList
	GridAutoRows        []TrackPair
	GridAutoColumns     []TrackPair
	GridAutoFlow        GridAutoFlow
	GridRow             geom.Line[Placement]
	GridColumn          geom.Line[Placement]
}

// DefaultStyle returns the initial values of every property.
func DefaultStyle() Style {
	return Style{
		Display:    DisplayFlex,
		Inset:      geom.Edges(Auto()),
		Size:       geom.Uniform(Auto()),
		MinSize:    geom.Uniform(Auto()),
		MaxSize:    geom.Uniform(Auto()),
		Margin:     geom.Edges(Points(0)),
		Padding:    geom.Edges(Points(0)),
		Border:     geom.Edges(Points(0)),
		Gap:        geom.Uniform(Points(0)),
		FlexBasis:  Auto(),
		FlexShrink: 1,
	}
}

// Clone returns a deep copy of s. Track lists are copied so the clone can be
// mutated independently.
func (s *Style) Clone() Style {
	c := *s
	c.GridTemplateRows = cloneTrackLists(s.GridTemplateRows)
	c.GridTemplateColumns = cloneTrackLists(s.GridTemplateColumns)
	if s.GridAutoRows != nil {
		c.GridAutoRows = append([]TrackPair(nil), s.GridAutoRows...)
	}
	if s.GridAutoColumns != nil {
		c.GridAutoColumns = append([]TrackPair(nil), s.GridAutoColumns...)
	}
	return c
}

func cloneTrackLists(in []TrackList) []TrackList {
	if in == nil {
		return nil
	}
	out := make([]TrackList, len(in))
	for i, l := range in {
		out[i] = l
		out[i].Tracks = append([]TrackPair(nil), l.Tracks...)
	}
	return out
}
