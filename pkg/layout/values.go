package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/boxtree/pkg/geom"
)

// =============================================================================
// Lengths
// =============================================================================

// DimensionKind tags the unit of a length value.
type DimensionKind uint8

const (
	KindLength  DimensionKind = iota // Absolute length in points
	KindPercent                      // Fraction of the parent size (0.5 = 50%)
	KindAuto                         // Determined by the layout algorithm
)

// Dimension is a length used for sizes, insets and flex basis.
type Dimension struct {
	Kind  DimensionKind `json:"kind"`
	Value float32       `json:"value"`
}

// Length returns an absolute Dimension.
func Length(v float32) Dimension { return Dimension{Kind: KindLength, Value: v} }

// Percent returns a relative Dimension. f is a fraction: 0.5 means 50%.
func Percent(f float32) Dimension { return Dimension{Kind: KindPercent, Value: f} }

// Auto returns the automatic Dimension.
func Auto() Dimension { return Dimension{Kind: KindAuto} }

func (d Dimension) String() string { return formatLength(d.Kind, d.Value) }

// LengthPercentage is a length that may not be auto, used for padding,
// border, gap and fixed track sizes. Its Kind is KindLength or KindPercent.
type LengthPercentage struct {
	Kind  DimensionKind `json:"kind"`
	Value float32       `json:"value"`
}

// LP returns an absolute LengthPercentage.
func LP(v float32) LengthPercentage { return LengthPercentage{Kind: KindLength, Value: v} }

// LPPercent returns a relative LengthPercentage.
func LPPercent(f float32) LengthPercentage { return LengthPercentage{Kind: KindPercent, Value: f} }

func (l LengthPercentage) String() string { return formatLength(l.Kind, l.Value) }

// LengthPercentageAuto is a length that may be auto, used for margins.
type LengthPercentageAuto struct {
	Kind  DimensionKind `json:"kind"`
	Value float32       `json:"value"`
}

// LPA returns an absolute LengthPercentageAuto.
func LPA(v float32) LengthPercentageAuto { return LengthPercentageAuto{Kind: KindLength, Value: v} }

// LPAPercent returns a relative LengthPercentageAuto.
func LPAPercent(f float32) LengthPercentageAuto {
	return LengthPercentageAuto{Kind: KindPercent, Value: f}
}

// LPAAuto returns the automatic LengthPercentageAuto.
func LPAAuto() LengthPercentageAuto { return LengthPercentageAuto{Kind: KindAuto} }

func (l LengthPercentageAuto) String() string { return formatLength(l.Kind, l.Value) }

// ParseDimension parses "auto", a percentage such as "50%", or a length such
// as "12" or "12px".
func ParseDimension(s string) (Dimension, error) {
	kind, v, err := parseLength(s, true)
	return Dimension{Kind: kind, Value: v}, err
}

// ParseLengthPercentage parses a percentage or a length; "auto" is rejected.
func ParseLengthPercentage(s string) (LengthPercentage, error) {
	kind, v, err := parseLength(s, false)
	return LengthPercentage{Kind: kind, Value: v}, err
}

// ParseLengthPercentageAuto parses "auto", a percentage or a length.
func ParseLengthPercentageAuto(s string) (LengthPercentageAuto, error) {
	kind, v, err := parseLength(s, true)
	return LengthPercentageAuto{Kind: kind, Value: v}, err
}

func parseLength(s string, allowAuto bool) (DimensionKind, float32, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" {
		if !allowAuto {
			return 0, 0, invalidInput("auto is not allowed here")
		}
		return KindAuto, 0, nil
	}
	kind := KindLength
	switch {
	case strings.HasSuffix(s, "%"):
		kind = KindPercent
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, 0, invalidInput("invalid length %q", s)
	}
	if kind == KindPercent {
		f /= 100
	}
	return kind, float32(f), nil
}

func formatLength(kind DimensionKind, v float32) string {
	switch kind {
	case KindAuto:
		return "auto"
	case KindPercent:
		return strconv.FormatFloat(float64(v)*100, 'g', -1, 32) + "%"
	}
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// =============================================================================
// Available space
// =============================================================================

// AvailableSpaceKind tags an AvailableSpace value.
type AvailableSpaceKind uint8

const (
	SpaceDefinite   AvailableSpaceKind = iota // A definite amount of space
	SpaceMinContent                           // As little space as the content allows
	SpaceMaxContent                           // As much space as the content wants
)

// AvailableSpace is the space offered to a node along one axis.
type AvailableSpace struct {
	Kind  AvailableSpaceKind `json:"kind"`
	Value float32            `json:"value"`
}

// Definite returns a definite AvailableSpace.
func Definite(v float32) AvailableSpace { return AvailableSpace{Kind: SpaceDefinite, Value: v} }

// MinContent returns the min-content constraint.
func MinContent() AvailableSpace { return AvailableSpace{Kind: SpaceMinContent} }

// MaxContent returns the max-content constraint.
func MaxContent() AvailableSpace { return AvailableSpace{Kind: SpaceMaxContent} }

func (a AvailableSpace) String() string {
	switch a.Kind {
	case SpaceMinContent:
		return "min-content"
	case SpaceMaxContent:
		return "max-content"
	}
	return strconv.FormatFloat(float64(a.Value), 'g', -1, 32)
}

// ParseAvailableSpace parses "min-content", "max-content" or a number.
func ParseAvailableSpace(s string) (AvailableSpace, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "min-content":
		return MinContent(), nil
	case "max-content":
		return MaxContent(), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return AvailableSpace{}, invalidInput("invalid available space %q", s)
	}
	return Definite(float32(f)), nil
}

// =============================================================================
// Grid tracks and placement
// =============================================================================

// MinTrackKind tags a minimum track sizing function.
type MinTrackKind uint8

const (
	MinTrackFixed MinTrackKind = iota
	MinTrackMinContent
	MinTrackMaxContent
	MinTrackAuto
)

// MinTrackSizingFunction is the lower bound of a grid track.
type MinTrackSizingFunction struct {
	Kind  MinTrackKind     `json:"kind"`
	Fixed LengthPercentage `json:"fixed"`
}

// MaxTrackKind tags a maximum track sizing function.
type MaxTrackKind uint8

const (
	MaxTrackFixed MaxTrackKind = iota
	MaxTrackMinContent
	MaxTrackMaxContent
	MaxTrackFitContent
	MaxTrackAuto
	MaxTrackFraction
)

// MaxTrackSizingFunction is the upper bound of a grid track. Value is used
// by MaxTrackFixed and MaxTrackFitContent, Fraction by MaxTrackFraction.
type MaxTrackSizingFunction struct {
	Kind     MaxTrackKind     `json:"kind"`
	Value    LengthPercentage `json:"value"`
	Fraction float32          `json:"fraction"`
}

// NonRepeatedTrackSizingFunction is a single track: minmax(min, max).
type NonRepeatedTrackSizingFunction = geom.MinMax[MinTrackSizingFunction, MaxTrackSizingFunction]

// FixedTrack returns a track of exactly l.
func FixedTrack(l LengthPercentage) NonRepeatedTrackSizingFunction {
	return NonRepeatedTrackSizingFunction{
		Min: MinTrackSizingFunction{Kind: MinTrackFixed, Fixed: l},
		Max: MaxTrackSizingFunction{Kind: MaxTrackFixed, Value: l},
	}
}

// FrTrack returns a flexible track: minmax(auto, <fr>fr).
func FrTrack(fr float32) NonRepeatedTrackSizingFunction {
	return NonRepeatedTrackSizingFunction{
		Min: MinTrackSizingFunction{Kind: MinTrackAuto},
		Max: MaxTrackSizingFunction{Kind: MaxTrackFraction, Fraction: fr},
	}
}

// AutoTrack returns an auto-sized track.
func AutoTrack() NonRepeatedTrackSizingFunction {
	return NonRepeatedTrackSizingFunction{
		Min: MinTrackSizingFunction{Kind: MinTrackAuto},
		Max: MaxTrackSizingFunction{Kind: MaxTrackAuto},
	}
}

// RepetitionKind tags the count argument of repeat().
type RepetitionKind uint8

const (
	RepeatAutoFill RepetitionKind = iota
	RepeatAutoFit
	RepeatCount
)

// GridTrackRepetition is the first argument of repeat().
type GridTrackRepetition struct {
	Kind  RepetitionKind `json:"kind"`
	Count uint16         `json:"count"`
}

// TrackSizingKind tags a template entry.
type TrackSizingKind uint8

const (
	TrackSingle TrackSizingKind = iota
	TrackRepeat
)

// TrackSizingFunction is one entry of a grid template: a single track or a
// repeat() clause over several tracks.
type TrackSizingFunction struct {
	Kind       TrackSizingKind                  `json:"kind"`
	Single     NonRepeatedTrackSizingFunction   `json:"single"`
	Repetition GridTrackRepetition              `json:"repetition"`
	Tracks     []NonRepeatedTrackSizingFunction `json:"tracks,omitempty"`
}

// Single returns a template entry holding one track.
func Single(t NonRepeatedTrackSizingFunction) TrackSizingFunction {
	return TrackSizingFunction{Kind: TrackSingle, Single: t}
}

// Repeat returns a repeat() template entry.
func Repeat(rep GridTrackRepetition, tracks ...NonRepeatedTrackSizingFunction) TrackSizingFunction {
	return TrackSizingFunction{Kind: TrackRepeat, Repetition: rep, Tracks: tracks}
}

// PlacementKind tags a GridPlacement.
type PlacementKind uint8

const (
	PlacementAuto PlacementKind = iota
	PlacementLine
	PlacementSpan
)

// GridPlacement positions one edge of a grid item. Line is 1-based and may
// be negative to count from the end of the explicit grid; zero is invalid.
type GridPlacement struct {
	Kind PlacementKind `json:"kind"`
	Line int16         `json:"line,omitempty"`
	Span uint16        `json:"span,omitempty"`
}

// PlaceAuto returns automatic placement.
func PlaceAuto() GridPlacement { return GridPlacement{Kind: PlacementAuto} }

// PlaceLine returns placement at grid line n.
func PlaceLine(n int16) GridPlacement { return GridPlacement{Kind: PlacementLine, Line: n} }

// PlaceSpan returns a span of n tracks.
func PlaceSpan(n uint16) GridPlacement { return GridPlacement{Kind: PlacementSpan, Span: n} }

func (p GridPlacement) String() string {
	switch p.Kind {
	case PlacementLine:
		return strconv.Itoa(int(p.Line))
	case PlacementSpan:
		return fmt.Sprintf("span %d", p.Span)
	}
	return "auto"
}

// ParseGridPlacement parses "auto", "span N" or a line number.
func ParseGridPlacement(s string) (GridPlacement, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "auto" || s == "" {
		return PlaceAuto(), nil
	}
	if rest, ok := strings.CutPrefix(s, "span"); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 16)
		if err != nil {
			return GridPlacement{}, invalidInput("invalid span %q", s)
		}
		return PlaceSpan(uint16(n)), nil
	}
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil {
		return GridPlacement{}, invalidInput("invalid grid line %q", s)
	}
	return PlaceLine(int16(n)), nil
}

// =============================================================================
// Enumerations
// =============================================================================

// Display selects the formatting context of a node.
type Display uint8

const (
	DisplayBlock Display = iota
	DisplayFlex
	DisplayGrid
	DisplayNone
)

var displayNames = []string{"block", "flex", "grid", "none"}

func (d Display) String() string                { return enumName(displayNames, d) }
func (d Display) MarshalText() ([]byte, error)  { return marshalEnum(displayNames, "display", d) }
func (d *Display) UnmarshalText(b []byte) error { return unmarshalEnum(displayNames, "display", b, d) }

// Position selects in-flow or absolute positioning.
type Position uint8

const (
	PositionRelative Position = iota
	PositionAbsolute
)

var positionNames = []string{"relative", "absolute"}

func (p Position) String() string               { return enumName(positionNames, p) }
func (p Position) MarshalText() ([]byte, error) { return marshalEnum(positionNames, "position", p) }
func (p *Position) UnmarshalText(b []byte) error {
	return unmarshalEnum(positionNames, "position", b, p)
}

// Overflow controls how content that overflows a node is treated.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowHidden
	OverflowScroll
)

var overflowNames = []string{"visible", "clip", "hidden", "scroll"}

func (o Overflow) String() string               { return enumName(overflowNames, o) }
func (o Overflow) MarshalText() ([]byte, error) { return marshalEnum(overflowNames, "overflow", o) }
func (o *Overflow) UnmarshalText(b []byte) error {
	return unmarshalEnum(overflowNames, "overflow", b, o)
}

// FlexDirection selects the main axis of a flex container.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
	FlexRowReverse
	FlexColumnReverse
)

var flexDirectionNames = []string{"row", "column", "row-reverse", "column-reverse"}

func (d FlexDirection) String() string { return enumName(flexDirectionNames, d) }
func (d FlexDirection) MarshalText() ([]byte, error) {
	return marshalEnum(flexDirectionNames, "flex direction", d)
}
func (d *FlexDirection) UnmarshalText(b []byte) error {
	return unmarshalEnum(flexDirectionNames, "flex direction", b, d)
}

// FlexWrap controls whether flex items wrap onto several lines.
type FlexWrap uint8

const (
	NoWrap FlexWrap = iota
	Wrap
	WrapReverse
)

var flexWrapNames = []string{"nowrap", "wrap", "wrap-reverse"}

func (w FlexWrap) String() string               { return enumName(flexWrapNames, w) }
func (w FlexWrap) MarshalText() ([]byte, error) { return marshalEnum(flexWrapNames, "flex wrap", w) }
func (w *FlexWrap) UnmarshalText(b []byte) error {
	return unmarshalEnum(flexWrapNames, "flex wrap", b, w)
}

// AlignItems aligns items along an axis. It is used for align-items,
// align-self, justify-items and justify-self.
type AlignItems uint8

const (
	AlignStart AlignItems = iota
	AlignEnd
	AlignFlexStart
	AlignFlexEnd
	AlignCenter
	AlignBaseline
	AlignStretch
)

var alignItemsNames = []string{"start", "end", "flex-start", "flex-end", "center", "baseline", "stretch"}

func (a AlignItems) String() string { return enumName(alignItemsNames, a) }
func (a AlignItems) MarshalText() ([]byte, error) {
	return marshalEnum(alignItemsNames, "alignment", a)
}
func (a *AlignItems) UnmarshalText(b []byte) error {
	return unmarshalEnum(alignItemsNames, "alignment", b, a)
}

// AlignContent distributes space between lines or tracks. It is used for
// align-content and justify-content.
type AlignContent uint8

const (
	ContentStart AlignContent = iota
	ContentEnd
	ContentFlexStart
	ContentFlexEnd
	ContentCenter
	ContentStretch
	ContentSpaceBetween
	ContentSpaceEvenly
	ContentSpaceAround
)

var alignContentNames = []string{
	"start", "end", "flex-start", "flex-end", "center", "stretch",
	"space-between", "space-evenly", "space-around",
}

func (a AlignContent) String() string { return enumName(alignContentNames, a) }
func (a AlignContent) MarshalText() ([]byte, error) {
	return marshalEnum(alignContentNames, "content alignment", a)
}
func (a *AlignContent) UnmarshalText(b []byte) error {
	return unmarshalEnum(alignContentNames, "content alignment", b, a)
}

// GridAutoFlow controls the grid auto-placement algorithm.
type GridAutoFlow uint8

const (
	GridFlowRow GridAutoFlow = iota
	GridFlowColumn
	GridFlowRowDense
	GridFlowColumnDense
)

var gridAutoFlowNames = []string{"row", "column", "row-dense", "column-dense"}

func (f GridAutoFlow) String() string { return enumName(gridAutoFlowNames, f) }
func (f GridAutoFlow) MarshalText() ([]byte, error) {
	return marshalEnum(gridAutoFlowNames, "grid auto flow", f)
}
func (f *GridAutoFlow) UnmarshalText(b []byte) error {
	return unmarshalEnum(gridAutoFlowNames, "grid auto flow", b, f)
}

type enum interface{ ~uint8 }

func enumName[E enum](names []string, e E) string {
	if int(e) < len(names) {
		return names[e]
	}
	return fmt.Sprintf("%T(%d)", e, uint8(e))
}

func enumValid[E enum](names []string, e E) bool { return int(e) < len(names) }

func marshalEnum[E enum](names []string, what string, e E) ([]byte, error) {
	if !enumValid(names, e) {
		return nil, invalidInput("unknown %s %d", what, uint8(e))
	}
	return []byte(names[e]), nil
}

func unmarshalEnum[E enum](names []string, what string, b []byte, dst *E) error {
	s := strings.TrimSpace(strings.ToLower(string(b)))
	for i, n := range names {
		if n == s {
			*dst = E(i)
			return nil
		}
	}
	return invalidInput("unknown %s %q", what, s)
}
