package layout

import (
	"github.com/matzehuels/boxtree/internal/engine"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/geom"
)

// Conversions between the public value model and the engine's internal one.
// Every toEngine* function validates its input, so whatever reaches the
// engine converts back to exactly the value that was stored.

func lengthToEngine(kind DimensionKind, v float32, allowAuto bool) (engine.Dim, error) {
	switch kind {
	case KindLength:
		if err := errors.ValidateFinite("length", v); err != nil {
			return engine.Dim{}, err
		}
		return engine.Points(v), nil
	case KindPercent:
		if err := errors.ValidateFinite("percentage", v); err != nil {
			return engine.Dim{}, err
		}
		return engine.Percent(v), nil
	case KindAuto:
		if !allowAuto {
			return engine.Dim{}, invalidInput("auto is not a valid length-percentage")
		}
		if v != 0 {
			return engine.Dim{}, invalidInput("auto takes no value, got %v", v)
		}
		return engine.Auto(), nil
	}
	return engine.Dim{}, invalidInput("unknown dimension kind %d", kind)
}

func lengthFromEngine(d engine.Dim) (DimensionKind, float32) {
	switch d.Unit {
	case engine.UnitPoints:
		return KindLength, d.Value
	case engine.UnitPercent:
		return KindPercent, d.Value
	}
	return KindAuto, 0
}

func dimensionToEngine(d Dimension) (engine.Dim, error) {
	return lengthToEngine(d.Kind, d.Value, true)
}

func dimensionFromEngine(d engine.Dim) Dimension {
	k, v := lengthFromEngine(d)
	return Dimension{Kind: k, Value: v}
}

func lpToEngine(l LengthPercentage) (engine.Dim, error) {
	return lengthToEngine(l.Kind, l.Value, false)
}

func lpFromEngine(d engine.Dim) LengthPercentage {
	k, v := lengthFromEngine(d)
	return LengthPercentage{Kind: k, Value: v}
}

func lpaToEngine(l LengthPercentageAuto) (engine.Dim, error) {
	return lengthToEngine(l.Kind, l.Value, true)
}

func lpaFromEngine(d engine.Dim) LengthPercentageAuto {
	k, v := lengthFromEngine(d)
	return LengthPercentageAuto{Kind: k, Value: v}
}

func spaceToEngine(a AvailableSpace) (engine.Space, error) {
	switch a.Kind {
	case SpaceDefinite:
		if err := errors.ValidateFinite("available space", a.Value); err != nil {
			return engine.Space{}, err
		}
		return engine.Definite(a.Value), nil
	case SpaceMinContent, SpaceMaxContent:
		if a.Value != 0 {
			return engine.Space{}, invalidInput("%s takes no value, got %v", a, a.Value)
		}
		if a.Kind == SpaceMinContent {
			return engine.MinContent(), nil
		}
		return engine.MaxContent(), nil
	}
	return engine.Space{}, invalidInput("unknown available space kind %d", a.Kind)
}

func spaceFromEngine(s engine.Space) AvailableSpace {
	switch s.Kind {
	case engine.SpaceMinContent:
		return MinContent()
	case engine.SpaceMaxContent:
		return MaxContent()
	}
	return Definite(s.Value)
}

// =============================================================================
// Grid
// =============================================================================

func minTrackToEngine(m MinTrackSizingFunction) (engine.TrackFunc, error) {
	l, err := lpToEngine(m.Fixed)
	if err != nil {
		return engine.TrackFunc{}, err
	}
	f := engine.TrackFunc{Length: l}
	switch m.Kind {
	case MinTrackFixed:
		f.Kind = engine.TrackFixed
	case MinTrackMinContent:
		f.Kind = engine.TrackMinContent
	case MinTrackMaxContent:
		f.Kind = engine.TrackMaxContent
	case MinTrackAuto:
		f.Kind = engine.TrackAuto
	default:
		return engine.TrackFunc{}, invalidInput("unknown min track kind %d", m.Kind)
	}
	return f, nil
}

func minTrackFromEngine(f engine.TrackFunc) MinTrackSizingFunction {
	m := MinTrackSizingFunction{Fixed: lpFromEngine(f.Length)}
	switch f.Kind {
	case engine.TrackFixed:
		m.Kind = MinTrackFixed
	case engine.TrackMinContent:
		m.Kind = MinTrackMinContent
	case engine.TrackMaxContent:
		m.Kind = MinTrackMaxContent
	default:
		m.Kind = MinTrackAuto
	}
	return m
}

func maxTrackToEngine(m MaxTrackSizingFunction) (engine.TrackFunc, error) {
	l, err := lpToEngine(m.Value)
	if err != nil {
		return engine.TrackFunc{}, err
	}
	if err := errors.ValidateNonNegative("fraction", m.Fraction); err != nil {
		return engine.TrackFunc{}, err
	}
	f := engine.TrackFunc{Length: l, Fr: m.Fraction}
	switch m.Kind {
	case MaxTrackFixed:
		f.Kind = engine.TrackFixed
	case MaxTrackMinContent:
		f.Kind = engine.TrackMinContent
	case MaxTrackMaxContent:
		f.Kind = engine.TrackMaxContent
	case MaxTrackFitContent:
		f.Kind = engine.TrackFitContent
	case MaxTrackAuto:
		f.Kind = engine.TrackAuto
	case MaxTrackFraction:
		f.Kind = engine.TrackFraction
	default:
		return engine.TrackFunc{}, invalidInput("unknown max track kind %d", m.Kind)
	}
	return f, nil
}

func maxTrackFromEngine(f engine.TrackFunc) MaxTrackSizingFunction {
	m := MaxTrackSizingFunction{Value: lpFromEngine(f.Length), Fraction: f.Fr}
	switch f.Kind {
	case engine.TrackFixed:
		m.Kind = MaxTrackFixed
	case engine.TrackMinContent:
		m.Kind = MaxTrackMinContent
	case engine.TrackMaxContent:
		m.Kind = MaxTrackMaxContent
	case engine.TrackFitContent:
		m.Kind = MaxTrackFitContent
	case engine.TrackFraction:
		m.Kind = MaxTrackFraction
	default:
		m.Kind = MaxTrackAuto
	}
	return m
}

func trackToEngine(t NonRepeatedTrackSizingFunction) (engine.TrackPair, error) {
	return geom.TryMapMinMax(t, minTrackToEngine, maxTrackToEngine)
}

func trackFromEngine(p engine.TrackPair) NonRepeatedTrackSizingFunction {
	return geom.MapMinMax(p, minTrackFromEngine, maxTrackFromEngine)
}

func repetitionToEngine(r GridTrackRepetition) (engine.Repetition, error) {
	switch r.Kind {
	case RepeatAutoFill:
		return engine.Repetition{Kind: engine.RepeatAutoFill, Count: r.Count}, nil
	case RepeatAutoFit:
		return engine.Repetition{Kind: engine.RepeatAutoFit, Count: r.Count}, nil
	case RepeatCount:
		if r.Count == 0 {
			return engine.Repetition{}, invalidInput("repeat count must be at least 1")
		}
		return engine.Repetition{Kind: engine.RepeatCount, Count: r.Count}, nil
	}
	return engine.Repetition{}, invalidInput("unknown repetition kind %d", r.Kind)
}

func repetitionFromEngine(r engine.Repetition) GridTrackRepetition {
	switch r.Kind {
	case engine.RepeatAutoFill:
		return GridTrackRepetition{Kind: RepeatAutoFill, Count: r.Count}
	case engine.RepeatAutoFit:
		return GridTrackRepetition{Kind: RepeatAutoFit, Count: r.Count}
	}
	return GridTrackRepetition{Kind: RepeatCount, Count: r.Count}
}

func trackSizingToEngine(t TrackSizingFunction) (engine.TrackList, error) {
	switch t.Kind {
	case TrackSingle:
		if len(t.Tracks) > 0 || t.Repetition != (GridTrackRepetition{}) {
			return engine.TrackList{}, invalidInput("single track entry must not carry repeat data")
		}
		p, err := trackToEngine(t.Single)
		if err != nil {
			return engine.TrackList{}, err
		}
		return engine.TrackList{Tracks: []engine.TrackPair{p}}, nil
	case TrackRepeat:
		if len(t.Tracks) == 0 {
			return engine.TrackList{}, invalidInput("repeat() needs at least one track")
		}
		if t.Single != (NonRepeatedTrackSizingFunction{}) {
			return engine.TrackList{}, invalidInput("repeat entry must not carry a single track")
		}
		rep, err := repetitionToEngine(t.Repetition)
		if err != nil {
			return engine.TrackList{}, err
		}
		tracks, err := geom.TryMapSlice(t.Tracks, trackToEngine)
		if err != nil {
			return engine.TrackList{}, err
		}
		return engine.TrackList{Repeat: true, Rep: rep, Tracks: tracks}, nil
	}
	return engine.TrackList{}, invalidInput("unknown track sizing kind %d", t.Kind)
}

func trackSizingFromEngine(l engine.TrackList) TrackSizingFunction {
	if !l.Repeat {
		return Single(trackFromEngine(l.Tracks[0]))
	}
	return Repeat(repetitionFromEngine(l.Rep), geom.MapSlice(l.Tracks, trackFromEngine)...)
}

func placementToEngine(p GridPlacement) (engine.Placement, error) {
	switch p.Kind {
	case PlacementAuto:
		return engine.Placement{Kind: engine.PlaceAuto, Line: p.Line, Span: p.Span}, nil
	case PlacementLine:
		if p.Line == 0 {
			return engine.Placement{}, invalidInput("grid line index must not be zero")
		}
		return engine.Placement{Kind: engine.PlaceLine, Line: p.Line, Span: p.Span}, nil
	case PlacementSpan:
		if p.Span == 0 {
			return engine.Placement{}, invalidInput("grid span must be at least 1")
		}
		return engine.Placement{Kind: engine.PlaceSpan, Line: p.Line, Span: p.Span}, nil
	}
	return engine.Placement{}, invalidInput("unknown grid placement kind %d", p.Kind)
}

func placementFromEngine(p engine.Placement) GridPlacement {
	g := GridPlacement{Line: p.Line, Span: p.Span}
	switch p.Kind {
	case engine.PlaceLine:
		g.Kind = PlacementLine
	case engine.PlaceSpan:
		g.Kind = PlacementSpan
	default:
		g.Kind = PlacementAuto
	}
	return g
}

// =============================================================================
// Enumerations
// =============================================================================

func displayToEngine(d Display) (engine.Display, error) {
	switch d {
	case DisplayBlock:
		return engine.DisplayBlock, nil
	case DisplayFlex:
		return engine.DisplayFlex, nil
	case DisplayGrid:
		return engine.DisplayGrid, nil
	case DisplayNone:
		return engine.DisplayNone, nil
	}
	return 0, invalidInput("unknown display %d", d)
}

func displayFromEngine(d engine.Display) Display {
	switch d {
	case engine.DisplayBlock:
		return DisplayBlock
	case engine.DisplayGrid:
		return DisplayGrid
	case engine.DisplayNone:
		return DisplayNone
	}
	return DisplayFlex
}

// castEnum converts between enumerations that share their ordering.
func castEnum[From enum, To ~uint8](names []string, what string, v From) (To, error) {
	if !enumValid(names, v) {
		return 0, invalidInput("unknown %s %d", what, uint8(v))
	}
	return To(v), nil
}

func positionToEngine(p Position) (engine.Position, error) {
	return castEnum[Position, engine.Position](positionNames, "position", p)
}

func overflowToEngine(o Overflow) (engine.Overflow, error) {
	return castEnum[Overflow, engine.Overflow](overflowNames, "overflow", o)
}

func flexDirectionToEngine(d FlexDirection) (engine.FlexDirection, error) {
	return castEnum[FlexDirection, engine.FlexDirection](flexDirectionNames, "flex direction", d)
}

func flexWrapToEngine(w FlexWrap) (engine.FlexWrap, error) {
	return castEnum[FlexWrap, engine.FlexWrap](flexWrapNames, "flex wrap", w)
}

func gridAutoFlowToEngine(f GridAutoFlow) (engine.GridAutoFlow, error) {
	return castEnum[GridAutoFlow, engine.GridAutoFlow](gridAutoFlowNames, "grid auto flow", f)
}

// Alignment values are optional; the engine encodes absence as its zero
// value and shifts every present value up by one.

func alignToEngine(a geom.Optional[AlignItems]) (engine.Align, error) {
	if !a.Valid {
		return engine.AlignUnset, nil
	}
	if !enumValid(alignItemsNames, a.Value) {
		return 0, invalidInput("unknown alignment %d", a.Value)
	}
	return engine.Align(a.Value) + 1, nil
}

func alignFromEngine(a engine.Align) geom.Optional[AlignItems] {
	if a == engine.AlignUnset {
		return geom.None[AlignItems]()
	}
	return geom.Some(AlignItems(a - 1))
}

func contentToEngine(a geom.Optional[AlignContent]) (engine.Content, error) {
	if !a.Valid {
		return engine.ContentUnset, nil
	}
	if !enumValid(alignContentNames, a.Value) {
		return 0, invalidInput("unknown content alignment %d", a.Value)
	}
	return engine.Content(a.Value) + 1, nil
}

func contentFromEngine(a engine.Content) geom.Optional[AlignContent] {
	if a == engine.ContentUnset {
		return geom.None[AlignContent]()
	}
	return geom.Some(AlignContent(a - 1))
}

// =============================================================================
// Layout
// =============================================================================

func layoutFromEngine(l engine.Layout) Layout {
	return Layout{
		Order:         l.Order,
		Location:      l.Location,
		Size:          l.Size,
		ContentSize:   l.ContentSize,
		ScrollbarSize: l.ScrollbarSize,
		Border:        l.Border,
		Padding:       l.Padding,
	}
}
