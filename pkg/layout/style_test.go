package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/geom"
)

func TestNewStyleDefaults(t *testing.T) {
	s := NewStyle()
	if got := s.Display(); got != DisplayFlex {
		t.Errorf("Display() = %v, want flex", got)
	}
	if got := s.FlexShrink(); got != 1 {
		t.Errorf("FlexShrink() = %v, want 1", got)
	}
	if got := s.FlexGrow(); got != 0 {
		t.Errorf("FlexGrow() = %v, want 0", got)
	}
	if got := s.Size(); got != (geom.Size[Dimension]{Width: Auto(), Height: Auto()}) {
		t.Errorf("Size() = %v, want auto", got)
	}
	if got := s.AlignItems(); got.Valid {
		t.Errorf("AlignItems() = %v, want unset", got)
	}
	if got := s.Overflow(); got != (geom.Point[Overflow]{X: OverflowVisible, Y: OverflowVisible}) {
		t.Errorf("Overflow() = %v, want visible", got)
	}
}

// Every accepted value must read back exactly as written.
func TestStyleRoundTrip(t *testing.T) {
	tracks := []TrackSizingFunction{
		Single(FixedTrack(LP(100))),
		Single(FrTrack(2)),
		Repeat(GridTrackRepetition{Kind: RepeatCount, Count: 3}, AutoTrack(), FixedTrack(LPPercent(0.25))),
		Repeat(GridTrackRepetition{Kind: RepeatAutoFill}, FixedTrack(LP(40))),
		Single(NonRepeatedTrackSizingFunction{
			Min: MinTrackSizingFunction{Kind: MinTrackMinContent},
			Max: MaxTrackSizingFunction{Kind: MaxTrackFitContent, Value: LP(120)},
		}),
	}

	tests := []struct {
		name string
		set  func(*Style) error
		get  func(*Style) any
		want any
	}{
		{"Display", func(s *Style) error { return s.SetDisplay(DisplayGrid) },
			func(s *Style) any { return s.Display() }, DisplayGrid},
		{"Position", func(s *Style) error { return s.SetPosition(PositionAbsolute) },
			func(s *Style) any { return s.Position() }, PositionAbsolute},
		{"Overflow", func(s *Style) error { return s.SetOverflow(geom.Point[Overflow]{X: OverflowHidden, Y: OverflowScroll}) },
			func(s *Style) any { return s.Overflow() }, geom.Point[Overflow]{X: OverflowHidden, Y: OverflowScroll}},
		{"ScrollbarWidth", func(s *Style) error { return s.SetScrollbarWidth(12) },
			func(s *Style) any { return s.ScrollbarWidth() }, float32(12)},
		{"Inset", func(s *Style) error {
			return s.SetInset(geom.Rect[LengthPercentageAuto]{Left: LPA(1), Right: LPAPercent(0.5), Top: LPAAuto(), Bottom: LPA(-4)})
		}, func(s *Style) any { return s.Inset() },
			geom.Rect[LengthPercentageAuto]{Left: LPA(1), Right: LPAPercent(0.5), Top: LPAAuto(), Bottom: LPA(-4)}},
		{"Size", func(s *Style) error { return s.SetSize(geom.Size[Dimension]{Width: Length(10), Height: Percent(0.5)}) },
			func(s *Style) any { return s.Size() }, geom.Size[Dimension]{Width: Length(10), Height: Percent(0.5)}},
		{"MinSize", func(s *Style) error { return s.SetMinSize(geom.Size[Dimension]{Width: Auto(), Height: Length(3)}) },
			func(s *Style) any { return s.MinSize() }, geom.Size[Dimension]{Width: Auto(), Height: Length(3)}},
		{"MaxSize", func(s *Style) error { return s.SetMaxSize(geom.Size[Dimension]{Width: Percent(1), Height: Auto()}) },
			func(s *Style) any { return s.MaxSize() }, geom.Size[Dimension]{Width: Percent(1), Height: Auto()}},
		{"AspectRatio", func(s *Style) error { return s.SetAspectRatio(geom.Some[float32](1.5)) },
			func(s *Style) any { return s.AspectRatio() }, geom.Some[float32](1.5)},
		{"Margin", func(s *Style) error { return s.SetMargin(geom.Edges(LPAAuto())) },
			func(s *Style) any { return s.Margin() }, geom.Edges(LPAAuto())},
		{"Padding", func(s *Style) error { return s.SetPadding(geom.Edges(LPPercent(0.1))) },
			func(s *Style) any { return s.Padding() }, geom.Edges(LPPercent(0.1))},
		{"Border", func(s *Style) error { return s.SetBorder(geom.Edges(LP(2))) },
			func(s *Style) any { return s.Border() }, geom.Edges(LP(2))},
		{"AlignItems", func(s *Style) error { return s.SetAlignItems(geom.Some(AlignCenter)) },
			func(s *Style) any { return s.AlignItems() }, geom.Some(AlignCenter)},
		{"AlignSelf", func(s *Style) error { return s.SetAlignSelf(geom.Some(AlignStart)) },
			func(s *Style) any { return s.AlignSelf() }, geom.Some(AlignStart)},
		{"JustifyItems", func(s *Style) error { return s.SetJustifyItems(geom.Some(AlignStretch)) },
			func(s *Style) any { return s.JustifyItems() }, geom.Some(AlignStretch)},
		{"JustifySelf", func(s *Style) error { return s.SetJustifySelf(geom.None[AlignItems]()) },
			func(s *Style) any { return s.JustifySelf() }, geom.None[AlignItems]()},
		{"AlignContent", func(s *Style) error { return s.SetAlignContent(geom.Some(ContentSpaceAround)) },
			func(s *Style) any { return s.AlignContent() }, geom.Some(ContentSpaceAround)},
		{"JustifyContent", func(s *Style) error { return s.SetJustifyContent(geom.Some(ContentStart)) },
			func(s *Style) any { return s.JustifyContent() }, geom.Some(ContentStart)},
		{"Gap", func(s *Style) error {
			return s.SetGap(geom.Size[LengthPercentage]{Width: LP(4), Height: LPPercent(0.2)})
		},
			func(s *Style) any { return s.Gap() }, geom.Size[LengthPercentage]{Width: LP(4), Height: LPPercent(0.2)}},
		{"FlexDirection", func(s *Style) error { return s.SetFlexDirection(FlexColumnReverse) },
			func(s *Style) any { return s.FlexDirection() }, FlexColumnReverse},
		{"FlexWrap", func(s *Style) error { return s.SetFlexWrap(WrapReverse) },
			func(s *Style) any { return s.FlexWrap() }, WrapReverse},
		{"FlexBasis", func(s *Style) error { return s.SetFlexBasis(Percent(0.3)) },
			func(s *Style) any { return s.FlexBasis() }, Percent(0.3)},
		{"FlexGrow", func(s *Style) error { return s.SetFlexGrow(2.5) },
			func(s *Style) any { return s.FlexGrow() }, float32(2.5)},
		{"FlexShrink", func(s *Style) error { return s.SetFlexShrink(0) },
			func(s *Style) any { return s.FlexShrink() }, float32(0)},
		{"GridTemplateRows", func(s *Style) error { return s.SetGridTemplateRows(tracks) },
			func(s *Style) any { return s.GridTemplateRows() }, tracks},
		{"GridTemplateColumns", func(s *Style) error { return s.SetGridTemplateColumns(tracks[:2]) },
			func(s *Style) any { return s.GridTemplateColumns() }, tracks[:2]},
		{"GridAutoRows", func(s *Style) error {
			return s.SetGridAutoRows([]NonRepeatedTrackSizingFunction{AutoTrack(), FrTrack(1)})
		}, func(s *Style) any { return s.GridAutoRows() }, []NonRepeatedTrackSizingFunction{AutoTrack(), FrTrack(1)}},
		{"GridAutoColumns", func(s *Style) error {
			return s.SetGridAutoColumns([]NonRepeatedTrackSizingFunction{FixedTrack(LP(30))})
		}, func(s *Style) any { return s.GridAutoColumns() }, []NonRepeatedTrackSizingFunction{FixedTrack(LP(30))}},
		{"GridAutoFlow", func(s *Style) error { return s.SetGridAutoFlow(GridFlowColumnDense) },
			func(s *Style) any { return s.GridAutoFlow() }, GridFlowColumnDense},
		{"GridRow", func(s *Style) error {
			return s.SetGridRow(geom.Line[GridPlacement]{Start: PlaceLine(-1), End: PlaceSpan(2)})
		},
			func(s *Style) any { return s.GridRow() }, geom.Line[GridPlacement]{Start: PlaceLine(-1), End: PlaceSpan(2)}},
		{"GridColumn", func(s *Style) error {
			return s.SetGridColumn(geom.Line[GridPlacement]{Start: PlaceLine(2), End: PlaceAuto()})
		},
			func(s *Style) any { return s.GridColumn() }, geom.Line[GridPlacement]{Start: PlaceLine(2), End: PlaceAuto()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStyle()
			if err := tt.set(s); err != nil {
				t.Fatalf("Set%s() error: %v", tt.name, err)
			}
			if got := tt.get(s); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s() = %+v, want %+v", tt.name, got, tt.want)
			}
			// The value survives a trip through a node.
			tree := NewTree()
			id, _ := tree.NewLeaf(s)
			back, _ := tree.Style(id)
			if got := tt.get(back); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("node %s() = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestStyleRejectsInvalidValues(t *testing.T) {
	nan := float32(math.NaN())
	tests := []struct {
		name string
		set  func(*Style) error
	}{
		{"grid line zero", func(s *Style) error {
			return s.SetGridRow(geom.Line[GridPlacement]{Start: PlaceLine(0), End: PlaceAuto()})
		}},
		{"grid span zero", func(s *Style) error {
			return s.SetGridColumn(geom.Line[GridPlacement]{Start: PlaceSpan(0), End: PlaceAuto()})
		}},
		{"repeat count zero", func(s *Style) error {
			return s.SetGridTemplateRows([]TrackSizingFunction{Repeat(GridTrackRepetition{Kind: RepeatCount}, AutoTrack())})
		}},
		{"empty repeat", func(s *Style) error {
			return s.SetGridTemplateRows([]TrackSizingFunction{Repeat(GridTrackRepetition{Kind: RepeatCount, Count: 2})})
		}},
		{"negative fraction", func(s *Style) error {
			return s.SetGridAutoRows([]NonRepeatedTrackSizingFunction{FrTrack(-1)})
		}},
		{"negative flex grow", func(s *Style) error { return s.SetFlexGrow(-1) }},
		{"NaN flex shrink", func(s *Style) error { return s.SetFlexShrink(nan) }},
		{"NaN length", func(s *Style) error {
			return s.SetSize(geom.Size[Dimension]{Width: Length(nan), Height: Auto()})
		}},
		{"auto with a value", func(s *Style) error {
			return s.SetSize(geom.Size[Dimension]{Width: Dimension{Kind: KindAuto, Value: 5}, Height: Auto()})
		}},
		{"auto margin with a value", func(s *Style) error {
			return s.SetMargin(geom.Edges(LengthPercentageAuto{Kind: KindAuto, Value: 1}))
		}},
		{"auto padding", func(s *Style) error {
			return s.SetPadding(geom.Edges(LengthPercentage{Kind: KindAuto}))
		}},
		{"zero aspect ratio", func(s *Style) error { return s.SetAspectRatio(geom.Some[float32](0)) }},
		{"unknown display", func(s *Style) error { return s.SetDisplay(Display(9)) }},
		{"unknown alignment", func(s *Style) error { return s.SetAlignItems(geom.Some(AlignItems(42))) }},
		{"unknown flow", func(s *Style) error { return s.SetGridAutoFlow(GridAutoFlow(7)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStyle()
			before := s.snapshot()
			err := tt.set(s)
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
				t.Errorf("setter error code = %q, want INVALID_INPUT (err: %v)", got, err)
			}
			if after := s.snapshot(); !reflect.DeepEqual(after, before) {
				t.Error("rejected setter changed the style")
			}
		})
	}
}

func TestStyleClone(t *testing.T) {
	s := NewStyle()
	_ = s.SetGridTemplateColumns([]TrackSizingFunction{Single(FrTrack(1))})
	c := s.Clone()
	_ = s.SetGridTemplateColumns([]TrackSizingFunction{Single(FrTrack(3))})

	got := c.GridTemplateColumns()
	if len(got) != 1 || got[0].Single.Max.Fraction != 1 {
		t.Errorf("clone GridTemplateColumns() = %+v, want one 1fr track", got)
	}
}

func TestParseValues(t *testing.T) {
	dims := []struct {
		in      string
		want    Dimension
		wantErr bool
	}{
		{"auto", Auto(), false},
		{"50%", Percent(0.5), false},
		{"12px", Length(12), false},
		{"7", Length(7), false},
		{"abc", Dimension{}, true},
	}
	for _, tt := range dims {
		got, err := ParseDimension(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDimension(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseDimension(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLengthPercentage("auto"); err == nil {
		t.Error("ParseLengthPercentage(auto) succeeded, want error")
	}

	places := []struct {
		in   string
		want GridPlacement
	}{
		{"auto", PlaceAuto()},
		{"3", PlaceLine(3)},
		{"-1", PlaceLine(-1)},
		{"span 2", PlaceSpan(2)},
	}
	for _, tt := range places {
		got, err := ParseGridPlacement(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseGridPlacement(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestEnumText(t *testing.T) {
	var d FlexDirection
	if err := d.UnmarshalText([]byte("row-reverse")); err != nil || d != FlexRowReverse {
		t.Errorf("UnmarshalText(row-reverse) = %v, %v", d, err)
	}
	if b, _ := AlignContent(ContentSpaceBetween).MarshalText(); string(b) != "space-between" {
		t.Errorf("MarshalText() = %s, want space-between", b)
	}
	var w FlexWrap
	err := w.UnmarshalText([]byte("sideways"))
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidInput {
		t.Errorf("UnmarshalText(sideways) code = %q, want INVALID_INPUT", got)
	}
	if got := Display(12).String(); got == "" {
		t.Error("String() of unknown value is empty")
	}
}
