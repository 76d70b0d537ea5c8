package layout

import (
	"sync"

	"github.com/matzehuels/boxtree/internal/engine"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/geom"
)

// Style is a mutable bag of layout properties. It is safe for concurrent use.
//
// A Style is not tied to any node: [Tree.SetStyle] and the node constructors
// copy its current value, so later changes to the Style only reach a node when
// the Style is assigned again.
//
// Setters validate their argument and leave the Style unchanged on error.
// Getters convert from the stored representation on every call.
type Style struct {
	mu sync.RWMutex
	s  engine.Style
}

// NewStyle returns a Style holding the initial value of every property:
// display flex, position relative, overflow visible, all sizes auto,
// zero margin, padding, border and gap, flex shrink 1, flex grow 0.
func NewStyle() *Style {
	return &Style{s: engine.DefaultStyle()}
}

// Clone returns an independent copy of s.
func (s *Style) Clone() *Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Style{s: s.s.Clone()}
}

// snapshot returns a deep copy of the internal value.
func (s *Style) snapshot() engine.Style {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s.Clone()
}

func styleFrom(v engine.Style) *Style {
	return &Style{s: v}
}

// get reads a property under shared access.
func get[T any](s *Style, f func(*engine.Style) T) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f(&s.s)
}

// set converts v and stores it under exclusive access.
func set[T, U any](s *Style, v T, conv func(T) (U, error), store func(*engine.Style, U)) error {
	u, err := conv(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	store(&s.s, u)
	return nil
}

// =============================================================================
// Box
// =============================================================================

// Display returns how the node lays out its children.
func (s *Style) Display() Display {
	return get(s, func(e *engine.Style) Display { return displayFromEngine(e.Display) })
}

// SetDisplay sets the display mode. Unknown values are rejected.
func (s *Style) SetDisplay(d Display) error {
	return set(s, d, displayToEngine, func(e *engine.Style, v engine.Display) { e.Display = v })
}

// Position reports whether the node is in flow or absolutely positioned.
func (s *Style) Position() Position {
	return get(s, func(e *engine.Style) Position { return Position(e.Position) })
}

// SetPosition sets relative or absolute positioning. Unknown values are rejected.
func (s *Style) SetPosition(p Position) error {
	return set(s, p, positionToEngine, func(e *engine.Style, v engine.Position) { e.Position = v })
}

// Overflow returns the overflow behavior along the x and y axes.
func (s *Style) Overflow() geom.Point[Overflow] {
	return get(s, func(e *engine.Style) geom.Point[Overflow] {
		return geom.MapPoint(e.Overflow, func(o engine.Overflow) Overflow { return Overflow(o) })
	})
}

// SetOverflow sets the overflow behavior per axis. Unknown values are rejected.
func (s *Style) SetOverflow(o geom.Point[Overflow]) error {
	return set(s, o, func(p geom.Point[Overflow]) (geom.Point[engine.Overflow], error) {
		return geom.TryMapPoint(p, overflowToEngine)
	}, func(e *engine.Style, v geom.Point[engine.Overflow]) { e.Overflow = v })
}

// ScrollbarWidth returns the space reserved for a scrollbar on axes whose
// overflow is scroll.
func (s *Style) ScrollbarWidth() float32 {
	return get(s, func(e *engine.Style) float32 { return e.ScrollbarWidth })
}

// SetScrollbarWidth rejects negative and non-finite widths.
func (s *Style) SetScrollbarWidth(w float32) error {
	return set(s, w, nonNegative("scrollbar width"), func(e *engine.Style, v float32) { e.ScrollbarWidth = v })
}

// Inset returns the offsets of a positioned node.
func (s *Style) Inset() geom.Rect[LengthPercentageAuto] {
	return get(s, func(e *engine.Style) geom.Rect[LengthPercentageAuto] { return geom.MapRect(e.Inset, lpaFromEngine) })
}

// SetInset sets the offsets used when the node is absolutely positioned.
// Lengths must be finite and auto carries no value.
func (s *Style) SetInset(r geom.Rect[LengthPercentageAuto]) error {
	return set(s, r, rectTo(lpaToEngine), func(e *engine.Style, v geom.Rect[engine.Dim]) { e.Inset = v })
}

// Size returns the preferred size.
func (s *Style) Size() geom.Size[Dimension] {
	return get(s, func(e *engine.Style) geom.Size[Dimension] { return geom.MapSize(e.Size, dimensionFromEngine) })
}

// SetSize sets the preferred size. Lengths and percentages must be finite
// and auto carries no value.
func (s *Style) SetSize(sz geom.Size[Dimension]) error {
	return set(s, sz, sizeTo(dimensionToEngine), func(e *engine.Style, v geom.Size[engine.Dim]) { e.Size = v })
}

// MinSize returns the minimum size.
func (s *Style) MinSize() geom.Size[Dimension] {
	return get(s, func(e *engine.Style) geom.Size[Dimension] { return geom.MapSize(e.MinSize, dimensionFromEngine) })
}

// SetMinSize sets the minimum size, validated like SetSize.
func (s *Style) SetMinSize(sz geom.Size[Dimension]) error {
	return set(s, sz, sizeTo(dimensionToEngine), func(e *engine.Style, v geom.Size[engine.Dim]) { e.MinSize = v })
}

// MaxSize returns the maximum size.
func (s *Style) MaxSize() geom.Size[Dimension] {
	return get(s, func(e *engine.Style) geom.Size[Dimension] { return geom.MapSize(e.MaxSize, dimensionFromEngine) })
}

// SetMaxSize sets the maximum size, validated like SetSize.
func (s *Style) SetMaxSize(sz geom.Size[Dimension]) error {
	return set(s, sz, sizeTo(dimensionToEngine), func(e *engine.Style, v geom.Size[engine.Dim]) { e.MaxSize = v })
}

// AspectRatio returns the preferred width/height ratio, if any.
func (s *Style) AspectRatio() geom.Optional[float32] {
	return get(s, func(e *engine.Style) geom.Optional[float32] { return e.AspectRatio })
}

// SetAspectRatio sets or clears the aspect ratio. A present ratio must be
// finite and positive.
func (s *Style) SetAspectRatio(r geom.Optional[float32]) error {
	return set(s, r, func(o geom.Optional[float32]) (geom.Optional[float32], error) {
		if !o.Valid {
			return geom.None[float32](), nil
		}
		if err := errors.ValidateFinite("aspect ratio", o.Value); err != nil {
			return o, err
		}
		if o.Value <= 0 {
			return o, invalidInput("aspect ratio must be positive, got %v", o.Value)
		}
		return o, nil
	}, func(e *engine.Style, v geom.Optional[float32]) { e.AspectRatio = v })
}

// Margin returns the outer spacing. Auto margins absorb free space.
func (s *Style) Margin() geom.Rect[LengthPercentageAuto] {
	return get(s, func(e *engine.Style) geom.Rect[LengthPercentageAuto] { return geom.MapRect(e.Margin, lpaFromEngine) })
}

// SetMargin sets the outer spacing, validated like SetInset.
func (s *Style) SetMargin(r geom.Rect[LengthPercentageAuto]) error {
	return set(s, r, rectTo(lpaToEngine), func(e *engine.Style, v geom.Rect[engine.Dim]) { e.Margin = v })
}

// Padding returns the inner spacing.
func (s *Style) Padding() geom.Rect[LengthPercentage] {
	return get(s, func(e *engine.Style) geom.Rect[LengthPercentage] { return geom.MapRect(e.Padding, lpFromEngine) })
}

// SetPadding sets the inner spacing. Auto is rejected.
func (s *Style) SetPadding(r geom.Rect[LengthPercentage]) error {
	return set(s, r, rectTo(lpToEngine), func(e *engine.Style, v geom.Rect[engine.Dim]) { e.Padding = v })
}

// Border returns the border widths.
func (s *Style) Border() geom.Rect[LengthPercentage] {
	return get(s, func(e *engine.Style) geom.Rect[LengthPercentage] { return geom.MapRect(e.Border, lpFromEngine) })
}

// SetBorder sets the border widths. Auto is rejected.
func (s *Style) SetBorder(r geom.Rect[LengthPercentage]) error {
	return set(s, r, rectTo(lpToEngine), func(e *engine.Style, v geom.Rect[engine.Dim]) { e.Border = v })
}

// =============================================================================
// Alignment
// =============================================================================

// AlignItems returns the default cross-axis alignment of children. An absent
// value means the container's default (stretch).
func (s *Style) AlignItems() geom.Optional[AlignItems] {
	return get(s, func(e *engine.Style) geom.Optional[AlignItems] { return alignFromEngine(e.AlignItems) })
}

// SetAlignItems sets or clears the default child alignment.
func (s *Style) SetAlignItems(a geom.Optional[AlignItems]) error {
	return set(s, a, alignToEngine, func(e *engine.Style, v engine.Align) { e.AlignItems = v })
}

func (s *Style) AlignSelf() geom.Optional[AlignItems] {
	return get(s, func(e *engine.Style) geom.Optional[AlignItems] { return alignFromEngine(e.AlignSelf) })
}

// SetAlignSelf overrides the parent's AlignItems for this node.
func (s *Style) SetAlignSelf(a geom.Optional[AlignItems]) error {
	return set(s, a, alignToEngine, func(e *engine.Style, v engine.Align) { e.AlignSelf = v })
}

func (s *Style) JustifyItems() geom.Optional[AlignItems] {
	return get(s, func(e *engine.Style) geom.Optional[AlignItems] { return alignFromEngine(e.JustifyItems) })
}

// SetJustifyItems sets the default inline-axis alignment of grid items.
func (s *Style) SetJustifyItems(a geom.Optional[AlignItems]) error {
	return set(s, a, alignToEngine, func(e *engine.Style, v engine.Align) { e.JustifyItems = v })
}

func (s *Style) JustifySelf() geom.Optional[AlignItems] {
	return get(s, func(e *engine.Style) geom.Optional[AlignItems] { return alignFromEngine(e.JustifySelf) })
}

// SetJustifySelf overrides the parent's JustifyItems for this node.
func (s *Style) SetJustifySelf(a geom.Optional[AlignItems]) error {
	return set(s, a, alignToEngine, func(e *engine.Style, v engine.Align) { e.JustifySelf = v })
}

func (s *Style) AlignContent() geom.Optional[AlignContent] {
	return get(s, func(e *engine.Style) geom.Optional[AlignContent] { return contentFromEngine(e.AlignContent) })
}

// SetAlignContent sets the distribution of lines or tracks along the cross axis.
func (s *Style) SetAlignContent(a geom.Optional[AlignContent]) error {
	return set(s, a, contentToEngine, func(e *engine.Style, v engine.Content) { e.AlignContent = v })
}

func (s *Style) JustifyContent() geom.Optional[AlignContent] {
	return get(s, func(e *engine.Style) geom.Optional[AlignContent] { return contentFromEngine(e.JustifyContent) })
}

// SetJustifyContent sets the distribution of items along the main axis.
func (s *Style) SetJustifyContent(a geom.Optional[AlignContent]) error {
	return set(s, a, contentToEngine, func(e *engine.Style, v engine.Content) { e.JustifyContent = v })
}

// Gap returns the spacing between columns (Width) and rows (Height).
func (s *Style) Gap() geom.Size[LengthPercentage] {
	return get(s, func(e *engine.Style) geom.Size[LengthPercentage] { return geom.MapSize(e.Gap, lpFromEngine) })
}

// SetGap sets the gutters between rows and columns. Auto is rejected.
func (s *Style) SetGap(g geom.Size[LengthPercentage]) error {
	return set(s, g, sizeTo(lpToEngine), func(e *engine.Style, v geom.Size[engine.Dim]) { e.Gap = v })
}

// =============================================================================
// Flexbox
// =============================================================================

// FlexDirection returns the main axis.
func (s *Style) FlexDirection() FlexDirection {
	return get(s, func(e *engine.Style) FlexDirection { return FlexDirection(e.FlexDirection) })
}

// SetFlexDirection sets the main axis. Unknown values are rejected.
func (s *Style) SetFlexDirection(d FlexDirection) error {
	return set(s, d, flexDirectionToEngine, func(e *engine.Style, v engine.FlexDirection) { e.FlexDirection = v })
}

// FlexWrap returns whether items wrap onto new lines.
func (s *Style) FlexWrap() FlexWrap {
	return get(s, func(e *engine.Style) FlexWrap { return FlexWrap(e.FlexWrap) })
}

// SetFlexWrap sets the wrapping mode. Unknown values are rejected.
func (s *Style) SetFlexWrap(w FlexWrap) error {
	return set(s, w, flexWrapToEngine, func(e *engine.Style, v engine.FlexWrap) { e.FlexWrap = v })
}

// FlexBasis returns the initial main size before growing or shrinking.
func (s *Style) FlexBasis() Dimension {
	return get(s, func(e *engine.Style) Dimension { return dimensionFromEngine(e.FlexBasis) })
}

// SetFlexBasis sets the initial main size, validated like SetSize.
func (s *Style) SetFlexBasis(d Dimension) error {
	return set(s, d, dimensionToEngine, func(e *engine.Style, v engine.Dim) { e.FlexBasis = v })
}

// FlexGrow returns the share of free space the node takes.
func (s *Style) FlexGrow() float32 {
	return get(s, func(e *engine.Style) float32 { return e.FlexGrow })
}

// SetFlexGrow rejects negative and non-finite factors.
func (s *Style) SetFlexGrow(g float32) error {
	return set(s, g, nonNegative("flex grow"), func(e *engine.Style, v float32) { e.FlexGrow = v })
}

// FlexShrink returns the share of overflow the node gives up.
func (s *Style) FlexShrink() float32 {
	return get(s, func(e *engine.Style) float32 { return e.FlexShrink })
}

// SetFlexShrink rejects negative and non-finite factors.
func (s *Style) SetFlexShrink(f float32) error {
	return set(s, f, nonNegative("flex shrink"), func(e *engine.Style, v float32) { e.FlexShrink = v })
}

// =============================================================================
// Grid
// =============================================================================

func (s *Style) GridTemplateRows() []TrackSizingFunction {
	return get(s, func(e *engine.Style) []TrackSizingFunction {
		return geom.MapSlice(e.GridTemplateRows, trackSizingFromEngine)
	})
}

// SetGridTemplateRows sets the explicit rows. Repeats need a positive
// count and at least one track, and fractions must be non-negative.
func (s *Style) SetGridTemplateRows(t []TrackSizingFunction) error {
	return set(s, t, sliceTo(trackSizingToEngine), func(e *engine.Style, v []engine.TrackList) { e.GridTemplateRows = v })
}

func (s *Style) GridTemplateColumns() []TrackSizingFunction {
	return get(s, func(e *engine.Style) []TrackSizingFunction {
		return geom.MapSlice(e.GridTemplateColumns, trackSizingFromEngine)
	})
}

// SetGridTemplateColumns sets the explicit columns, validated like
// SetGridTemplateRows.
func (s *Style) SetGridTemplateColumns(t []TrackSizingFunction) error {
	return set(s, t, sliceTo(trackSizingToEngine), func(e *engine.Style, v []engine.TrackList) { e.GridTemplateColumns = v })
}

// GridAutoRows returns the sizes of implicitly created rows.
func (s *Style) GridAutoRows() []NonRepeatedTrackSizingFunction {
	return get(s, func(e *engine.Style) []NonRepeatedTrackSizingFunction {
		return geom.MapSlice(e.GridAutoRows, trackFromEngine)
	})
}

// SetGridAutoRows sets the size of implicitly created rows.
func (s *Style) SetGridAutoRows(t []NonRepeatedTrackSizingFunction) error {
	return set(s, t, sliceTo(trackToEngine), func(e *engine.Style, v []engine.TrackPair) { e.GridAutoRows = v })
}

// GridAutoColumns returns the sizes of implicitly created columns.
func (s *Style) GridAutoColumns() []NonRepeatedTrackSizingFunction {
	return get(s, func(e *engine.Style) []NonRepeatedTrackSizingFunction {
		return geom.MapSlice(e.GridAutoColumns, trackFromEngine)
	})
}

// SetGridAutoColumns sets the size of implicitly created columns.
func (s *Style) SetGridAutoColumns(t []NonRepeatedTrackSizingFunction) error {
	return set(s, t, sliceTo(trackToEngine), func(e *engine.Style, v []engine.TrackPair) { e.GridAutoColumns = v })
}

// GridAutoFlow returns how auto-placed items fill the grid.
func (s *Style) GridAutoFlow() GridAutoFlow {
	return get(s, func(e *engine.Style) GridAutoFlow { return GridAutoFlow(e.GridAutoFlow) })
}

// SetGridAutoFlow sets the auto-placement order. Unknown values are rejected.
func (s *Style) SetGridAutoFlow(f GridAutoFlow) error {
	return set(s, f, gridAutoFlowToEngine, func(e *engine.Style, v engine.GridAutoFlow) { e.GridAutoFlow = v })
}

// GridRow returns the row lines a grid item starts and ends at.
func (s *Style) GridRow() geom.Line[GridPlacement] {
	return get(s, func(e *engine.Style) geom.Line[GridPlacement] { return geom.MapLine(e.GridRow, placementFromEngine) })
}

// SetGridRow sets the row placement. Line 0 and span 0 are rejected.
func (s *Style) SetGridRow(l geom.Line[GridPlacement]) error {
	return set(s, l, lineTo(placementToEngine), func(e *engine.Style, v geom.Line[engine.Placement]) { e.GridRow = v })
}

// GridColumn returns the column lines a grid item starts and ends at.
func (s *Style) GridColumn() geom.Line[GridPlacement] {
	return get(s, func(e *engine.Style) geom.Line[GridPlacement] {
		return geom.MapLine(e.GridColumn, placementFromEngine)
	})
}

// SetGridColumn sets the column placement, validated like SetGridRow.
func (s *Style) SetGridColumn(l geom.Line[GridPlacement]) error {
	return set(s, l, lineTo(placementToEngine), func(e *engine.Style, v geom.Line[engine.Placement]) { e.GridColumn = v })
}

// =============================================================================
// Shape adapters
// =============================================================================

func sizeTo[T, U any](f func(T) (U, error)) func(geom.Size[T]) (geom.Size[U], error) {
	return func(s geom.Size[T]) (geom.Size[U], error) { return geom.TryMapSize(s, f) }
}

func rectTo[T, U any](f func(T) (U, error)) func(geom.Rect[T]) (geom.Rect[U], error) {
	return func(r geom.Rect[T]) (geom.Rect[U], error) { return geom.TryMapRect(r, f) }
}

func lineTo[T, U any](f func(T) (U, error)) func(geom.Line[T]) (geom.Line[U], error) {
	return func(l geom.Line[T]) (geom.Line[U], error) { return geom.TryMapLine(l, f) }
}

func sliceTo[T, U any](f func(T) (U, error)) func([]T) ([]U, error) {
	return func(s []T) ([]U, error) { return geom.TryMapSlice(s, f) }
}

func nonNegative(name string) func(float32) (float32, error) {
	return func(v float32) (float32, error) {
		return v, errors.ValidateNonNegative(name, v)
	}
}
