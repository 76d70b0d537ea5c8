package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// Spec returns the textual form of s. Every property is filled in, so the
// result describes s completely; Spec(s).Style() rebuilds an equal style
// up to float formatting of percentages.
func Spec(s *layout.Style) StyleSpec {
	ov := s.Overflow()
	scroll := s.ScrollbarWidth()
	grow, shrink := s.FlexGrow(), s.FlexShrink()
	size, minSize, maxSize := s.Size(), s.MinSize(), s.MaxSize()
	gap := s.Gap()

	spec := StyleSpec{
		Display:        s.Display().String(),
		Position:       s.Position().String(),
		Overflow:       ov.X.String() + " " + ov.Y.String(),
		ScrollbarWidth: &scroll,

		Width:     size.Width.String(),
		Height:    size.Height.String(),
		MinWidth:  minSize.Width.String(),
		MinHeight: minSize.Height.String(),
		MaxWidth:  maxSize.Width.String(),
		MaxHeight: maxSize.Height.String(),

		Inset:   rect(s.Inset()),
		Margin:  rect(s.Margin()),
		Padding: rect(s.Padding()),
		Border:  rect(s.Border()),
		Gap:     gap.Width.String() + " " + gap.Height.String(),

		AlignItems:     unset(s.AlignItems()),
		AlignSelf:      unset(s.AlignSelf()),
		JustifyItems:   unset(s.JustifyItems()),
		JustifySelf:    unset(s.JustifySelf()),
		AlignContent:   unset(s.AlignContent()),
		JustifyContent: unset(s.JustifyContent()),

		FlexDirection: s.FlexDirection().String(),
		FlexWrap:      s.FlexWrap().String(),
		FlexBasis:     s.FlexBasis().String(),
		FlexGrow:      &grow,
		FlexShrink:    &shrink,

		GridTemplateRows:    FormatTemplate(s.GridTemplateRows()),
		GridTemplateColumns: FormatTemplate(s.GridTemplateColumns()),
		GridAutoRows:        FormatTracks(s.GridAutoRows()),
		GridAutoColumns:     FormatTracks(s.GridAutoColumns()),
		GridAutoFlow:        s.GridAutoFlow().String(),
		GridRow:             line(s.GridRow()),
		GridColumn:          line(s.GridColumn()),
	}
	if r := s.AspectRatio(); r.Valid {
		spec.AspectRatio = &r.Value
	}
	return spec
}

func rect[T fmt.Stringer](r geom.Rect[T]) string {
	return strings.Join([]string{r.Top.String(), r.Right.String(), r.Bottom.String(), r.Left.String()}, " ")
}

func unset[T fmt.Stringer](o geom.Optional[T]) string {
	if !o.Valid {
		return "unset"
	}
	return o.Value.String()
}

func line(l geom.Line[layout.GridPlacement]) string {
	return l.Start.String() + " / " + l.End.String()
}

// FormatTemplate is the inverse of ParseTemplate.
func FormatTemplate(t []layout.TrackSizingFunction) string {
	parts := make([]string, len(t))
	for i, f := range t {
		if f.Kind == layout.TrackSingle {
			parts[i] = formatTrack(f.Single)
			continue
		}
		count := strconv.Itoa(int(f.Repetition.Count))
		switch f.Repetition.Kind {
		case layout.RepeatAutoFill:
			count = "auto-fill"
		case layout.RepeatAutoFit:
			count = "auto-fit"
		}
		parts[i] = fmt.Sprintf("repeat(%s, %s)", count, FormatTracks(f.Tracks))
	}
	return strings.Join(parts, " ")
}

// FormatTracks is the inverse of ParseTracks.
func FormatTracks(t []layout.NonRepeatedTrackSizingFunction) string {
	parts := make([]string, len(t))
	for i, tr := range t {
		parts[i] = formatTrack(tr)
	}
	return strings.Join(parts, " ")
}

func formatTrack(t layout.NonRepeatedTrackSizingFunction) string {
	lo, hi := formatMin(t.Min), formatMax(t.Max)
	switch {
	case t.Max.Kind == layout.MaxTrackFitContent:
		return hi
	case t.Max.Kind == layout.MaxTrackFraction && t.Min.Kind == layout.MinTrackAuto:
		return hi
	case lo == hi:
		return lo
	}
	return fmt.Sprintf("minmax(%s, %s)", lo, hi)
}

func formatMin(m layout.MinTrackSizingFunction) string {
	switch m.Kind {
	case layout.MinTrackMinContent:
		return "min-content"
	case layout.MinTrackMaxContent:
		return "max-content"
	case layout.MinTrackAuto:
		return "auto"
	}
	return m.Fixed.String()
}

func formatMax(m layout.MaxTrackSizingFunction) string {
	switch m.Kind {
	case layout.MaxTrackMinContent:
		return "min-content"
	case layout.MaxTrackMaxContent:
		return "max-content"
	case layout.MaxTrackAuto:
		return "auto"
	case layout.MaxTrackFitContent:
		return "fit-content(" + m.Value.String() + ")"
	case layout.MaxTrackFraction:
		return strconv.FormatFloat(float64(m.Fraction), 'g', -1, 32) + "fr"
	}
	return m.Value.String()
}
