package document

import (
	"fmt"
	"strings"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// StyleSpec is the textual form of a layout.Style. Empty fields keep the
// property's initial value.
type StyleSpec struct {
	Display        string   `json:"display,omitempty" yaml:"display,omitempty" toml:"display,omitempty"`
	Position       string   `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty"`
	Overflow       string   `json:"overflow,omitempty" yaml:"overflow,omitempty" toml:"overflow,omitempty"`
	ScrollbarWidth *float32 `json:"scrollbar_width,omitempty" yaml:"scrollbar_width,omitempty" toml:"scrollbar_width,omitempty"`

	Width       string   `json:"width,omitempty" yaml:"width,omitempty" toml:"width,omitempty"`
	Height      string   `json:"height,omitempty" yaml:"height,omitempty" toml:"height,omitempty"`
	MinWidth    string   `json:"min_width,omitempty" yaml:"min_width,omitempty" toml:"min_width,omitempty"`
	MinHeight   string   `json:"min_height,omitempty" yaml:"min_height,omitempty" toml:"min_height,omitempty"`
	MaxWidth    string   `json:"max_width,omitempty" yaml:"max_width,omitempty" toml:"max_width,omitempty"`
	MaxHeight   string   `json:"max_height,omitempty" yaml:"max_height,omitempty" toml:"max_height,omitempty"`
	AspectRatio *float32 `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty" toml:"aspect_ratio,omitempty"`

	Inset   string `json:"inset,omitempty" yaml:"inset,omitempty" toml:"inset,omitempty"`
	Margin  string `json:"margin,omitempty" yaml:"margin,omitempty" toml:"margin,omitempty"`
	Padding string `json:"padding,omitempty" yaml:"padding,omitempty" toml:"padding,omitempty"`
	Border  string `json:"border,omitempty" yaml:"border,omitempty" toml:"border,omitempty"`
	Gap     string `json:"gap,omitempty" yaml:"gap,omitempty" toml:"gap,omitempty"`

	AlignItems     string `json:"align_items,omitempty" yaml:"align_items,omitempty" toml:"align_items,omitempty"`
	AlignSelf      string `json:"align_self,omitempty" yaml:"align_self,omitempty" toml:"align_self,omitempty"`
	JustifyItems   string `json:"justify_items,omitempty" yaml:"justify_items,omitempty" toml:"justify_items,omitempty"`
	JustifySelf    string `json:"justify_self,omitempty" yaml:"justify_self,omitempty" toml:"justify_self,omitempty"`
	AlignContent   string `json:"align_content,omitempty" yaml:"align_content,omitempty" toml:"align_content,omitempty"`
	JustifyContent string `json:"justify_content,omitempty" yaml:"justify_content,omitempty" toml:"justify_content,omitempty"`

	FlexDirection string   `json:"flex_direction,omitempty" yaml:"flex_direction,omitempty" toml:"flex_direction,omitempty"`
	FlexWrap      string   `json:"flex_wrap,omitempty" yaml:"flex_wrap,omitempty" toml:"flex_wrap,omitempty"`
	FlexBasis     string   `json:"flex_basis,omitempty" yaml:"flex_basis,omitempty" toml:"flex_basis,omitempty"`
	FlexGrow      *float32 `json:"flex_grow,omitempty" yaml:"flex_grow,omitempty" toml:"flex_grow,omitempty"`
	FlexShrink    *float32 `json:"flex_shrink,omitempty" yaml:"flex_shrink,omitempty" toml:"flex_shrink,omitempty"`

	GridTemplateRows    string `json:"grid_template_rows,omitempty" yaml:"grid_template_rows,omitempty" toml:"grid_template_rows,omitempty"`
	GridTemplateColumns string `json:"grid_template_columns,omitempty" yaml:"grid_template_columns,omitempty" toml:"grid_template_columns,omitempty"`
	GridAutoRows        string `json:"grid_auto_rows,omitempty" yaml:"grid_auto_rows,omitempty" toml:"grid_auto_rows,omitempty"`
	GridAutoColumns     string `json:"grid_auto_columns,omitempty" yaml:"grid_auto_columns,omitempty" toml:"grid_auto_columns,omitempty"`
	GridAutoFlow        string `json:"grid_auto_flow,omitempty" yaml:"grid_auto_flow,omitempty" toml:"grid_auto_flow,omitempty"`
	GridRow             string `json:"grid_row,omitempty" yaml:"grid_row,omitempty" toml:"grid_row,omitempty"`
	GridColumn          string `json:"grid_column,omitempty" yaml:"grid_column,omitempty" toml:"grid_column,omitempty"`
}

// Style converts the spec to a layout.Style.
func (s StyleSpec) Style() (*layout.Style, error) {
	st := layout.NewStyle()
	steps := []struct {
		name  string
		value bool
		apply func() error
	}{
		{"display", s.Display != "", func() error { return enum(s.Display, st.SetDisplay) }},
		{"position", s.Position != "", func() error { return enum(s.Position, st.SetPosition) }},
		{"overflow", s.Overflow != "", func() error {
			p, err := pair(s.Overflow, parseEnum[layout.Overflow])
			if err != nil {
				return err
			}
			return st.SetOverflow(geom.Point[layout.Overflow]{X: p.Width, Y: p.Height})
		}},
		{"scrollbar_width", s.ScrollbarWidth != nil, func() error { return st.SetScrollbarWidth(*s.ScrollbarWidth) }},

		{"size", s.Width != "" || s.Height != "", func() error {
			return sizeOf(s.Width, s.Height, st.Size(), st.SetSize)
		}},
		{"min_size", s.MinWidth != "" || s.MinHeight != "", func() error {
			return sizeOf(s.MinWidth, s.MinHeight, st.MinSize(), st.SetMinSize)
		}},
		{"max_size", s.MaxWidth != "" || s.MaxHeight != "", func() error {
			return sizeOf(s.MaxWidth, s.MaxHeight, st.MaxSize(), st.SetMaxSize)
		}},
		{"aspect_ratio", s.AspectRatio != nil, func() error { return st.SetAspectRatio(geom.Some(*s.AspectRatio)) }},

		{"inset", s.Inset != "", func() error { return edges(s.Inset, layout.ParseLengthPercentageAuto, st.SetInset) }},
		{"margin", s.Margin != "", func() error { return edges(s.Margin, layout.ParseLengthPercentageAuto, st.SetMargin) }},
		{"padding", s.Padding != "", func() error { return edges(s.Padding, layout.ParseLengthPercentage, st.SetPadding) }},
		{"border", s.Border != "", func() error { return edges(s.Border, layout.ParseLengthPercentage, st.SetBorder) }},
		{"gap", s.Gap != "", func() error {
			g, err := pair(s.Gap, layout.ParseLengthPercentage)
			if err != nil {
				return err
			}
			return st.SetGap(g)
		}},

		{"align_items", s.AlignItems != "", func() error { return optional(s.AlignItems, st.SetAlignItems) }},
		{"align_self", s.AlignSelf != "", func() error { return optional(s.AlignSelf, st.SetAlignSelf) }},
		{"justify_items", s.JustifyItems != "", func() error { return optional(s.JustifyItems, st.SetJustifyItems) }},
		{"justify_self", s.JustifySelf != "", func() error { return optional(s.JustifySelf, st.SetJustifySelf) }},
		{"align_content", s.AlignContent != "", func() error { return optional(s.AlignContent, st.SetAlignContent) }},
		{"justify_content", s.JustifyContent != "", func() error { return optional(s.JustifyContent, st.SetJustifyContent) }},

		{"flex_direction", s.FlexDirection != "", func() error { return enum(s.FlexDirection, st.SetFlexDirection) }},
		{"flex_wrap", s.FlexWrap != "", func() error { return enum(s.FlexWrap, st.SetFlexWrap) }},
		{"flex_basis", s.FlexBasis != "", func() error {
			d, err := layout.ParseDimension(s.FlexBasis)
			if err != nil {
				return err
			}
			return st.SetFlexBasis(d)
		}},
		{"flex_grow", s.FlexGrow != nil, func() error { return st.SetFlexGrow(*s.FlexGrow) }},
		{"flex_shrink", s.FlexShrink != nil, func() error { return st.SetFlexShrink(*s.FlexShrink) }},

		{"grid_template_rows", s.GridTemplateRows != "", func() error {
			t, err := ParseTemplate(s.GridTemplateRows)
			if err != nil {
				return err
			}
			return st.SetGridTemplateRows(t)
		}},
		{"grid_template_columns", s.GridTemplateColumns != "", func() error {
			t, err := ParseTemplate(s.GridTemplateColumns)
			if err != nil {
				return err
			}
			return st.SetGridTemplateColumns(t)
		}},
		{"grid_auto_rows", s.GridAutoRows != "", func() error {
			t, err := ParseTracks(s.GridAutoRows)
			if err != nil {
				return err
			}
			return st.SetGridAutoRows(t)
		}},
		{"grid_auto_columns", s.GridAutoColumns != "", func() error {
			t, err := ParseTracks(s.GridAutoColumns)
			if err != nil {
				return err
			}
			return st.SetGridAutoColumns(t)
		}},
		{"grid_auto_flow", s.GridAutoFlow != "", func() error { return enum(s.GridAutoFlow, st.SetGridAutoFlow) }},
		{"grid_row", s.GridRow != "", func() error { return placement(s.GridRow, st.SetGridRow) }},
		{"grid_column", s.GridColumn != "", func() error { return placement(s.GridColumn, st.SetGridColumn) }},
	}
	for _, step := range steps {
		if !step.value {
			continue
		}
		if err := step.apply(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return st, nil
}

type textEnum[E any] interface {
	*E
	UnmarshalText([]byte) error
}

func parseEnum[E any, P textEnum[E]](s string) (E, error) {
	var v E
	err := P(&v).UnmarshalText([]byte(s))
	return v, err
}

func enum[E any, P textEnum[E]](s string, set func(E) error) error {
	v, err := parseEnum[E, P](s)
	if err != nil {
		return err
	}
	return set(v)
}

// optional parses an alignment; "auto" or "unset" clears it.
func optional[E any, P textEnum[E]](s string, set func(geom.Optional[E]) error) error {
	switch strings.TrimSpace(s) {
	case "auto", "unset":
		return set(geom.None[E]())
	}
	v, err := parseEnum[E, P](s)
	if err != nil {
		return err
	}
	return set(geom.Some(v))
}

// pair parses "a" or "a b" into width and height.
func pair[T any](s string, parse func(string) (T, error)) (geom.Size[T], error) {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 2 {
		return geom.Size[T]{}, errors.New(errors.ErrCodeInvalidInput, "want one or two values, got %q", s)
	}
	w, err := parse(parts[0])
	if err != nil {
		return geom.Size[T]{}, err
	}
	h := w
	if len(parts) == 2 {
		if h, err = parse(parts[1]); err != nil {
			return geom.Size[T]{}, err
		}
	}
	return geom.Size[T]{Width: w, Height: h}, nil
}

// edges parses a CSS edge shorthand: top [right [bottom [left]]].
func edges[T any](s string, parse func(string) (T, error), set func(geom.Rect[T]) error) error {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 4 {
		return errors.New(errors.ErrCodeInvalidInput, "want one to four values, got %q", s)
	}
	vals, err := geom.TryMapSlice(parts, parse)
	if err != nil {
		return err
	}
	var r geom.Rect[T]
	switch len(vals) {
	case 1:
		r = geom.Edges(vals[0])
	case 2:
		r = geom.Rect[T]{Top: vals[0], Bottom: vals[0], Left: vals[1], Right: vals[1]}
	case 3:
		r = geom.Rect[T]{Top: vals[0], Left: vals[1], Right: vals[1], Bottom: vals[2]}
	case 4:
		r = geom.Rect[T]{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
	return set(r)
}

func sizeOf(w, h string, current geom.Size[layout.Dimension], set func(geom.Size[layout.Dimension]) error) error {
	var err error
	if w != "" {
		if current.Width, err = layout.ParseDimension(w); err != nil {
			return err
		}
	}
	if h != "" {
		if current.Height, err = layout.ParseDimension(h); err != nil {
			return err
		}
	}
	return set(current)
}

// placement parses "start" or "start / end".
func placement(s string, set func(geom.Line[layout.GridPlacement]) error) error {
	start, end, _ := strings.Cut(s, "/")
	var l geom.Line[layout.GridPlacement]
	var err error
	if l.Start, err = layout.ParseGridPlacement(start); err != nil {
		return err
	}
	if l.End, err = layout.ParseGridPlacement(end); err != nil {
		return err
	}
	return set(l)
}
