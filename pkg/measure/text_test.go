package measure

import (
	"slices"
	"testing"

	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

// basicfont.Face7x13 advances 7px per glyph and has a 13px line height.

func space(w layout.AvailableSpace) geom.Size[layout.AvailableSpace] {
	return geom.Size[layout.AvailableSpace]{Width: w, Height: layout.MaxContent()}
}

func TestMeasure(t *testing.T) {
	m := NewText(nil)
	const id = layout.NodeID(1)
	m.Set(id, "lorem ipsum dolor")
	none := geom.Size[geom.Optional[float32]]{}

	tests := []struct {
		name  string
		known geom.Size[geom.Optional[float32]]
		avail geom.Size[layout.AvailableSpace]
		want  geom.Size[float32]
	}{
		{"max-content", none, space(layout.MaxContent()), geom.Size[float32]{Width: 119, Height: 13}},
		{"min-content", none, space(layout.MinContent()), geom.Size[float32]{Width: 35, Height: 39}},
		{"definite", none, space(layout.Definite(90)), geom.Size[float32]{Width: 77, Height: 26}},
		{"known width", geom.Size[geom.Optional[float32]]{Width: geom.Some[float32](50)}, space(layout.MaxContent()),
			geom.Size[float32]{Width: 50, Height: 39}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Measure(tt.known, tt.avail, id); got != tt.want {
				t.Errorf("Measure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeasureUnknownNode(t *testing.T) {
	m := NewText(nil)
	got := m.Measure(geom.Size[geom.Optional[float32]]{}, space(layout.MaxContent()), 99)
	if got != (geom.Size[float32]{}) {
		t.Errorf("Measure(unknown) = %v, want zero", got)
	}
}

func TestWrap(t *testing.T) {
	m := NewText(nil)
	tests := []struct {
		words []string
		limit float32
		want  []string
	}{
		{[]string{"a", "b", "c"}, 1000, []string{"a b c"}},
		{[]string{"a", "b", "c"}, 21, []string{"a b", "c"}},
		{[]string{"toolongword", "x"}, 14, []string{"toolongword", "x"}},
		{nil, 10, nil},
	}
	for _, tt := range tests {
		if got := m.Wrap(tt.words, tt.limit); !slices.Equal(got, tt.want) {
			t.Errorf("Wrap(%v, %v) = %q, want %q", tt.words, tt.limit, got, tt.want)
		}
	}
}

func TestTextInLayout(t *testing.T) {
	m := NewText(nil)
	tree := layout.NewTree()
	leaf, _ := tree.NewLeafWithContext(nil)
	m.Set(leaf, "hello world")

	err := tree.ComputeLayoutWithMeasure(leaf, geom.Size[layout.AvailableSpace]{
		Width: layout.MaxContent(), Height: layout.MaxContent(),
	}, m)
	if err != nil {
		t.Fatalf("ComputeLayoutWithMeasure() error: %v", err)
	}
	l, _ := tree.Layout(leaf)
	if want := (geom.Size[float32]{Width: 77, Height: 13}); l.Size != want {
		t.Errorf("Size = %v, want %v", l.Size, want)
	}

	m.Delete(leaf)
	if _, ok := m.Get(leaf); ok {
		t.Error("Get() after Delete found content")
	}
}
