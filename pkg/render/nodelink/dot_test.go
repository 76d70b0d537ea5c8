package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/layout"
)

func sample() *document.LayoutNode {
	return &document.LayoutNode{
		ID:   1,
		Name: "root",
		Layout: layout.Layout{
			Size: geom.Size[float32]{Width: 200, Height: 100},
		},
		Children: []*document.LayoutNode{
			{ID: 2, Name: "left", Layout: layout.Layout{Size: geom.Size[float32]{Width: 100, Height: 100}}},
			{ID: 3, Text: "hi", Layout: layout.Layout{
				Location: geom.Point[float32]{X: 100},
				Size:     geom.Size[float32]{Width: 14, Height: 13},
			}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"1" [label="root"];`,
		`"2" [label="left"];`,
		`"1" -> "2";`,
		`"1" -> "3";`,
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "at 0,0") {
		t.Error("ToDOT() without Detailed includes geometry")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})
	if !strings.Contains(dot, `at 100,0\n14×13`) {
		t.Errorf("ToDOT(Detailed) missing geometry for text node\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
