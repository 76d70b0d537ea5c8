package boxes

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/boxtree/pkg/document"
)

func computed(t *testing.T) *document.LayoutNode {
	t.Helper()
	doc := &document.Document{
		Root: document.Node{
			ID: "card",
			Style: document.StyleSpec{
				Width:   "120",
				Padding: "4",
				Border:  "1",
			},
			Children: []document.Node{
				{ID: "title", Text: "a <b> & c"},
			},
		},
	}
	out, err := document.Compute(context.Background(), doc, document.Options{})
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	return out
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(computed(t), WithMargin(0), WithLabels()))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.0 23.0"`) {
		t.Errorf("RenderSVG() header = %s", strings.SplitN(svg, "\n", 2)[0])
	}
	for _, want := range []string{
		`<rect x="0" y="0" width="120" height="23" fill="#6b7280"/>`,
		`<rect x="1" y="1" width="118" height="21" fill="#c7d2fe"/>`,
		`<rect x="5" y="5" width="110" height="13" fill="#e8f1fb"/>`,
		`a &lt;b&gt; &amp; c</text>`,
		`>card</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("RenderSVG() missing %s\n%s", want, svg)
		}
	}
	if got := strings.Count(svg, `<g id="node-`); got != 2 {
		t.Errorf("RenderSVG() drew %d nodes, want 2", got)
	}
}

func TestRenderSVGWrapsText(t *testing.T) {
	n := &document.LayoutNode{ID: 1, Text: "one two three"}
	n.Layout.Size.Width = 40
	n.Layout.Size.Height = 39
	svg := string(RenderSVG(n))
	if got := strings.Count(svg, "<text "); got != 3 {
		t.Errorf("RenderSVG() wrote %d text lines, want 3\n%s", got, svg)
	}
}

func TestRenderSVGSkipsEmptyBoxes(t *testing.T) {
	n := &document.LayoutNode{ID: 7}
	svg := string(RenderSVG(n))
	if strings.Contains(svg, "node-7") {
		t.Errorf("RenderSVG() drew a zero-sized node\n%s", svg)
	}
}
