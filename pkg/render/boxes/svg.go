// Package boxes draws computed layouts as SVG.
//
// Each node becomes a group of three rectangles: its border box, the band
// between border and padding, and its content box. Text nodes also get their
// text, wrapped the way it was measured.
package boxes

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/measure"
)

var palette = []string{"#e8f1fb", "#fdf2e3", "#e9f7ef", "#f7e9f5", "#f5f5dc", "#eef0f3"}

const (
	borderFill  = "#6b7280"
	paddingFill = "#c7d2fe"
	strokeColor = "#374151"
)

type Option func(*renderer)

type renderer struct {
	text   *measure.Text
	labels bool
	margin float64
}

// WithText sets the measurer used to wrap text; it must be the one the
// layout was computed with.
func WithText(t *measure.Text) Option { return func(r *renderer) { r.text = t } }

// WithLabels prints each node's name in its top-left corner.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithMargin adds whitespace around the drawing.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }

// RenderSVG draws root and its subtree.
func RenderSVG(root *document.LayoutNode, opts ...Option) []byte {
	r := renderer{margin: 8}
	for _, opt := range opts {
		opt(&r)
	}
	if r.text == nil {
		r.text = measure.NewText(nil)
	}

	w, h := extent(root)
	w += 2 * r.margin
	h += 2 * r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <g transform="translate(%g %g)" font-family="monospace" font-size="11">`+"\n", r.margin, r.margin)
	root.Walk(func(n *document.LayoutNode, depth int) {
		r.node(&buf, n, depth)
	})
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

// extent is the bottom-right corner of the furthest box.
func extent(root *document.LayoutNode) (w, h float64) {
	root.Walk(func(n *document.LayoutNode, _ int) {
		w = max(w, float64(n.Absolute.X+n.Layout.Size.Width))
		h = max(h, float64(n.Absolute.Y+n.Layout.Size.Height))
	})
	return w, h
}

func (r *renderer) node(buf *bytes.Buffer, n *document.LayoutNode, depth int) {
	l := n.Layout
	x, y := float64(n.Absolute.X), float64(n.Absolute.Y)
	w, h := float64(l.Size.Width), float64(l.Size.Height)
	if w <= 0 && h <= 0 {
		return
	}

	fmt.Fprintf(buf, `    <g id="node-%s">`+"\n", n.ID)
	fmt.Fprintf(buf, `      <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
		x, y, w, h, borderFill)

	bl, bt := float64(l.Border.Left), float64(l.Border.Top)
	bw := w - bl - float64(l.Border.Right)
	bh := h - bt - float64(l.Border.Bottom)
	if bw > 0 && bh > 0 {
		fmt.Fprintf(buf, `      <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
			x+bl, y+bt, bw, bh, paddingFill)
	}

	pl, pt := bl+float64(l.Padding.Left), bt+float64(l.Padding.Top)
	cw := bw - float64(l.Padding.Left+l.Padding.Right)
	ch := bh - float64(l.Padding.Top+l.Padding.Bottom)
	if cw > 0 && ch > 0 {
		fmt.Fprintf(buf, `      <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
			x+pl, y+pt, cw, ch, palette[depth%len(palette)])
	}
	fmt.Fprintf(buf, `      <rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="%s" stroke-width="0.5"/>`+"\n",
		x, y, w, h, strokeColor)

	if n.Text != "" {
		lines := r.text.Wrap(strings.Fields(n.Text), float32(max(cw, 0)))
		lh := float64(r.text.LineHeight())
		for i, line := range lines {
			fmt.Fprintf(buf, `      <text x="%g" y="%g" dominant-baseline="hanging">%s</text>`+"\n",
				x+pl, y+pt+float64(i)*lh, escape(line))
		}
	}
	if r.labels && n.Name != "" {
		fmt.Fprintf(buf, `      <text x="%g" y="%g" font-size="8" fill="%s" dominant-baseline="hanging">%s</text>`+"\n",
			x+2, y+2, strokeColor, escape(n.Name))
	}
	buf.WriteString("    </g>\n")
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
