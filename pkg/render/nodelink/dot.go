package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/boxtree/pkg/document"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds location and size to node labels.
	Detailed bool
}

// ToDOT converts a computed layout tree to Graphviz DOT.
func ToDOT(root *document.LayoutNode, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root.Walk(func(n *document.LayoutNode, _ int) {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID.String(), strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
	})

	buf.WriteString("\n")
	root.Walk(func(n *document.LayoutNode, _ int) {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID.String(), c.ID.String())
		}
	})

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *document.LayoutNode, detailed bool) string {
	label := n.Label()
	if n.Text != "" {
		label += "\n" + strconv.Quote(n.Text)
	}
	if !detailed {
		return label
	}
	l := n.Layout
	return fmt.Sprintf("%s\nat %g,%g\n%g×%g", label, l.Location.X, l.Location.Y, l.Size.Width, l.Size.Height)
}

func fmtAttrs(n *document.LayoutNode, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Text != "" {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a plain
// viewBox so the diagram scales with its container.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
