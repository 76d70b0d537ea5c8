// Package render turns computed layouts into pictures.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [boxes] draws every node of a computed layout as nested rectangles,
//     with border and padding bands and text runs in place.
//   - [nodelink] draws the tree structure as a Graphviz diagram, one box
//     per node with an arrow to each child.
//
// Both produce SVG. The [ToPDF] and [ToPNG] functions convert any SVG to
// other formats using the external rsvg-convert tool (from librsvg).
//
//	svg := boxes.RenderSVG(root)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [boxes]: github.com/matzehuels/boxtree/pkg/render/boxes
// [nodelink]: github.com/matzehuels/boxtree/pkg/render/nodelink
package render
