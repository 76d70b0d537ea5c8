// Package nodelink renders layout trees as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz: one
// box per node, with an arrow from each parent to its children in document
// order. It shows the structure of a tree; [boxes] shows its geometry.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// With Detailed set, labels include each node's location and size.
// Text nodes are drawn with a dashed outline.
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) and can also be
// saved and processed with external Graphviz tools.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [boxes]: github.com/matzehuels/boxtree/pkg/render/boxes
package nodelink
