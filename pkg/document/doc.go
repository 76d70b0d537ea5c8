// Package document reads declarative layout trees and writes computed
// layouts.
//
// # Format
//
// A document describes one tree. It can be written as TOML, YAML or JSON;
// the field names are the same in all three:
//
//	width = "800"          # available width: a number, "min-content" or "max-content"
//	height = "max-content"
//
//	[root]
//	id = "page"
//	[root.style]
//	flex_direction = "column"
//	padding = "8"
//	gap = "4"
//
//	[[root.children]]
//	id = "title"
//	text = "Hello, boxtree"
//
//	[[root.children]]
//	id = "body"
//	[root.children.style]
//	display = "grid"
//	grid_template_columns = "100px 1fr repeat(2, minmax(50px, auto))"
//
// Lengths are written as in CSS: "12", "12px", "50%" or "auto". Edge
// shorthands (margin, padding, border, inset) take one to four values in
// CSS order. Grid lines take "auto", a line number or "span N", and a
// row or column is "start / end".
//
// Nodes with text become measured leaves; [Build] registers their text with
// a [measure.Text] so that [Built.Compute] can size them.
//
// # Output
//
// [Export] walks a computed tree and returns one [LayoutNode] per node, with
// node IDs rendered as decimal strings so that JSON consumers never lose
// precision on 64-bit handles.
//
// [measure.Text]: github.com/matzehuels/boxtree/pkg/measure.Text
package document
