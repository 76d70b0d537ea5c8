// Package pkg provides the libraries behind boxtree, a box layout tree with
// block, flexbox and grid formatting.
//
// # Overview
//
// The pkg directory is organized in layers:
//
//  1. [layout] - the layout tree: nodes, styles, dirty tracking, layout passes
//  2. [geom] - generic size, rect, point and line shapes
//  3. [measure] - text measurement for leaves sized by their content
//  4. [document] - TOML, YAML and JSON tree documents and layout export
//  5. [render] - SVG, PNG and PDF drawings and Graphviz structure graphs
//  6. [server] - the HTTP API hosting trees by UUID
//  7. [cache], [errors], [observability], [buildinfo] - shared infrastructure
//
// # Architecture
//
// The typical data flow through boxtree:
//
//	TOML/YAML/JSON document
//	         ↓
//	    [document] package (decode, build a layout.Tree)
//	         ↓
//	    [layout] package (compute, consulting [measure] for text)
//	         ↓
//	    [document] export (absolute positions per node)
//	         ↓
//	    JSON / SVG / PNG / PDF / DOT output
//
// # Quick Start
//
// Build a tree directly and read back a layout:
//
//	tree := layout.NewTree()
//	grow := layout.NewStyle()
//	_ = grow.SetFlexGrow(1)
//	a, _ := tree.NewLeaf(grow)
//	b, _ := tree.NewLeaf(grow)
//
//	root := layout.NewStyle()
//	_ = root.SetSize(geom.Size[layout.Dimension]{Width: layout.Length(200), Height: layout.Length(100)})
//	r, _ := tree.NewWithChildren(root, []layout.NodeID{a, b})
//
//	_ = tree.ComputeLayout(r, geom.Size[layout.AvailableSpace]{
//	    Width: layout.MaxContent(), Height: layout.MaxContent(),
//	})
//	l, _ := tree.Layout(b) // 100×100 at (100, 0)
//
// Or load a document and export its computed layout:
//
//	doc, raw, err := document.Load("card.toml")
//	out, hit, err := document.ComputeCached(ctx, c, cache.NewDefaultKeyer(), raw, doc, document.Options{})
//	_ = document.WriteJSON(os.Stdout, out)
//
// # Errors
//
// Every package returns errors carrying a [errors.Code]; use [errors.GetCode]
// to branch on them. The HTTP server maps codes to status codes.
//
// # Observability
//
// Layout passes, cache operations and HTTP requests report to the hooks in
// [observability]. The defaults do nothing; the CLI installs log-backed hooks
// in verbose mode.
package pkg
