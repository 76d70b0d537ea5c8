// Package server exposes layout trees over HTTP.
//
// Trees live in memory and are addressed by UUID. Node handles travel as
// decimal strings so JSON clients that parse numbers as doubles keep every
// bit of them.
//
//	POST   /trees                               create a tree
//	GET    /trees/{tree}                        node count and rounding mode
//	DELETE /trees/{tree}                        drop a tree
//	POST   /trees/{tree}/nodes                  create a leaf, text leaf or parent
//	GET    /trees/{tree}/nodes/{node}           style, children, parent, dirty flag, layout
//	PUT    /trees/{tree}/nodes/{node}/style     replace the style
//	PUT    /trees/{tree}/nodes/{node}/children  replace the children
//	DELETE /trees/{tree}/nodes/{node}           remove a node and its subtree
//	POST   /trees/{tree}/nodes/{node}/layout    compute and return the subtree layout
//	POST   /layout                              stateless: document in, layout out
//	GET    /version                             build information
//
// Errors are JSON objects {"code", "message"}. Handle errors map to 404,
// bad indices and style values to 400, and a poisoned tree to 503.
package server
