// Package engine implements box layout over an abstract node tree.
//
// The engine knows nothing about node ownership or locking. Callers expose
// their node store through the [Tree] interface, hold exclusive access for the
// whole pass, and call [ComputeRoot] followed by [Finalize]:
//
//	engine.ComputeRoot(view, root, available, measure)
//	engine.Finalize(view, root, rounding)
//
// Three formatting contexts are supported: flexbox (the default), CSS grid
// and a simple block flow that stacks children vertically. Leaves may defer
// their intrinsic size to a [MeasureFunc].
//
// Each node carries a [Cache] of previous results keyed by the inputs its
// parent passed. Owners must clear the cache of a node, and of every
// ancestor, whenever the node's style or children change.
package engine
