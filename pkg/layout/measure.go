package layout

import (
	"time"

	"github.com/matzehuels/boxtree/internal/engine"
	"github.com/matzehuels/boxtree/pkg/geom"
	"github.com/matzehuels/boxtree/pkg/observability"
)

// MeasureFunc computes the intrinsic content size of a leaf whose node
// context flag is set (see [Tree.NewLeafWithContext] and
// [Tree.SetNodeContext]).
//
// known holds the content-box size along each axis already fixed by the
// node's style or by an ancestor. available holds the content-box space along
// each axis. The returned size is the node's content size; padding and border
// are added by the layout algorithm. Negative or non-finite results are
// treated as zero.
//
// Measure is called synchronously from inside ComputeLayoutWithMeasure while
// the tree is locked exclusively. It must not call any method of the same
// tree; doing so deadlocks. A panic inside Measure poisons the tree.
//
// The node context is only a flag. Hosts that attach content to nodes (text,
// images) keep it in their own table keyed by NodeID.
type MeasureFunc interface {
	Measure(known geom.Size[geom.Optional[float32]], available geom.Size[AvailableSpace], node NodeID) geom.Size[float32]
}

// MeasureFuncOf adapts an ordinary function to MeasureFunc.
type MeasureFuncOf func(known geom.Size[geom.Optional[float32]], available geom.Size[AvailableSpace], node NodeID) geom.Size[float32]

// Measure calls f.
func (f MeasureFuncOf) Measure(known geom.Size[geom.Optional[float32]], available geom.Size[AvailableSpace], node NodeID) geom.Size[float32] {
	return f(known, available, node)
}

// bridge adapts a MeasureFunc to the engine's callback signature and reports
// every call to the layout hooks.
func bridge(fn MeasureFunc) engine.MeasureFunc {
	if fn == nil {
		return nil
	}
	hooks := observability.Layout()
	return func(known geom.Size[engine.Opt], available geom.Size[engine.Space], id engine.NodeID) geom.Size[float32] {
		start := time.Now()
		out := fn.Measure(known, geom.MapSize(available, spaceFromEngine), NodeID(id))
		hooks.OnMeasure(id, time.Since(start))
		return out
	}
}
