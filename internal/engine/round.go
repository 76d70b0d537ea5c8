package engine

import (
	"math"

	"github.com/matzehuels/boxtree/pkg/geom"
)

// Finalize copies the unrounded layout of every node under root into the
// final layout slot. With rounding enabled, edges are snapped to whole pixels
// using absolute coordinates so that adjacent boxes never overlap or leave
// gaps: each size is the difference between the rounded far and near edges.
func Finalize(tree Tree, root NodeID, round bool) {
	finalize(tree, root, 0, 0, round)
}

func finalize(tree Tree, id NodeID, absX, absY float32, round bool) {
	l := tree.UnroundedLayout(id)
	if round {
		x := absX + l.Location.X
		y := absY + l.Location.Y
		rounded := Layout{
			Order: l.Order,
			Location: geom.Point[float32]{
				X: roundf(l.Location.X),
				Y: roundf(l.Location.Y),
			},
			Size: geom.Size[float32]{
				Width:  roundf(x+l.Size.Width) - roundf(x),
				Height: roundf(y+l.Size.Height) - roundf(y),
			},
			ContentSize: geom.Size[float32]{
				Width:  roundf(x+l.ContentSize.Width) - roundf(x),
				Height: roundf(y+l.ContentSize.Height) - roundf(y),
			},
			ScrollbarSize: geom.MapSize(l.ScrollbarSize, roundf),
			Border:        geom.MapRect(l.Border, roundf),
			Padding:       geom.MapRect(l.Padding, roundf),
		}
		tree.SetFinalLayout(id, rounded)
		absX, absY = x, y
	} else {
		tree.SetFinalLayout(id, l)
	}
	for i := 0; i < tree.ChildCount(id); i++ {
		finalize(tree, tree.Child(id, i), absX, absY, round)
	}
}

func roundf(v float32) float32 {
	return float32(math.Round(float64(v)))
}
