package geom

// Size is a pair of values along the horizontal and vertical axes.
type Size[T any] struct {
	Width  T `json:"width"`
	Height T `json:"height"`
}

// Rect holds one value per box edge.
type Rect[T any] struct {
	Left   T `json:"left"`
	Right  T `json:"right"`
	Top    T `json:"top"`
	Bottom T `json:"bottom"`
}

// Point is a pair of values indexed by axis (x = horizontal, y = vertical).
type Point[T any] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Line is a start/end pair, e.g. the two grid lines an item spans.
type Line[T any] struct {
	Start T `json:"start"`
	End   T `json:"end"`
}

// MinMax pairs a lower and upper bound whose types may differ.
type MinMax[Min, Max any] struct {
	Min Min `json:"min"`
	Max Max `json:"max"`
}

// Optional is a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Valid: true} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Or returns the held value, or fallback when absent.
func (o Optional[T]) Or(fallback T) T {
	if o.Valid {
		return o.Value
	}
	return fallback
}

// Uniform returns a Size with the same value on both axes.
func Uniform[T any](v T) Size[T] { return Size[T]{Width: v, Height: v} }

// Edges returns a Rect with the same value on all four sides.
func Edges[T any](v T) Rect[T] { return Rect[T]{Left: v, Right: v, Top: v, Bottom: v} }

// Horizontal returns the left and right values as a Line.
func (r Rect[T]) Horizontal() Line[T] { return Line[T]{Start: r.Left, End: r.Right} }

// Vertical returns the top and bottom values as a Line.
func (r Rect[T]) Vertical() Line[T] { return Line[T]{Start: r.Top, End: r.Bottom} }
