package geom

// The Map functions lift an element conversion over a container shape.
// Each shape gets exactly one implementation; callers compose them, e.g.
// MapRect(r, toEngineDimension) or MapSlice(tracks, fromEngineTrack).

// MapSize converts both axes of s with f.
func MapSize[T, U any](s Size[T], f func(T) U) Size[U] {
	return Size[U]{Width: f(s.Width), Height: f(s.Height)}
}

// MapRect converts all four edges of r with f.
func MapRect[T, U any](r Rect[T], f func(T) U) Rect[U] {
	return Rect[U]{
		Left:   f(r.Left),
		Right:  f(r.Right),
		Top:    f(r.Top),
		Bottom: f(r.Bottom),
	}
}

// MapPoint converts both coordinates of p with f.
func MapPoint[T, U any](p Point[T], f func(T) U) Point[U] {
	return Point[U]{X: f(p.X), Y: f(p.Y)}
}

// MapLine converts both ends of l with f.
func MapLine[T, U any](l Line[T], f func(T) U) Line[U] {
	return Line[U]{Start: f(l.Start), End: f(l.End)}
}

// MapMinMax converts the bounds of m with fmin and fmax.
func MapMinMax[A, B, C, D any](m MinMax[A, B], fmin func(A) C, fmax func(B) D) MinMax[C, D] {
	return MinMax[C, D]{Min: fmin(m.Min), Max: fmax(m.Max)}
}

// MapOptional converts the held value of o with f, preserving absence.
func MapOptional[T, U any](o Optional[T], f func(T) U) Optional[U] {
	if !o.Valid {
		return Optional[U]{}
	}
	return Some(f(o.Value))
}

// MapSlice converts every element of s with f. A nil slice maps to nil.
func MapSlice[T, U any](s []T, f func(T) U) []U {
	if s == nil {
		return nil
	}
	out := make([]U, len(s))
	for i, v := range s {
		out[i] = f(v)
	}
	return out
}

// TryMapSize is MapSize for conversions that can fail.
// The first error encountered is returned.
func TryMapSize[T, U any](s Size[T], f func(T) (U, error)) (Size[U], error) {
	w, err := f(s.Width)
	if err != nil {
		return Size[U]{}, err
	}
	h, err := f(s.Height)
	if err != nil {
		return Size[U]{}, err
	}
	return Size[U]{Width: w, Height: h}, nil
}

// TryMapRect is MapRect for conversions that can fail.
func TryMapRect[T, U any](r Rect[T], f func(T) (U, error)) (Rect[U], error) {
	var out Rect[U]
	var err error
	if out.Left, err = f(r.Left); err != nil {
		return Rect[U]{}, err
	}
	if out.Right, err = f(r.Right); err != nil {
		return Rect[U]{}, err
	}
	if out.Top, err = f(r.Top); err != nil {
		return Rect[U]{}, err
	}
	if out.Bottom, err = f(r.Bottom); err != nil {
		return Rect[U]{}, err
	}
	return out, nil
}

// TryMapPoint is MapPoint for conversions that can fail.
func TryMapPoint[T, U any](p Point[T], f func(T) (U, error)) (Point[U], error) {
	x, err := f(p.X)
	if err != nil {
		return Point[U]{}, err
	}
	y, err := f(p.Y)
	if err != nil {
		return Point[U]{}, err
	}
	return Point[U]{X: x, Y: y}, nil
}

// TryMapLine is MapLine for conversions that can fail.
func TryMapLine[T, U any](l Line[T], f func(T) (U, error)) (Line[U], error) {
	s, err := f(l.Start)
	if err != nil {
		return Line[U]{}, err
	}
	e, err := f(l.End)
	if err != nil {
		return Line[U]{}, err
	}
	return Line[U]{Start: s, End: e}, nil
}

// TryMapMinMax is MapMinMax for conversions that can fail.
func TryMapMinMax[A, B, C, D any](m MinMax[A, B], fmin func(A) (C, error), fmax func(B) (D, error)) (MinMax[C, D], error) {
	lo, err := fmin(m.Min)
	if err != nil {
		return MinMax[C, D]{}, err
	}
	hi, err := fmax(m.Max)
	if err != nil {
		return MinMax[C, D]{}, err
	}
	return MinMax[C, D]{Min: lo, Max: hi}, nil
}

// TryMapSlice is MapSlice for conversions that can fail.
func TryMapSlice[T, U any](s []T, f func(T) (U, error)) ([]U, error) {
	if s == nil {
		return nil, nil
	}
	out := make([]U, len(s))
	for i, v := range s {
		u, err := f(v)
		if err != nil {
			return nil, err
		}
		out[i] = u
	}
	return out, nil
}
