// internal/geom/geom.go

// Package geom holds the rotation-aware bounding-box math used by the
// storage placement engine. It depends on nothing else in the module.
package geom

// Rect is an axis-aligned rectangle addressed by its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RotatedDimensions returns the footprint of a w×h item at the given
// rotation: unchanged when rotation%180 == 0, swapped otherwise. Rotation is
// expected to be a multiple of 90 but the modulo degrades gracefully for any
// integer, and adding 360 never changes the result.
func RotatedDimensions(w, h float64, rotation int) (float64, float64) {
	if rotation%180 != 0 {
		return h, w
	}
	return w, h
}

// Overlaps reports whether two rectangles overlap. Edge-to-edge contact does
// not count as overlap.
func Overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// Snap rounds v to the nearest multiple of step. A step of zero or less
// returns v unchanged.
func Snap(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	n := int(v/step + 0.5)
	if v < 0 {
		n = int(v/step - 0.5)
	}
	return float64(n) * step
}

// Clamp limits v to [lo, hi]. When hi < lo (an item larger than its
// container) the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
