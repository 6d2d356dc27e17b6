package geom

import "math"

// Bounds is an axis-aligned bounding box derived from a set of points.
type Bounds struct {
	Min, Max Point
}

// EmptyBounds returns the identity for Extend: Min at +Inf and Max at -Inf.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

// BoundsOf returns the bounds of pts. With no points it returns EmptyBounds.
func BoundsOf(pts ...Point) Bounds {
	b := EmptyBounds()
	for _, p := range pts {
		b = b.Extend(p)
	}
	return b
}

// Extend grows b to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union grows b to include o. Empty operands are ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Bounds{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// IsEmpty reports whether b has never been extended (Min > Max on any axis).
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Width returns Max.X - Min.X, or 0 for empty bounds.
func (b Bounds) Width() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns Max.Y - Min.Y, or 0 for empty bounds.
func (b Bounds) Height() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Contains reports whether p lies inside b, allowing eps of slack on every side.
func (b Bounds) Contains(p Point, eps float64) bool {
	return p.X >= b.Min.X-eps && p.X <= b.Max.X+eps &&
		p.Y >= b.Min.Y-eps && p.Y <= b.Max.Y+eps
}
