// Package geom provides the point arithmetic and rotation primitives used to
// place keys on the canvas.
//
// Coordinates are in keyboard units (U) with the y axis pointing down, so a
// positive rotation angle turns clockwise on screen.
package geom

import "math"

// degToRad converts degrees to radians.
const degToRad = math.Pi / 180

// Point is a 2D coordinate in U-space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Min returns the component-wise minimum of p and q.
func (p Point) Min(q Point) Point { return Point{math.Min(p.X, q.X), math.Min(p.Y, q.Y)} }

// Max returns the component-wise maximum of p and q.
func (p Point) Max(q Point) Point { return Point{math.Max(p.X, q.X), math.Max(p.Y, q.Y)} }

// Near reports whether p and q differ by at most eps in both axes.
func (p Point) Near(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rotate turns p around pivot by degrees, clockwise-positive.
//
// A zero angle returns p unchanged, and a point that coincides with the pivot
// returns the pivot, so the result is never NaN.
func Rotate(p, pivot Point, degrees float64) Point {
	if degrees == 0 {
		return p
	}
	d := p.Sub(pivot)
	dist := math.Hypot(d.X, d.Y)
	if dist == 0 {
		return pivot
	}

	// acos only covers [0, π]; points above the pivot sit at negative angles.
	theta := math.Acos(clamp(d.X/dist, -1, 1))
	if d.Y < 0 {
		theta = -theta
	}
	theta += degrees * degToRad

	return Point{
		X: pivot.X + dist*math.Cos(theta),
		Y: pivot.Y + dist*math.Sin(theta),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
