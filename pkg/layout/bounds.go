package layout

import (
	"github.com/matzehuels/kleviz/pkg/geom"
	"github.com/matzehuels/kleviz/pkg/kle"
)

// Corners returns the primary then secondary rectangle corners of k, rotated
// about its pivot. The secondary corners are included even when the
// secondary rectangle is zero-sized; they collapse onto a single point.
func Corners(k *kle.Key) []geom.Point {
	x2, y2 := k.X+k.X2, k.Y+k.Y2
	pts := []geom.Point{
		{X: k.X, Y: k.Y},
		{X: k.X + k.Width, Y: k.Y},
		{X: k.X + k.Width, Y: k.Y + k.Height},
		{X: k.X, Y: k.Y + k.Height},
		{X: x2, Y: y2},
		{X: x2 + k.Width2, Y: y2},
		{X: x2 + k.Width2, Y: y2 + k.Height2},
		{X: x2, Y: y2 + k.Height2},
	}
	if !k.Rotated() {
		return pts
	}
	pivot := geom.Pt(k.RotationX, k.RotationY)
	for i, p := range pts {
		pts[i] = geom.Rotate(p, pivot, k.RotationAngle)
	}
	return pts
}

// KeyBounds returns the axis-aligned box around the rotated corners of k.
func KeyBounds(k *kle.Key) geom.Bounds {
	return geom.BoundsOf(Corners(k)...)
}

// Bounds folds KeyBounds over every key. An empty keyboard yields
// geom.EmptyBounds.
func Bounds(kb *kle.Keyboard) geom.Bounds {
	b := geom.EmptyBounds()
	for _, k := range kb.Keys {
		b = b.Union(KeyBounds(k))
	}
	return b
}
