// Package keycap turns a normalized key into a backend-neutral description of
// what to draw: cap and shine rectangles, an outline for ghost keys and the
// legends on the 3×4 anchor grid.
//
// A [Face] is authored in the key's own unrotated frame with the origin at
// the key's top-left corner. Backends place it by translating to
// [Face.Origin] and rotating the whole face by [Face.Angle] about
// [Face.Pivot], which is given in layout coordinates.
package keycap

import (
	"github.com/matzehuels/kleviz/pkg/geom"
	"github.com/matzehuels/kleviz/pkg/kle"
)

// Anchor is the horizontal text alignment of a legend.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// String returns the SVG text-anchor keyword.
func (a Anchor) String() string {
	switch a {
	case AnchorMiddle:
		return "middle"
	case AnchorEnd:
		return "end"
	default:
		return "start"
	}
}

// Rect is a rounded rectangle in face coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
	Radius        float64
	Fill          string // "none" for outlines
	Stroke        string
	StrokeWidth   float64
}

// Legend is one label placed on the anchor grid. Y is the text baseline.
type Legend struct {
	Index  int
	Text   string
	X, Y   float64
	Size   float64
	Color  string
	Anchor Anchor
}

// Face is everything a backend needs to draw one key.
type Face struct {
	Origin  geom.Point
	Angle   float64
	Pivot   geom.Point
	Opacity float64

	Cap     *Rect
	Shine   *Rect
	Outline *Rect

	Legends    []Legend
	FontFamily string
}

// Rotated reports whether the face needs a rotation transform.
func (f Face) Rotated() bool { return f.Angle != 0 }

// ToLayout maps a point from face coordinates to layout coordinates.
func (f Face) ToLayout(p geom.Point) geom.Point {
	return geom.Rotate(p.Add(f.Origin), f.Pivot, f.Angle)
}

// Build composes the face of k. Colors that cannot be parsed are reported as
// invalid layout errors.
func Build(k *kle.Key, s Style) (Face, error) {
	f := Face{
		Origin:     geom.Pt(k.X, k.Y),
		Angle:      k.RotationAngle,
		Pivot:      geom.Pt(k.RotationX, k.RotationY),
		Opacity:    1,
		FontFamily: s.FontFamily,
	}

	stroke, err := Darken(k.Color, s.StrokeDarken)
	if err != nil {
		return Face{}, err
	}

	capRect := capGeometry(k)
	capRect.Radius = s.Radius
	capRect.StrokeWidth = s.StrokeWidth

	switch {
	case k.Decal:
		// legends only
	case k.Ghost:
		outline := capRect
		outline.Fill = "none"
		outline.Stroke = stroke
		f.Outline = &outline
	default:
		shineFill, err := Lighten(k.Color, s.ShineDelta)
		if err != nil {
			return Face{}, err
		}
		shineStroke, err := Darken(k.Color, s.ShineDelta)
		if err != nil {
			return Face{}, err
		}
		capRect.Fill = k.Color
		capRect.Stroke = stroke
		f.Cap = &capRect
		f.Shine = &Rect{
			X:           s.ShineSide,
			Y:           s.ShineTop,
			Width:       k.Width - 2*s.ShineSide,
			Height:      k.Height - s.ShineTop - s.ShineBottom,
			Radius:      s.Radius,
			Fill:        shineFill,
			Stroke:      shineStroke,
			StrokeWidth: s.StrokeWidth,
		}
	}
	if k.Ghost {
		f.Opacity = s.GhostOpacity
	}

	f.Legends = legends(k, s)
	return f, nil
}

// capGeometry returns the cap outline. Stepped keys draw the secondary
// rectangle; a stepped key without one falls back to the primary size.
func capGeometry(k *kle.Key) Rect {
	if k.Stepped && k.Width2 > 0 && k.Height2 > 0 {
		return Rect{X: k.X2, Y: k.Y2, Width: k.Width2, Height: k.Height2}
	}
	return Rect{Width: k.Width, Height: k.Height}
}

func legends(k *kle.Key, s Style) []Legend {
	shineW := k.Width - 2*s.ShineSide
	shineH := k.Height - s.ShineTop - s.ShineBottom

	xs := [3]float64{
		s.ShineSide + s.Gutter,
		s.ShineSide + shineW/2,
		s.ShineSide + shineW - s.Gutter,
	}
	ys := [4]float64{
		s.ShineTop + s.LineHeight + s.Gutter,
		s.ShineTop + shineH/2 + s.LineHeight/2,
		s.ShineTop + shineH - s.Gutter,
		k.Height,
	}

	var out []Legend
	for i := range kle.LabelCount {
		text := k.Legend(i)
		if text == "" {
			continue
		}
		out = append(out, Legend{
			Index:  i,
			Text:   text,
			X:      xs[i%3],
			Y:      ys[i/3],
			Size:   3*s.FontUnit + s.FontUnit*float64(k.LegendSize(i)),
			Color:  k.LegendColor(i),
			Anchor: Anchor(i % 3),
		})
	}
	return out
}
