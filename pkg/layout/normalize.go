package layout

import (
	"math"

	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/geom"
	"github.com/matzehuels/kleviz/pkg/kle"
)

// DefaultPadding is the margin, in U, kept around the outermost keys.
const DefaultPadding = 0.1

// Viewport is the size of a normalized keyboard in U.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// PixelHeight returns the raster height that keeps the viewport's aspect
// ratio at the given pixel width.
func (v Viewport) PixelHeight(pixelWidth int) int {
	if v.Width <= 0 {
		return pixelWidth
	}
	return int(math.Round(float64(pixelWidth) * v.Height / v.Width))
}

// Normalize shifts every key of kb so the layout's rotated bounding box
// starts at (padding, padding), and returns the padded viewport.
//
// The keyboard is modified in place and marked normalized; calling Normalize
// again returns an ErrCodeAlreadyNormalized error and leaves it untouched.
// Use [Translate] for the raw shift, which moves the keys again on every call.
func Normalize(kb *kle.Keyboard, padding float64) (Viewport, error) {
	if kb.Normalized {
		return Viewport{}, errors.New(errors.ErrCodeAlreadyNormalized, "keyboard %q is already normalized", kb.Meta.Name)
	}
	if padding < 0 || math.IsNaN(padding) || math.IsInf(padding, 0) {
		return Viewport{}, errors.New(errors.ErrCodeInvalidConfig, "padding must be a finite non-negative number, got %v", padding)
	}
	kb.Normalized = true

	b := Bounds(kb)
	if b.IsEmpty() {
		return emptyViewport(padding), nil
	}

	Translate(kb, geom.Pt(padding-b.Min.X, padding-b.Min.Y))

	return Viewport{
		Width:   b.Width() + 2*padding,
		Height:  b.Height() + 2*padding,
		Padding: padding,
	}, nil
}

func emptyViewport(padding float64) Viewport {
	if padding == 0 {
		return Viewport{Width: 1, Height: 1}
	}
	return Viewport{Width: 2 * padding, Height: 2 * padding, Padding: padding}
}

// Translate adds d to the position and rotation pivot of every key. X2/Y2
// are relative to the key position and move with it.
//
// Translate does not look at or change the Normalized marker: applying it
// twice shifts twice.
func Translate(kb *kle.Keyboard, d geom.Point) {
	for _, k := range kb.Keys {
		k.X += d.X
		k.Y += d.Y
		k.RotationX += d.X
		k.RotationY += d.Y
	}
}
