package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/matzehuels/kleviz/pkg/fonts"
	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/render/keycap"
)

// anchorX maps a legend anchor to the horizontal fraction DrawStringAnchored
// expects.
var anchorX = [...]float64{
	keycap.AnchorStart:  0,
	keycap.AnchorMiddle: 0.5,
	keycap.AnchorEnd:    1,
}

// RenderPNG rasterizes a normalized keyboard.
func RenderPNG(kb *kle.Keyboard, vp layout.Viewport, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)

	faces, err := Faces(kb, r.style)
	if err != nil {
		return nil, err
	}
	src, err := fonts.Source()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	width := r.pixelWidth
	height := max(vp.PixelHeight(width), 1)
	scale := float64(width) / vp.Width

	dc := gg.NewContext(width, height)
	defer dc.Close()

	if bg := r.backgroundFor(kb); bg != "" {
		if _, err := keycap.ParseColor(bg); err != nil {
			return nil, err
		}
		dc.ClearWithColor(gg.Hex(bg))
	}

	dc.Scale(scale, scale)
	p := painter{dc: dc, scale: scale, font: src}
	for i, f := range faces {
		if err := p.face(f); err != nil {
			return nil, fmt.Errorf("draw key %d: %w", i, err)
		}
	}

	if r.pivots {
		for i, k := range kb.Keys {
			if !faces[i].Rotated() {
				continue
			}
			dc.DrawCircle(k.RotationX, k.RotationY, pivotRadius)
			dc.SetHexColor(k.Color)
			if err := dc.Fill(); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// painter draws faces on a context whose matrix maps U to pixels.
type painter struct {
	dc    *gg.Context
	scale float64
	font  *text.FontSource
}

func (p painter) face(f keycap.Face) error {
	dc := p.dc
	dc.Push()
	defer dc.Pop()

	if f.Opacity < 1 {
		dc.PushLayer(gg.BlendNormal, f.Opacity)
		defer dc.PopLayer()
	}

	if f.Rotated() {
		dc.RotateAbout(f.Angle*math.Pi/180, f.Pivot.X, f.Pivot.Y)
	}
	dc.Translate(f.Origin.X, f.Origin.Y)

	for _, r := range []*keycap.Rect{f.Cap, f.Shine, f.Outline} {
		if r == nil {
			continue
		}
		if err := p.rect(*r); err != nil {
			return err
		}
	}

	// Text is rasterized in device space, so anchors are mapped through the
	// matrix and legends stay upright.
	for _, l := range f.Legends {
		x, y := dc.TransformPoint(l.X, l.Y)
		dc.SetFont(p.font.Face(l.Size * p.scale))
		dc.SetHexColor(l.Color)
		dc.DrawStringAnchored(l.Text, x, y, anchorX[l.Anchor], 0)
	}
	return nil
}

func (p painter) rect(r keycap.Rect) error {
	if r.Width <= 0 || r.Height <= 0 {
		return nil
	}
	dc := p.dc
	roundedRect(dc, r)

	if r.Fill != "" && r.Fill != "none" {
		dc.SetHexColor(r.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if r.Stroke == "" || r.StrokeWidth <= 0 {
		dc.ClearPath()
		return nil
	}
	dc.SetHexColor(r.Stroke)
	// Width is in U; the context matrix scales it to pixels.
	dc.SetLineWidth(r.StrokeWidth)
	return dc.Stroke()
}

// roundedRect adds r to the current path using matrix-aware path calls.
func roundedRect(dc *gg.Context, r keycap.Rect) {
	x, y, w, h := r.X, r.Y, r.Width, r.Height
	rad := min(r.Radius, w/2, h/2)
	if rad <= 0 {
		dc.MoveTo(x, y)
		dc.LineTo(x+w, y)
		dc.LineTo(x+w, y+h)
		dc.LineTo(x, y+h)
		dc.ClosePath()
		return
	}
	dc.MoveTo(x+rad, y)
	dc.LineTo(x+w-rad, y)
	dc.QuadraticTo(x+w, y, x+w, y+rad)
	dc.LineTo(x+w, y+h-rad)
	dc.QuadraticTo(x+w, y+h, x+w-rad, y+h)
	dc.LineTo(x+rad, y+h)
	dc.QuadraticTo(x, y+h, x, y+h-rad)
	dc.LineTo(x, y+rad)
	dc.QuadraticTo(x, y, x+rad, y)
	dc.ClosePath()
}
