package sink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/render/keycap"
)

// DefaultPixelWidth is the output width used when none is configured.
const DefaultPixelWidth = 1200

// pivotRadius is the radius, in U, of a rotation pivot marker.
const pivotRadius = 0.05

type Option func(*renderer)

type renderer struct {
	style      keycap.Style
	pixelWidth int
	background string
	pivots     bool
	embedFont  bool
}

func WithStyle(s keycap.Style) Option { return func(r *renderer) { r.style = s } }
func WithPivots() Option              { return func(r *renderer) { r.pivots = true } }
func WithEmbeddedFont() Option        { return func(r *renderer) { r.embedFont = true } }

// WithPixelWidth sets the output width. Non-positive values keep the default.
func WithPixelWidth(px int) Option {
	return func(r *renderer) {
		if px > 0 {
			r.pixelWidth = px
		}
	}
}

// WithBackground sets the canvas color. "none" or "transparent" disables the
// background even when the layout defines one.
func WithBackground(color string) Option {
	return func(r *renderer) { r.background = color }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{style: keycap.DefaultStyle(), pixelWidth: DefaultPixelWidth}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// backgroundFor returns the color to paint behind the keys, or "".
func (r renderer) backgroundFor(kb *kle.Keyboard) string {
	bg := r.background
	if bg == "" {
		bg = kb.Meta.Backcolor
	}
	switch strings.ToLower(strings.TrimSpace(bg)) {
	case "", "none", "transparent":
		return ""
	}
	return bg
}

// Faces builds the face of every key in render order.
func Faces(kb *kle.Keyboard, style keycap.Style) ([]keycap.Face, error) {
	faces := make([]keycap.Face, 0, len(kb.Keys))
	for i, k := range kb.Keys {
		f, err := keycap.Build(k, style)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		faces = append(faces, f)
	}
	return faces, nil
}
