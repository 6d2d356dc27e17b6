package keycap

import "github.com/matzehuels/kleviz/pkg/errors"

// Style holds the sizing and shading parameters of a rendered key. Lengths
// are in U.
type Style struct {
	Radius      float64 `toml:"radius" json:"radius"`
	StrokeWidth float64 `toml:"stroke_width" json:"stroke_width"`

	ShineTop    float64 `toml:"shine_top" json:"shine_top"`
	ShineSide   float64 `toml:"shine_side" json:"shine_side"`
	ShineBottom float64 `toml:"shine_bottom" json:"shine_bottom"`

	// Gutter is the inset of legends from the shine edges.
	Gutter     float64 `toml:"gutter" json:"gutter"`
	FontUnit   float64 `toml:"font_unit" json:"font_unit"`
	LineHeight float64 `toml:"line_height" json:"line_height"`
	FontFamily string  `toml:"font_family" json:"font_family"`

	StrokeDarken float64 `toml:"stroke_darken" json:"stroke_darken"`
	ShineDelta   float64 `toml:"shine_delta" json:"shine_delta"`
	GhostOpacity float64 `toml:"ghost_opacity" json:"ghost_opacity"`
}

// DefaultStyle returns the classic keyboard-layout-editor look.
func DefaultStyle() Style {
	const fontUnit = 0.033
	return Style{
		Radius:       0.1,
		StrokeWidth:  0.015,
		ShineTop:     0.05,
		ShineSide:    0.12,
		ShineBottom:  0.2,
		Gutter:       0.05,
		FontUnit:     fontUnit,
		LineHeight:   fontUnit * 4,
		FontFamily:   "Arial, Helvetica, sans-serif",
		StrokeDarken: 0.7,
		ShineDelta:   0.15,
		GhostOpacity: 0.5,
	}
}

// Validate reports the first out-of-range parameter.
func (s Style) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"radius", s.Radius},
		{"stroke_width", s.StrokeWidth},
		{"shine_top", s.ShineTop},
		{"shine_side", s.ShineSide},
		{"shine_bottom", s.ShineBottom},
		{"gutter", s.Gutter},
		{"line_height", s.LineHeight},
	}
	for _, c := range checks {
		if c.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "keycap.%s must not be negative, got %v", c.name, c.v)
		}
	}
	if s.FontUnit <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "keycap.font_unit must be positive, got %v", s.FontUnit)
	}
	ratios := []struct {
		name string
		v    float64
	}{
		{"stroke_darken", s.StrokeDarken},
		{"shine_delta", s.ShineDelta},
		{"ghost_opacity", s.GhostOpacity},
	}
	for _, r := range ratios {
		if r.v < 0 || r.v > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "keycap.%s must be within [0, 1], got %v", r.name, r.v)
		}
	}
	return nil
}
