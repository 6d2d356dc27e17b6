package kle

import (
	"html"
	"regexp"
	"strings"
)

// LabelCount is the number of legend slots on a key: 3 columns by 4 rows.
const LabelCount = 12

const (
	DefaultColor     = "#cccccc"
	DefaultTextColor = "#000000"
	DefaultTextSize  = 3
)

// Key is a single key record. All positions and sizes are in keyboard units.
type Key struct {
	X, Y          float64
	Width, Height float64

	// Secondary rectangle for stepped and L-shaped caps. X2/Y2 are offsets
	// relative to X/Y. All four are zero when the key has no secondary
	// rectangle.
	X2, Y2          float64
	Width2, Height2 float64

	RotationX, RotationY float64
	RotationAngle        float64

	Color string

	// Labels are indexed row-major on the 3×4 grid:
	//
	//	0 1 2    top
	//	3 4 5    center
	//	6 7 8    bottom
	//	9 10 11  front face
	Labels    [LabelCount]string
	TextColor [LabelCount]string
	TextSize  [LabelCount]int

	Default struct {
		TextColor string
		TextSize  int
	}

	Ghost   bool
	Decal   bool
	Stepped bool
	Nub     bool

	Profile     string
	SwitchMount string
	SwitchBrand string
	SwitchType  string
}

// NewKey returns a 1×1 key with the editor's default colors and text size.
func NewKey() *Key {
	k := &Key{Width: 1, Height: 1, Color: DefaultColor}
	k.Default.TextColor = DefaultTextColor
	k.Default.TextSize = DefaultTextSize
	return k
}

// Clone returns a copy of k. Keys hold no references, so the copy is deep.
func (k *Key) Clone() *Key {
	c := *k
	return &c
}

// Rotated reports whether the key carries a non-zero rotation.
func (k *Key) Rotated() bool { return k.RotationAngle != 0 }

// Legend returns label i with inline markup removed and character
// references such as &larr; or &#8593; decoded, ready to be drawn.
func (k *Key) Legend(i int) string {
	s := StripTags(k.Labels[i])
	if !strings.ContainsRune(s, '&') {
		return s
	}
	return html.UnescapeString(s)
}

// LegendSize returns the text size for label i, falling back to the default.
func (k *Key) LegendSize(i int) int {
	if s := k.TextSize[i]; s > 0 {
		return s
	}
	return k.Default.TextSize
}

// LegendColor returns the text color for label i, falling back to the default.
func (k *Key) LegendColor(i int) string {
	if c := k.TextColor[i]; c != "" {
		return c
	}
	return k.Default.TextColor
}

// Background is the optional textured case background.
type Background struct {
	Name  string `json:"name,omitempty"`
	Style string `json:"style,omitempty"`
}

// Meta holds the optional keyboard metadata object.
type Meta struct {
	Name        string      `json:"name,omitempty"`
	Author      string      `json:"author,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Backcolor   string      `json:"backcolor,omitempty"`
	Radii       string      `json:"radii,omitempty"`
	Background  *Background `json:"background,omitempty"`
	SwitchMount string      `json:"switchMount,omitempty"`
	SwitchBrand string      `json:"switchBrand,omitempty"`
	SwitchType  string      `json:"switchType,omitempty"`
}

// Keyboard is an ordered key list. Later keys draw on top of earlier ones.
type Keyboard struct {
	Meta Meta
	Keys []*Key

	// Normalized is set once the layout has been shifted into its viewport.
	// Normalizing again would double-shift, so the normalizer refuses.
	Normalized bool
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes inline HTML tags such as <b> or <br/> from a label.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	return tagPattern.ReplaceAllString(s, "")
}
