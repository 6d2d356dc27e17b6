package keycap

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/kleviz/pkg/errors"
)

// Darken scales the HSL lightness of hex by (1 - amount).
func Darken(hex string, amount float64) (string, error) {
	return adjust(hex, -amount)
}

// Lighten scales the HSL lightness of hex by (1 + amount), capped at white.
func Lighten(hex string, amount float64) (string, error) {
	return adjust(hex, amount)
}

func adjust(hex string, amount float64) (string, error) {
	c, err := ParseColor(hex)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	l += l * amount
	return colorful.Hsl(h, s, min(max(l, 0), 1)).Clamped().Hex(), nil
}

// ParseColor parses "#rgb" or "#rrggbb", with or without the leading hash.
func ParseColor(hex string) (colorful.Color, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "invalid color %q", hex)
	}
	return c, nil
}
