// Package fonts provides the embedded font used for raster legends and,
// optionally, embedded into SVG output.
//
// The Go Regular font ships with golang.org/x/image, so legends render the
// same on every machine without a system font lookup.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name used when the font is embedded.
const FontFamily = "Go"

// FallbackFontFamily lists the embedded font first, then common sans-serif
// faces for viewers that drop embedded fonts.
const FallbackFontFamily = `'Go', Arial, Helvetica, sans-serif`

// RegularTTF returns the TTF font data.
func RegularTTF() []byte {
	return goregular.TTF
}

// Cache for base64-encoded font data (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func RegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	source     *text.FontSource
	sourceErr  error
	sourceOnce sync.Once
)

// Source returns the parsed font, shared by all raster renders.
func Source() (*text.FontSource, error) {
	sourceOnce.Do(func() {
		source, sourceErr = text.NewFontSource(goregular.TTF)
	})
	return source, sourceErr
}
