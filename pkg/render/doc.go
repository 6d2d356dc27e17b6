// Package render groups the keyboard renderers.
//
// # Subpackages
//
//   - keycap: per-key geometry. Splits a key into outer and inner cap
//     rectangles, applies the keycap style and derives shaded colors.
//   - sink: output backends. SVG builds a [scene] tree, PNG issues draw
//     calls to a raster context, JSON exports the normalized layout and HTML
//     wraps rendered SVGs in a gallery page.
//
// Every sink consumes a normalized keyboard; see layout.Normalize.
//
// [scene]: github.com/matzehuels/kleviz/pkg/scene
package render
