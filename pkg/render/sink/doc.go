// Package sink provides output format renderers for normalized keyboards.
//
// # Overview
//
// A "sink" turns a normalized [kle.Keyboard] and its [layout.Viewport] into
// a final output format. Every backend starts from the same per-key
// [keycap.Face] descriptions, so vector and raster output agree on geometry
// and colors:
//
//   - SVG: a [scene.Node] tree, one <g> per key with a single transform
//   - PNG: immediate-mode drawing calls on a gogpu/gg context
//   - JSON: the normalized layout with per-key rotated bounds
//   - HTML: a gallery page embedding several rendered layouts
//
// # SVG Output
//
// [Scene] builds the tree and [RenderSVG] serializes it:
//
//	vp, _ := layout.Normalize(kb, layout.DefaultPadding)
//	svg, err := sink.RenderSVG(kb, vp,
//	    sink.WithPixelWidth(1200),
//	    sink.WithPivots(),
//	)
//
// Keys are authored in their own unrotated frame and wrapped in
// transform="rotate(angle px py) translate(x y)".
//
// # PNG Output
//
// [RenderPNG] draws the same faces with gogpu/gg. Geometry goes through the
// context matrix, so rotation is exact; legends are drawn upright at their
// rotated anchor positions with the embedded Go font.
//
// # Options
//
//   - [WithStyle]: Keycap sizing and shading ([keycap.DefaultStyle])
//   - [WithPixelWidth]: Output width in pixels (default 1200)
//   - [WithBackground]: Background color; overrides the layout's backcolor
//   - [WithPivots]: Mark the rotation pivot of every rotated key
//   - [WithEmbeddedFont]: Embed the Go font into SVG output
package sink
