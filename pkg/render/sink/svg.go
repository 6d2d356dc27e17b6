package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/kleviz/pkg/fonts"
	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/render/keycap"
	"github.com/matzehuels/kleviz/pkg/scene"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// RenderSVG serializes the scene of a normalized keyboard.
func RenderSVG(kb *kle.Keyboard, vp layout.Viewport, opts ...Option) ([]byte, error) {
	root, err := Scene(kb, vp, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := root.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scene builds the root <svg> node for a normalized keyboard. The viewBox is
// the viewport in U; width and height are pixels with the viewport's aspect
// ratio.
func Scene(kb *kle.Keyboard, vp layout.Viewport, opts ...Option) (*scene.Node, error) {
	r := newRenderer(opts...)

	faces, err := Faces(kb, r.style)
	if err != nil {
		return nil, err
	}

	root := scene.New("svg").
		Attr("xmlns", svgNamespace).
		Attr("viewBox", fmt.Sprintf("0 0 %s %s", scene.Format(vp.Width), scene.Format(vp.Height))).
		Attr("width", r.pixelWidth).
		Attr("height", vp.PixelHeight(r.pixelWidth))

	if r.embedFont {
		root.Append(fontDefs())
	}
	if bg := r.backgroundFor(kb); bg != "" {
		root.Append(scene.New("rect").
			Style("fill", bg).
			Attr("class", "background").
			Attr("width", vp.Width).
			Attr("height", vp.Height))
	}

	for _, f := range faces {
		if r.embedFont {
			f.FontFamily = fonts.FallbackFontFamily
		}
		root.Append(KeyNode(f))
	}

	if r.pivots {
		for i, k := range kb.Keys {
			if !faces[i].Rotated() {
				continue
			}
			root.Append(scene.New("circle").
				Attr("class", "pivot").
				Attr("cx", k.RotationX).
				Attr("cy", k.RotationY).
				Attr("r", pivotRadius).
				Attr("fill", k.Color))
		}
	}
	return root, nil
}

// KeyNode builds the <g> subtree of one key. Children are in the key's local
// frame; the group's transform places and rotates them.
func KeyNode(f keycap.Face) *scene.Node {
	transform := fmt.Sprintf("translate(%s %s)", scene.Format(f.Origin.X), scene.Format(f.Origin.Y))
	if f.Rotated() {
		transform = fmt.Sprintf("rotate(%s %s %s) %s",
			scene.Format(f.Angle), scene.Format(f.Pivot.X), scene.Format(f.Pivot.Y), transform)
	}

	g := scene.New("g").Attr("class", "key").Attr("transform", transform)
	if f.Opacity != 1 {
		g.Attr("opacity", f.Opacity)
	}

	if f.Cap != nil {
		g.Append(rectNode(*f.Cap, "cap"))
	}
	if f.Shine != nil {
		g.Append(rectNode(*f.Shine, "shine"))
	}
	if f.Outline != nil {
		g.Append(rectNode(*f.Outline, "outline"))
	}
	for _, l := range f.Legends {
		g.Append(scene.New("text").
			Style("font-size", l.Size).
			Style("fill", l.Color).
			Attr("class", "legend").
			Attr("x", l.X).
			Attr("y", l.Y).
			Attr("text-anchor", l.Anchor.String()).
			Attr("font-family", f.FontFamily).
			Text(scene.EscapeText(l.Text)))
	}
	return g
}

func rectNode(r keycap.Rect, class string) *scene.Node {
	n := scene.New("rect").
		Style("fill", r.Fill).
		Style("stroke", r.Stroke).
		Style("stroke-width", r.StrokeWidth).
		Attr("class", class)
	if r.X != 0 || r.Y != 0 {
		n.Attr("x", r.X).Attr("y", r.Y)
	}
	return n.Attr("rx", r.Radius).
		Attr("width", r.Width).
		Attr("height", r.Height)
}

func fontDefs() *scene.Node {
	css := fmt.Sprintf("@font-face{font-family:'%s';src:url(data:font/ttf;base64,%s) format('truetype');}",
		fonts.FontFamily, fonts.RegularBase64())
	return scene.New("defs").Append(scene.New("style").Text(css))
}
