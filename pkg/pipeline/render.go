package pipeline

import (
	"fmt"

	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/render/sink"
)

// Render normalizes kb with the configured padding and serializes it in
// every requested format. kb is modified in place and cannot be rendered a
// second time; parse it again instead.
func Render(kb *kle.Keyboard, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	vp, err := layout.Normalize(kb, opts.PaddingValue())
	if err != nil {
		return nil, err
	}
	return RenderNormalized(kb, vp, opts)
}

// RenderNormalized serializes an already normalized keyboard.
func RenderNormalized(kb *kle.Keyboard, vp layout.Viewport, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	sinkOpts := opts.SinkOptions()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := renderFormat(kb, vp, format, opts.Title, sinkOpts, artifacts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(kb *kle.Keyboard, vp layout.Viewport, format, title string, opts []sink.Option, done map[string][]byte) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(kb, vp, opts...)
	case FormatPNG:
		return sink.RenderPNG(kb, vp, opts...)
	case FormatJSON:
		return sink.RenderJSON(kb, vp, opts...)
	case FormatHTML:
		svg, ok := done[FormatSVG]
		if !ok {
			var err error
			if svg, err = sink.RenderSVG(kb, vp, opts...); err != nil {
				return nil, err
			}
		}
		if title == "" {
			title = Title(kb, "")
		}
		return sink.RenderHTML(title, []sink.Section{{Name: Title(kb, title), SVG: svg}})
	}
	return nil, ValidateFormat(format)
}

// Title returns the layout's name, or fallback when it has none.
func Title(kb *kle.Keyboard, fallback string) string {
	if kb != nil && kb.Meta.Name != "" {
		return kb.Meta.Name
	}
	if fallback == "" {
		return "Keyboard layout"
	}
	return fallback
}
