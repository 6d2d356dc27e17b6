package sink

import (
	"encoding/json"

	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
)

// Document is the JSON export of a normalized keyboard.
type Document struct {
	Meta        kle.Meta        `json:"meta"`
	Viewport    layout.Viewport `json:"viewport"`
	PixelWidth  int             `json:"pixel_width"`
	PixelHeight int             `json:"pixel_height"`
	Keys        []KeyDocument   `json:"keys"`
}

// KeyDocument is one key with its normalized geometry and rotated bounds.
type KeyDocument struct {
	Index    int              `json:"index"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	X2       float64          `json:"x2,omitempty"`
	Y2       float64          `json:"y2,omitempty"`
	Width2   float64          `json:"width2,omitempty"`
	Height2  float64          `json:"height2,omitempty"`
	Rotation *RotationDoc     `json:"rotation,omitempty"`
	Bounds   BoundsDoc        `json:"bounds"`
	Color    string           `json:"color"`
	Legends  []LegendDocument `json:"legends,omitempty"`
	Ghost    bool             `json:"ghost,omitempty"`
	Decal    bool             `json:"decal,omitempty"`
	Stepped  bool             `json:"stepped,omitempty"`
	Nub      bool             `json:"nub,omitempty"`
	Profile  string           `json:"profile,omitempty"`
}

type RotationDoc struct {
	Angle float64 `json:"angle"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type BoundsDoc struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type LegendDocument struct {
	Slot  int    `json:"slot"`
	Text  string `json:"text"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// Export builds the JSON document of a normalized keyboard.
func Export(kb *kle.Keyboard, vp layout.Viewport, opts ...Option) Document {
	r := newRenderer(opts...)
	doc := Document{
		Meta:        kb.Meta,
		Viewport:    vp,
		PixelWidth:  r.pixelWidth,
		PixelHeight: vp.PixelHeight(r.pixelWidth),
		Keys:        make([]KeyDocument, 0, len(kb.Keys)),
	}
	for i, k := range kb.Keys {
		b := layout.KeyBounds(k)
		kd := KeyDocument{
			Index:   i,
			X:       k.X,
			Y:       k.Y,
			Width:   k.Width,
			Height:  k.Height,
			X2:      k.X2,
			Y2:      k.Y2,
			Width2:  k.Width2,
			Height2: k.Height2,
			Bounds:  BoundsDoc{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y},
			Color:   k.Color,
			Ghost:   k.Ghost,
			Decal:   k.Decal,
			Stepped: k.Stepped,
			Nub:     k.Nub,
			Profile: k.Profile,
		}
		if k.Rotated() {
			kd.Rotation = &RotationDoc{Angle: k.RotationAngle, X: k.RotationX, Y: k.RotationY}
		}
		for slot := range kle.LabelCount {
			if text := k.Legend(slot); text != "" {
				kd.Legends = append(kd.Legends, LegendDocument{
					Slot:  slot,
					Text:  text,
					Size:  k.LegendSize(slot),
					Color: k.LegendColor(slot),
				})
			}
		}
		doc.Keys = append(doc.Keys, kd)
	}
	return doc
}

// RenderJSON writes the export document as indented JSON.
func RenderJSON(kb *kle.Keyboard, vp layout.Viewport, opts ...Option) ([]byte, error) {
	data, err := json.MarshalIndent(Export(kb, vp, opts...), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
