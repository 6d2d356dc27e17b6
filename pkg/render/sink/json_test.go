package sink

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRenderJSON(t *testing.T) {
	kb, vp := normalized(t, `[{"name":"pad"},[{"t":"#ff0000"},"Esc\n\n\n\nfront"],[{"r":45,"rx":2,"ry":0},"R"]]`)

	data, err := RenderJSON(kb, vp, WithPixelWidth(600))
	if err != nil {
		t.Fatal(err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Meta.Name != "pad" || doc.PixelWidth != 600 || doc.PixelHeight != vp.PixelHeight(600) {
		t.Errorf("doc header = %+v", doc)
	}
	if len(doc.Keys) != 2 {
		t.Fatalf("keys = %d, want 2", len(doc.Keys))
	}

	esc := doc.Keys[0]
	if esc.Rotation != nil {
		t.Error("unrotated key should omit rotation")
	}
	if len(esc.Legends) != 2 || esc.Legends[0].Text != "Esc" || esc.Legends[0].Color != "#ff0000" {
		t.Errorf("legends = %+v", esc.Legends)
	}
	if esc.Legends[1].Slot != 10 {
		t.Errorf("front legend slot = %d, want 10", esc.Legends[1].Slot)
	}

	r := doc.Keys[1]
	if r.Rotation == nil || r.Rotation.Angle != 45 {
		t.Errorf("rotation = %+v", r.Rotation)
	}
	for _, k := range doc.Keys {
		if k.Bounds.MinX < vp.Padding-1e-9 || k.Bounds.MaxX > vp.Width-vp.Padding+1e-9 {
			t.Errorf("key %d bounds %+v escape viewport %+v", k.Index, k.Bounds, vp)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	out, err := RenderHTML("batch <1>", []Section{
		{Name: "svg.json", SVG: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)},
		{Name: "png.json", PNG: []byte{0x89, 'P', 'N', 'G'}},
		{Name: "bad.json", Err: errors.New("row 0: <oops>")},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)

	for _, want := range []string{
		"<title>batch &lt;1&gt;</title>",
		`<svg xmlns="http://www.w3.org/2000/svg"/>`,
		`src="data:image/png;base64,iVBORw=="`,
		"row 0: &lt;oops&gt;",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Index(s, "svg.json") > strings.Index(s, "bad.json") {
		t.Error("sections out of order")
	}
}
