package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/kleviz/pkg/kle"
	"github.com/matzehuels/kleviz/pkg/layout"
	"github.com/matzehuels/kleviz/pkg/scene"
)

func normalized(t *testing.T, src string) (*kle.Keyboard, layout.Viewport) {
	t.Helper()
	kb, err := kle.Parse([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	vp, err := layout.Normalize(kb, layout.DefaultPadding)
	if err != nil {
		t.Fatal(err)
	}
	return kb, vp
}

func attr(t *testing.T, n *scene.Node, name string) string {
	t.Helper()
	v, ok := n.Get(name)
	if !ok {
		t.Fatalf("<%s> has no %s attribute", n.Tag(), name)
	}
	return v
}

func TestSceneSingleKey(t *testing.T) {
	kb, vp := normalized(t, `[[{"c":"#cc0000"},""]]`)

	root, err := Scene(kb, vp)
	if err != nil {
		t.Fatal(err)
	}

	if got := attr(t, root, "viewBox"); got != "0 0 1.2 1.2" {
		t.Errorf("viewBox = %q, want 0 0 1.2 1.2", got)
	}
	if attr(t, root, "width") != "1200" || attr(t, root, "height") != "1200" {
		t.Errorf("size = %sx%s, want 1200x1200", attr(t, root, "width"), attr(t, root, "height"))
	}
	if attr(t, root, "xmlns") != svgNamespace {
		t.Error("missing xmlns")
	}

	caps := root.FindAll(scene.HasClass("cap"))
	if len(caps) != 1 {
		t.Fatalf("caps = %d, want 1", len(caps))
	}
	if attr(t, caps[0], "width") != "1" || attr(t, caps[0], "height") != "1" {
		t.Errorf("cap = %s", caps[0])
	}
	if fill, _ := caps[0].GetStyle("fill"); fill != "#cc0000" {
		t.Errorf("cap fill = %q", fill)
	}
	if len(root.FindAll(scene.HasClass("legend"))) != 0 {
		t.Error("key without labels should have no legends")
	}

	keys := root.FindAll(scene.HasClass("key"))
	if len(keys) != 1 || attr(t, keys[0], "transform") != "translate(0.1 0.1)" {
		t.Errorf("key group = %v", keys)
	}
}

func TestSceneRotatedKey(t *testing.T) {
	kb, vp := normalized(t, `[[{"r":90,"rx":0,"ry":0},"R"]]`)

	root, err := Scene(kb, vp, WithPivots())
	if err != nil {
		t.Fatal(err)
	}
	g := root.FindAll(scene.HasClass("key"))[0]
	if tr := attr(t, g, "transform"); !strings.HasPrefix(tr, "rotate(90 ") || !strings.Contains(tr, ") translate(") {
		t.Errorf("transform = %q, want rotate(...) translate(...)", tr)
	}

	pivots := root.FindAll(scene.HasClass("pivot"))
	if len(pivots) != 1 {
		t.Fatalf("pivot markers = %d, want 1", len(pivots))
	}
	if attr(t, pivots[0], "r") != "0.05" {
		t.Errorf("pivot radius = %s", attr(t, pivots[0], "r"))
	}
}

func TestSceneGhostAndDecal(t *testing.T) {
	kb, vp := normalized(t, `[[{"g":true},"Ghost",{"g":false,"d":true},"Decal"]]`)

	root, err := Scene(kb, vp)
	if err != nil {
		t.Fatal(err)
	}
	keys := root.FindAll(scene.HasClass("key"))
	if len(keys) != 2 {
		t.Fatalf("keys = %d, want 2", len(keys))
	}
	ghost, decal := keys[0], keys[1]

	if n := len(ghost.FindAll(scene.HasClass("cap"))) + len(ghost.FindAll(scene.HasClass("shine"))); n != 0 {
		t.Errorf("ghost has %d cap/shine nodes", n)
	}
	if attr(t, ghost, "opacity") != "0.5" {
		t.Errorf("ghost opacity = %s", attr(t, ghost, "opacity"))
	}

	if n := len(decal.FindAll(scene.HasClass("cap"))) + len(decal.FindAll(scene.HasClass("shine"))); n != 0 {
		t.Errorf("decal has %d cap/shine nodes", n)
	}
	if got := decal.FindAll(scene.HasClass("legend")); len(got) != 1 || got[0].InnerText() != "Decal" {
		t.Errorf("decal legends = %v", got)
	}
	if _, ok := decal.Get("opacity"); ok {
		t.Error("decal should be fully opaque")
	}
}

func TestSceneLegendEscaping(t *testing.T) {
	kb, vp := normalized(t, `[["R&D\n<b>x</b> < y"]]`)
	out, err := RenderSVG(kb, vp)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, ">R&amp;D</text>") {
		t.Errorf("ampersand not escaped: %s", s)
	}
	if !strings.Contains(s, ">x &lt; y</text>") {
		t.Errorf("markup not stripped or escaped: %s", s)
	}
}

func TestSceneLegendEntities(t *testing.T) {
	kb, vp := normalized(t, `[["&larr;\n&#8593;","&amp;lt;"]]`)
	out, err := RenderSVG(kb, vp)
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	for _, want := range []string{">←</text>", ">↑</text>", ">&amp;lt;</text>"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in %s", want, s)
		}
	}
	if strings.Contains(s, "&amp;larr;") {
		t.Error("entity reference drawn as literal text")
	}
}

func TestSceneBackground(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts []Option
		want string
	}{
		{"none", `[["A"]]`, nil, ""},
		{"from metadata", `[{"backcolor":"#222222"},["A"]]`, nil, "#222222"},
		{"option overrides", `[{"backcolor":"#222222"},["A"]]`, []Option{WithBackground("#ffffff")}, "#ffffff"},
		{"option disables", `[{"backcolor":"#222222"},["A"]]`, []Option{WithBackground("none")}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb, vp := normalized(t, tt.src)
			root, err := Scene(kb, vp, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			bgs := root.FindAll(scene.HasClass("background"))
			if tt.want == "" {
				if len(bgs) != 0 {
					t.Errorf("unexpected background %v", bgs)
				}
				return
			}
			if len(bgs) != 1 {
				t.Fatalf("backgrounds = %d, want 1", len(bgs))
			}
			if fill, _ := bgs[0].GetStyle("fill"); fill != tt.want {
				t.Errorf("background = %q, want %q", fill, tt.want)
			}
		})
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	src := `[[{"r":15,"rx":1,"ry":1},"A","B\nC"],[{"c":"#444444","w":2},"Space"]]`
	kb1, vp1 := normalized(t, src)
	kb2, vp2 := normalized(t, src)

	a, err := RenderSVG(kb1, vp1)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := RenderSVG(kb2, vp2)
	if string(a) != string(b) {
		t.Error("same layout rendered to different SVG")
	}
}

func TestRenderSVGEmbeddedFont(t *testing.T) {
	kb, vp := normalized(t, `[["A"]]`)
	out, err := RenderSVG(kb, vp, WithEmbeddedFont())
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, "@font-face{font-family:'Go'") {
		t.Error("missing @font-face rule")
	}
	if !strings.Contains(s, `font-family="&#39;Go&#39;`) && !strings.Contains(s, `font-family="'Go'`) {
		t.Errorf("legend font family not switched to the embedded font")
	}
}

func TestRenderSVGPixelWidth(t *testing.T) {
	kb, vp := normalized(t, `[["A","B"]]`)
	root, err := Scene(kb, vp, WithPixelWidth(440))
	if err != nil {
		t.Fatal(err)
	}
	// 2.2 × 1.2 U at 440 px wide.
	if attr(t, root, "width") != "440" || attr(t, root, "height") != "240" {
		t.Errorf("size = %sx%s, want 440x240", attr(t, root, "width"), attr(t, root, "height"))
	}
}

func TestSceneInvalidColor(t *testing.T) {
	kb, vp := normalized(t, `[[{"c":"chartreuse"},"A"]]`)
	if _, err := Scene(kb, vp); err == nil {
		t.Error("expected error for non-hex key color")
	}
}
