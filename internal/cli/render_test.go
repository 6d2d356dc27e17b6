package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/kleviz/pkg/errors"
)

const (
	padLayout    = `[{"name":"Numpad"},["7","8","9"],["4","5","6"],["1","2","3"]]`
	arrowLayout  = `[[{"x":1},"↑"],["←","↓","→"]]`
	brokenLayout = `[["A"], 42]`
)

func writeLayouts(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRenderFiles(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{
		"pad.json":        padLayout,
		"nested/arr.json": arrowLayout,
		"notes.txt":       "not a layout",
	})
	out := t.TempDir()

	if _, err := env.run(t, "", "render", "-f", "svg,json", "-o", out, in); err != nil {
		t.Fatalf("render: %v\n%s", err, env.status)
	}

	for _, name := range []string{"pad.svg", "pad.json", "arr.svg", "arr.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	svg, err := os.ReadFile(filepath.Join(out, "pad.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("pad.svg = %.40q", svg)
	}
	raw, err := os.ReadFile(filepath.Join(out, "arr.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(raw) {
		t.Error("arr.json is not valid JSON")
	}
	if !strings.Contains(env.status.String(), "9 keys") {
		t.Errorf("status should report key counts:\n%s", env.status)
	}
}

func TestRenderNextToInput(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{"pad.json": padLayout})

	if _, err := env.run(t, "", "render", filepath.Join(in, "pad.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(in, "pad.svg")); err != nil {
		t.Errorf("svg should be written next to its input: %v", err)
	}
}

func TestRenderContinuesOnError(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{
		"a.json": padLayout,
		"b.json": brokenLayout,
		"c.json": arrowLayout,
	})
	out := t.TempDir()

	_, err := env.run(t, "", "render", "-o", out, filepath.Join(in, "*.json"))
	if err == nil || !strings.Contains(err.Error(), "1 of 3 layouts failed") {
		t.Fatalf("error = %v, want 1 of 3 failed", err)
	}
	for _, name := range []string{"a.svg", "c.svg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("%s should still be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "b.svg")); !os.IsNotExist(err) {
		t.Error("broken layout should produce no output")
	}
	if !strings.Contains(env.status.String(), "b.json") {
		t.Errorf("status should name the failing layout:\n%s", env.status)
	}
}

func TestRenderGallery(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{
		"a.json": padLayout,
		"b.json": brokenLayout,
		"c.json": arrowLayout,
	})
	out := t.TempDir()

	_, _ = env.run(t, "", "render", "-f", "html", "--title", "My boards", "-o", out, in)

	page, err := os.ReadFile(filepath.Join(out, galleryName))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<title>My boards</title>", "Numpad", "b.json", "c.json"} {
		if !bytes.Contains(page, []byte(want)) {
			t.Errorf("gallery missing %q", want)
		}
	}
	if n := bytes.Count(page, []byte("<svg")); n != 2 {
		t.Errorf("gallery has %d svgs, want 2", n)
	}
	if _, err := os.Stat(filepath.Join(out, "a.svg")); !os.IsNotExist(err) {
		t.Error("html alone should not write per-layout svg files")
	}
}

func TestRenderSingleGalleryNamedAfterInput(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{"pad.json": padLayout})
	out := t.TempDir()

	if _, err := env.run(t, "", "render", "-f", "html", "-o", out, filepath.Join(in, "pad.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "pad.html")); err != nil {
		t.Errorf("single layout gallery should be pad.html: %v", err)
	}
}

func TestRenderCached(t *testing.T) {
	env := newTestEnv(t)
	in := writeLayouts(t, map[string]string{"pad.json": padLayout})
	args := []string{"render", "-o", t.TempDir(), filepath.Join(in, "pad.json")}

	if _, err := env.run(t, "", args...); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(env.status.String(), iconCached) {
		t.Error("first render should not be cached")
	}

	env.status.Reset()
	if _, err := env.run(t, "", args...); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.status.String(), iconCached) {
		t.Errorf("second render should be cached:\n%s", env.status)
	}

	env.status.Reset()
	if _, err := env.run(t, "", append(args, "--refresh")...); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(env.status.String(), iconCached) {
		t.Error("--refresh should re-render")
	}
}

func TestRenderStdin(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, padLayout, "render", "--no-cache", "-f", "svg", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("stdout = %.40q", out)
	}
	if env.status.Len() != 0 {
		t.Errorf("stdin mode should print no status, got %q", env.status)
	}

	out, err = env.run(t, padLayout, "render", "--no-cache", "-f", "png", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "\x89PNG") {
		t.Errorf("png stdout = %.8q", out)
	}
}

func TestRenderErrors(t *testing.T) {
	in := writeLayouts(t, map[string]string{"pad.json": padLayout})
	pad := filepath.Join(in, "pad.json")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errors.Code
	}{
		{"bad format", "", []string{"render", "-f", "pdf", pad}, errors.ErrCodeInvalidFormat},
		{"bad width", "", []string{"render", "--width", "-5", pad}, errors.ErrCodeInvalidConfig},
		{"bad background", "", []string{"render", "--background", "mauve-ish", pad}, errors.ErrCodeInvalidConfig},
		{"no match", "", []string{"render", filepath.Join(in, "*.kle")}, errors.ErrCodeFileNotFound},
		{"stdin two formats", padLayout, []string{"render", "-f", "svg,png", "-"}, errors.ErrCodeInvalidInput},
		{"stdin empty", "  ", []string{"render", "-"}, errors.ErrCodeInvalidLayout},
		{"stdin malformed", brokenLayout, []string{"render", "--no-cache", "-"}, errors.ErrCodeInvalidLayout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(t, tt.stdin, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
