package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/kleviz/pkg/errors"
	"github.com/matzehuels/kleviz/pkg/geom"
	"github.com/matzehuels/kleviz/pkg/kle"
)

const eps = 1e-9

func key(x, y, w, h float64) *kle.Key {
	k := kle.NewKey()
	k.X, k.Y, k.Width, k.Height = x, y, w, h
	return k
}

func rotated(k *kle.Key, angle, rx, ry float64) *kle.Key {
	k.RotationAngle, k.RotationX, k.RotationY = angle, rx, ry
	return k
}

func TestCorners(t *testing.T) {
	k := key(1, 2, 2, 1)
	got := Corners(k)
	if len(got) != 8 {
		t.Fatalf("len(Corners) = %d, want 8", len(got))
	}
	want := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("corner %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCornersSecondaryRectangle(t *testing.T) {
	// ISO enter: 1.25×2 primary, 1.5×1 secondary shifted left.
	k := key(0, 0, 1.25, 2)
	k.X2, k.Y2, k.Width2, k.Height2 = -0.25, 0, 1.5, 1

	b := KeyBounds(k)
	if b.Min != geom.Pt(-0.25, 0) || b.Max != geom.Pt(1.25, 2) {
		t.Errorf("KeyBounds = %+v, want (-0.25,0)-(1.25,2)", b)
	}
}

func TestKeyBoundsRotated(t *testing.T) {
	k := rotated(key(0, 0, 1, 1), 90, 0, 0)

	corners := Corners(k)
	if !corners[2].Near(geom.Pt(-1, 1), eps) {
		t.Errorf("far corner = %v, want (-1,1)", corners[2])
	}

	b := KeyBounds(k)
	if !b.Min.Near(geom.Pt(-1, 0), eps) || !b.Max.Near(geom.Pt(0, 1), eps) {
		t.Errorf("KeyBounds = %+v, want (-1,0)-(0,1)", b)
	}
}

func TestKeyBoundsContainsRotatedSilhouette(t *testing.T) {
	k := rotated(key(2, 1, 1.5, 1), 33, 1, 0)
	b := KeyBounds(k)
	pivot := geom.Pt(k.RotationX, k.RotationY)

	// Sample the rectangle edges and make sure none escape the box.
	for s := 0.0; s <= 1; s += 0.05 {
		for _, p := range []geom.Point{
			{X: k.X + s*k.Width, Y: k.Y},
			{X: k.X + s*k.Width, Y: k.Y + k.Height},
			{X: k.X, Y: k.Y + s*k.Height},
			{X: k.X + k.Width, Y: k.Y + s*k.Height},
		} {
			if q := geom.Rotate(p, pivot, k.RotationAngle); !b.Contains(q, eps) {
				t.Fatalf("rotated edge point %v outside %+v", q, b)
			}
		}
	}
}

func TestNormalizeSingleKey(t *testing.T) {
	k := key(0, 0, 1, 1)
	k.Color = "#cc0000"
	kb := &kle.Keyboard{Keys: []*kle.Key{k}}

	vp, err := Normalize(kb, DefaultPadding)
	if err != nil {
		t.Fatal(err)
	}
	want := 1 + 2*DefaultPadding
	if math.Abs(vp.Width-want) > eps || math.Abs(vp.Height-want) > eps {
		t.Errorf("viewport = %vx%v, want %vx%v", vp.Width, vp.Height, want, want)
	}
	if math.Abs(k.X-DefaultPadding) > eps || math.Abs(k.Y-DefaultPadding) > eps {
		t.Errorf("key at (%v,%v), want (%v,%v)", k.X, k.Y, DefaultPadding, DefaultPadding)
	}
	if !kb.Normalized {
		t.Error("keyboard should be marked normalized")
	}
}

func TestNormalizeRotatedKey(t *testing.T) {
	k := rotated(key(0, 0, 1, 1), 90, 0, 0)
	kb := &kle.Keyboard{Keys: []*kle.Key{k}}

	vp, err := Normalize(kb, DefaultPadding)
	if err != nil {
		t.Fatal(err)
	}

	viewport := geom.BoundsOf(geom.Pt(0, 0), geom.Pt(vp.Width, vp.Height))
	for _, c := range Corners(k) {
		if !viewport.Contains(c, eps) {
			t.Errorf("corner %v outside viewport %vx%v", c, vp.Width, vp.Height)
		}
	}
	// The pivot moves with the key.
	if !geom.Pt(k.RotationX, k.RotationY).Near(geom.Pt(1.1, 0.1), eps) {
		t.Errorf("pivot = (%v,%v), want (1.1,0.1)", k.RotationX, k.RotationY)
	}
}

func TestNormalizeNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		keys    []*kle.Key
		padding float64
	}{
		{"negative origin", []*kle.Key{key(-3, -2, 1, 1), key(4, 5, 2, 1)}, 0.1},
		{"split rotated halves", []*kle.Key{
			rotated(key(0, 0, 1, 1), 15, 0, 0),
			rotated(key(1, 0, 1.5, 1), 15, 0, 0),
			rotated(key(6, 0, 1, 1), -15, 8, 0),
			rotated(key(7, 1, 1, 2), -15, 8, 0),
		}, 0.25},
		{"far pivot", []*kle.Key{rotated(key(10, 10, 1, 1), 200, -5, 3)}, 0.4},
		{"zero padding", []*kle.Key{rotated(key(0, 0, 2, 1), 45, 1, 0.5)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := &kle.Keyboard{Keys: tt.keys}
			vp, err := Normalize(kb, tt.padding)
			if err != nil {
				t.Fatal(err)
			}
			for i, k := range kb.Keys {
				for _, c := range Corners(k) {
					if c.X < tt.padding-eps || c.Y < tt.padding-eps {
						t.Errorf("key %d corner %v below padding %v", i, c, tt.padding)
					}
					if c.X > vp.Width-tt.padding+eps || c.Y > vp.Height-tt.padding+eps {
						t.Errorf("key %d corner %v beyond viewport %vx%v", i, c, vp.Width, vp.Height)
					}
				}
			}
		})
	}
}

func TestNormalizeTwiceIsDetected(t *testing.T) {
	kb := &kle.Keyboard{Keys: []*kle.Key{key(2, 3, 1, 1)}}
	if _, err := Normalize(kb, DefaultPadding); err != nil {
		t.Fatal(err)
	}
	x, y := kb.Keys[0].X, kb.Keys[0].Y

	_, err := Normalize(kb, DefaultPadding)
	if !errors.Is(err, errors.ErrCodeAlreadyNormalized) {
		t.Fatalf("second Normalize error = %v, want ALREADY_NORMALIZED", err)
	}
	if kb.Keys[0].X != x || kb.Keys[0].Y != y {
		t.Error("refused normalization must not move keys")
	}
}

func TestTranslateIsNotIdempotent(t *testing.T) {
	kb := &kle.Keyboard{Keys: []*kle.Key{rotated(key(0, 0, 1, 1), 10, 0.5, 0.5)}}
	d := geom.Pt(0.1, 0.1)

	Translate(kb, d)
	once := *kb.Keys[0]
	Translate(kb, d)
	twice := *kb.Keys[0]

	if once.X == twice.X || once.RotationY == twice.RotationY {
		t.Fatal("second Translate should shift coordinates again")
	}
	if math.Abs(twice.X-0.2) > eps || math.Abs(twice.RotationX-0.7) > eps {
		t.Errorf("after two shifts X=%v RotationX=%v, want 0.2 and 0.7", twice.X, twice.RotationX)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	tests := []struct {
		padding float64
		want    Viewport
	}{
		{0.1, Viewport{Width: 0.2, Height: 0.2, Padding: 0.1}},
		{0, Viewport{Width: 1, Height: 1}},
	}
	for _, tt := range tests {
		vp, err := Normalize(&kle.Keyboard{}, tt.padding)
		if err != nil {
			t.Fatal(err)
		}
		if vp != tt.want {
			t.Errorf("Normalize(empty, %v) = %+v, want %+v", tt.padding, vp, tt.want)
		}
		if math.IsInf(vp.Width, 0) || math.IsInf(vp.Height, 0) {
			t.Error("empty viewport must be finite")
		}
	}
}

func TestNormalizeRejectsBadPadding(t *testing.T) {
	for _, p := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		kb := &kle.Keyboard{Keys: []*kle.Key{key(0, 0, 1, 1)}}
		if _, err := Normalize(kb, p); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("Normalize(padding=%v) error = %v, want INVALID_CONFIG", p, err)
		}
		if kb.Normalized {
			t.Errorf("padding=%v: rejected call must not mark keyboard", p)
		}
	}
}

func TestPixelHeight(t *testing.T) {
	tests := []struct {
		vp    Viewport
		width int
		want  int
	}{
		{Viewport{Width: 2, Height: 1}, 1200, 600},
		{Viewport{Width: 1.2, Height: 1.2}, 1200, 1200},
		{Viewport{Width: 15.2, Height: 5.2}, 1200, 411},
		{Viewport{}, 800, 800},
	}
	for _, tt := range tests {
		if got := tt.vp.PixelHeight(tt.width); got != tt.want {
			t.Errorf("%+v.PixelHeight(%d) = %d, want %d", tt.vp, tt.width, got, tt.want)
		}
	}
}
