package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestRasterFillsSquare(t *testing.T) {
	r := NewRaster(10, 10, 100, 100)
	red := Hex("#ff0000")
	r.Apply([]Command{{
		Kind:   KindShape,
		Points: []Point{{20, 20}, {60, 20}, {60, 60}, {20, 60}},
		Fill:   red,
		Filled: true,
	}})

	if c := r.At(3, 3); c.R != 1 || c.G != 0 {
		t.Fatalf("inside cell not filled: %+v", c)
	}
	if c := r.At(8, 8); c.R != 0 {
		t.Fatalf("outside cell painted: %+v", c)
	}
}

func TestRasterBlendsAndFades(t *testing.T) {
	r := NewRaster(2, 2, 2, 2)
	white := HSB(0, 0, 100, 50)
	r.Apply([]Command{{
		Kind:   KindShape,
		Points: []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		Fill:   white,
		Filled: true,
	}})
	if c := r.At(0, 0); math.Abs(c.R-0.5) > 1e-9 {
		t.Fatalf("half alpha white over black = %f want 0.5", c.R)
	}
	r.Apply([]Command{{Kind: KindFade, Fill: Black(100)}})
	if c := r.At(1, 1); c.R != 0 {
		t.Fatalf("opaque fade left %f", c.R)
	}
}

func TestRasterStrokesLine(t *testing.T) {
	r := NewRaster(10, 3, 10, 3)
	r.Apply([]Command{{
		Kind:    KindShape,
		Points:  []Point{{0, 1.5}, {10, 1.5}},
		Stroke:  Hex("#00ff00"),
		Stroked: true,
		Weight:  1,
	}})
	for x := 0; x < 10; x++ {
		if r.At(x, 1).G != 1 {
			t.Fatalf("cell %d on the line not stroked", x)
		}
		if r.At(x, 0).G != 0 {
			t.Fatalf("cell %d above the line stroked", x)
		}
	}
}

func TestRasterIgnoresOffscreenShapes(t *testing.T) {
	r := NewRaster(4, 4, 4, 4)
	r.Apply([]Command{{
		Kind:    KindShape,
		Points:  []Point{{-50, -50}, {-40, -50}, {-40, -40}},
		Fill:    Hex("#ffffff"),
		Filled:  true,
		Stroke:  Hex("#ffffff"),
		Stroked: true,
		Weight:  1,
	}})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if r.At(x, y).R != 0 {
				t.Fatalf("offscreen shape painted cell (%d,%d)", x, y)
			}
		}
	}
}

func TestTerminalPresent(t *testing.T) {
	r := NewRaster(3, 2, 3, 2)
	r.Apply([]Command{{
		Kind:   KindShape,
		Points: []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Fill:   Hex("#ffffff"),
		Filled: true,
	}})

	var buf bytes.Buffer
	term := NewTerminal(&buf, "default", false, true)
	if err := term.Present(r, "phase=waves"); err != nil {
		t.Fatalf("present: %v", err)
	}
	out := strings.TrimPrefix(buf.String(), homeANSI)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 2 rows + status, got %q", out)
	}
	if lines[0] != "@  " {
		t.Fatalf("row 0 = %q want %q", lines[0], "@  ")
	}
	if lines[2] != "pha" {
		t.Fatalf("status not truncated to width: %q", lines[2])
	}
}

func TestRGBToANSI(t *testing.T) {
	if got := rgbToANSI(0, 0, 0); got != 232 {
		t.Fatalf("black=%d want 232", got)
	}
	if got := rgbToANSI(1, 0, 0); got != 196 {
		t.Fatalf("red=%d want 196", got)
	}
}

func TestHSBWrapsHue(t *testing.T) {
	a := HSB(400, 80, 90, 100)
	b := HSB(40, 80, 90, 100)
	if a != b {
		t.Fatalf("hue should wrap: %+v vs %+v", a, b)
	}
	if HSB(10, 10, 10, 250).A != 1 {
		t.Fatalf("alpha should clamp to 1")
	}
}

func TestNoiseRangeAndContinuity(t *testing.T) {
	n := NewNoise(3)
	prev := n.At(0)
	for i := 1; i < 2000; i++ {
		v := n.At(float64(i) * 0.01)
		if v < 0 || v > 1 {
			t.Fatalf("noise %f outside [0,1]", v)
		}
		if math.Abs(v-prev) > 0.2 {
			t.Fatalf("noise jumped from %f to %f at step %d", prev, v, i)
		}
		prev = v
	}
	if NewNoise(3).At(1.234) != n.At(1.234) {
		t.Fatalf("same seed should give same noise")
	}
}
