package scene

import (
	"math/rand"
	"testing"

	"github.com/guidoenr/fftphases/internal/render"
)

func TestDensity(t *testing.T) {
	cases := []struct {
		progress       float64
		points, layers int
	}{
		{0, 8, 4},
		{0.5, 19, 8},
		{1, 30, 12},
		{-1, 8, 4},
		{3, 30, 12},
	}
	for _, tc := range cases {
		p, l := Density(tc.progress)
		if p != tc.points || l != tc.layers {
			t.Fatalf("Density(%f)=(%d,%d) want (%d,%d)", tc.progress, p, l, tc.points, tc.layers)
		}
	}
}

func TestReactiveScanCompletesPastHeight(t *testing.T) {
	r := NewReactiveMandala(rand.New(rand.NewSource(1)))
	c := render.NewRecorder(10, 100)

	// six steps per row (x: 2..12), three rows to pass y=100
	for i := 0; i < 17; i++ {
		r.Step(c, 0.1)
		if r.Complete(c.Height()) {
			t.Fatalf("completed early at step %d (x=%f y=%f)", i+1, r.X, r.Y)
		}
	}
	r.Step(c, 0.1)
	if !r.Complete(c.Height()) {
		t.Fatalf("expected completion, x=%f y=%f", r.X, r.Y)
	}
	if r.Y != 150 || r.X != 0 {
		t.Fatalf("cursor at (%f,%f) want (0,150)", r.X, r.Y)
	}

	r.Reset()
	if r.Complete(c.Height()) || r.X != 0 || r.Y != 0 {
		t.Fatalf("reset did not rewind cursors")
	}
}

func TestReactiveDrawsOneMandalaPerStep(t *testing.T) {
	r := NewReactiveMandala(rand.New(rand.NewSource(3)))
	c := render.NewRecorder(350, 700)

	r.Step(c, 0.5)
	cmds := c.Take()
	points, layers := Density(0)
	if want := points*layers + points; len(cmds) != want {
		t.Fatalf("commands=%d want %d", len(cmds), want)
	}
	// radius = 0.5*350/3.5 = 50 > 350/15, so the loud palette is used
	if got := cmds[0].Stroke; got != render.Hex(loudColors[0]) && got != render.Hex(loudColors[1]) {
		t.Fatalf("unexpected stroke colour %+v", got)
	}
	if cmds[0].Filled {
		t.Fatalf("mandala outlines should not be filled")
	}
	if last := cmds[len(cmds)-1]; last.Stroked || !last.Filled || !last.Closed {
		t.Fatalf("decorative dots should be filled ellipses: %+v", last)
	}
}

func TestReactivePaletteByRadius(t *testing.T) {
	r := NewReactiveMandala(rand.New(rand.NewSource(1)))
	const w = 300.0
	if r.palette(21, w) != loudColors {
		t.Fatalf("radius 21 should be loud")
	}
	if r.palette(15, w) != mediumColors {
		t.Fatalf("radius 15 should be medium")
	}
	if r.palette(12, w) != quietColors {
		t.Fatalf("radius 12 should be quiet")
	}
}
