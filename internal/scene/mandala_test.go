package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/guidoenr/fftphases/internal/render"
)

func TestMandalaFinishesAfterEveryPetal(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	m := NewMandala(rng, 0, 0, 0)
	c := render.NewRecorder(800, 600)

	advances, frames := 0, 0
	for frame := 1; !m.Finished; frame++ {
		if frames > 10000 {
			t.Fatalf("mandala never finished")
		}
		lastLayer := m.Layer == m.Layers-1 && m.Petal == m.Petals-1
		frames++
		if m.Advance(c, frame) {
			advances++
			if m.Finished != lastLayer {
				t.Fatalf("finished=%v after advance %d (layer %d/%d)", m.Finished, advances, m.Layer, m.Layers)
			}
		}
	}

	if want := m.Petals * m.Layers; advances != want {
		t.Fatalf("advances=%d want petals*layers=%d", advances, want)
	}
	if frames != 2*advances {
		t.Fatalf("frames=%d want %d", frames, 2*advances)
	}
	if m.Layer != m.Layers {
		t.Fatalf("layer=%d want %d", m.Layer, m.Layers)
	}
	if m.Advance(c, 0) {
		t.Fatalf("finished mandala drew another petal")
	}
}

func TestMandalaDrawsOnlyOnEvenFrames(t *testing.T) {
	m := NewMandala(rand.New(rand.NewSource(2)), 0, 0, 0)
	c := render.NewRecorder(100, 100)
	if m.Advance(c, 3) {
		t.Fatalf("odd frame drew a petal")
	}
	if len(c.Take()) != 0 {
		t.Fatalf("odd frame recorded commands")
	}
	if !m.Advance(c, 4) {
		t.Fatalf("even frame did not draw")
	}
	// five gradient steps, upper and lower curve each
	if n := len(c.Take()); n != 2*petalSteps {
		t.Fatalf("recorded %d commands", n)
	}
}

func TestNewMandalaPalettes(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))

		warm := NewMandala(rng, 0.01, 0, 0)
		if warm.Petals < 25 || warm.Petals > 29 || warm.Layers < 12 || warm.Layers > 14 {
			t.Fatalf("seed %d: warm counts petals=%d layers=%d", seed, warm.Petals, warm.Layers)
		}
		if !(warm.BaseHue >= 0 && warm.BaseHue <= 60) && !(warm.BaseHue >= 300 && warm.BaseHue <= 360) {
			t.Fatalf("seed %d: warm hue %f", seed, warm.BaseHue)
		}

		cool := NewMandala(rng, WarmLevel, 0, 0)
		if cool.Petals < 20 || cool.Petals > 24 || cool.Layers < 8 || cool.Layers > 11 {
			t.Fatalf("seed %d: cool counts petals=%d layers=%d", seed, cool.Petals, cool.Layers)
		}
		if cool.BaseHue < 180 || cool.BaseHue > 300 {
			t.Fatalf("seed %d: cool hue %f", seed, cool.BaseHue)
		}
		if math.Abs(cool.AngleStep*float64(cool.Petals)-360) > 1e-9 {
			t.Fatalf("angle step %f for %d petals", cool.AngleStep, cool.Petals)
		}
	}
}

func TestComplementaryHue(t *testing.T) {
	cases := map[float64]float64{
		0:   150,
		30:  180,
		60:  210,
		61:  241,
		200: 20,
		350: 170,
	}
	for base, want := range cases {
		if got := ComplementaryHue(base); math.Abs(got-want) > 1e-9 {
			t.Fatalf("ComplementaryHue(%f)=%f want %f", base, got, want)
		}
	}
}

func TestMandalaPairRenewsWhenBothFinish(t *testing.T) {
	pair := NewMandalaPair(rand.New(rand.NewSource(5)))
	c := render.NewRecorder(640, 480)

	pair.Step(c, 1, Silence{})
	if pair.Pairs != 1 {
		t.Fatalf("first step should create a pair")
	}
	if cmds := c.Take(); len(cmds) == 0 || cmds[0].Kind != render.KindFade {
		t.Fatalf("new pair should fade the canvas first")
	}

	first := pair.First
	for frame := 2; pair.Pairs == 1; frame++ {
		if frame > 100000 {
			t.Fatalf("pair never renewed")
		}
		pair.Step(c, frame, Silence{})
		c.Take()
	}
	if pair.First == first {
		t.Fatalf("expected a fresh mandala after renewal")
	}
	if pair.First.Finished || pair.Second.Finished {
		t.Fatalf("fresh pair already finished")
	}
}

func TestMandalaPairWarmOnLoudInput(t *testing.T) {
	pair := NewMandalaPair(rand.New(rand.NewSource(9)))
	pair.Step(render.NewRecorder(100, 100), 0, staticSource{level: 0.5})
	if pair.First.Layers < 12 || pair.Second.Layers < 12 {
		t.Fatalf("loud input should produce warm mandalas, got layers %d/%d", pair.First.Layers, pair.Second.Layers)
	}
	if pair.First.Amplitude != 0.5 {
		t.Fatalf("amplitude=%f want 0.5", pair.First.Amplitude)
	}
}

type staticSource struct {
	level    float64
	spectrum []float64
}

func (s staticSource) Level() float64      { return s.level }
func (s staticSource) Spectrum() []float64 { return s.spectrum }
