package scene

import (
	"math"
	"math/rand"

	"github.com/guidoenr/fftphases/internal/render"
)

// WarmLevel is the audio level above which a new pair uses warm colours.
const WarmLevel = 0.0002

const petalSteps = 5

// PetalShape holds the control points of one layer's petal curve, before
// layer scaling.
type PetalShape struct {
	X1, X2, Y2, X3, Y3, X4, X5, Y5 float64
}

func newPetalShape(rng *rand.Rand) PetalShape {
	return PetalShape{
		X1: between(rng, 50, 80),
		X4: between(rng, 130, 170),
		X2: between(rng, 70, 100),
		Y2: between(rng, 30, 60),
		X3: between(rng, 100, 140),
		Y3: between(rng, 40, 80),
		X5: between(rng, 60, 100),
		Y5: between(rng, 20, 50),
	}
}

func (s PetalShape) scaled(k float64) PetalShape {
	return PetalShape{
		X1: s.X1 * k, X2: s.X2 * k, Y2: s.Y2 * k, X3: s.X3 * k,
		Y3: s.Y3 * k, X4: s.X4 * k, X5: s.X5 * k, Y5: s.Y5 * k,
	}
}

// Mandala is drawn one petal at a time, layer by layer, growing outward.
type Mandala struct {
	Amplitude        float64
	Petals           int
	Layers           int
	BaseHue          float64
	ComplementaryHue float64
	AngleStep        float64
	Layer            int
	Petal            int
	Shape            PetalShape
	Finished         bool
	OffsetX          float64
	OffsetY          float64

	rng *rand.Rand
}

// NewMandala picks a palette from amplitude: loud input gets warm hues and
// denser petals, quiet input cool hues.
func NewMandala(rng *rand.Rand, amplitude, offsetX, offsetY float64) *Mandala {
	var (
		hueLo, hueHi   float64
		petals, layers int
	)
	if amplitude > WarmLevel {
		if rng.Float64() < 0.5 {
			hueLo, hueHi = 0, 60
		} else {
			hueLo, hueHi = 300, 360
		}
		petals = 25 + rng.Intn(5)
		layers = 12 + rng.Intn(3)
	} else {
		hueLo, hueHi = 180, 300
		petals = 20 + rng.Intn(5)
		layers = 8 + rng.Intn(4)
	}

	// sqrt biases the hue toward the top of the range
	base := hueLo + (hueHi-hueLo)*math.Sqrt(rng.Float64())

	return &Mandala{
		Amplitude:        amplitude,
		Petals:           petals,
		Layers:           layers,
		BaseHue:          base,
		ComplementaryHue: ComplementaryHue(base),
		AngleStep:        360 / float64(petals),
		Shape:            newPetalShape(rng),
		OffsetX:          offsetX,
		OffsetY:          offsetY,
		rng:              rng,
	}
}

// ComplementaryHue is the opposite hue, except yellows which shift by 150
// degrees to stay clear of green.
func ComplementaryHue(base float64) float64 {
	if base >= 0 && base <= 60 {
		return math.Mod(base+150, 360)
	}
	return math.Mod(base+180, 360)
}

// Advance draws the next petal on even frames. It returns true when a
// petal was drawn. The mandala finishes on the advance that completes its
// last layer.
func (m *Mandala) Advance(c render.Canvas, frameCount int) bool {
	if m.Finished || frameCount%2 != 0 {
		return false
	}

	c.Push()
	c.Translate(m.OffsetX, m.OffsetY)
	m.drawPetal(c)
	c.Pop()

	m.Petal++
	if m.Petal >= m.Petals {
		m.Petal = 0
		m.Layer++
		if m.Layer >= m.Layers {
			m.Finished = true
		} else {
			m.Shape = newPetalShape(m.rng)
		}
	}
	return true
}

func (m *Mandala) drawPetal(c render.Canvas) {
	s := m.Shape.scaled(float64(m.Layer+1) / float64(m.Layers))
	baseAlpha := mapRange(float64(m.Layer), 0, float64(m.Layers), 30, 90)

	for i := 0; i < petalSteps; i++ {
		hue := math.Mod(m.BaseHue+float64(m.Layer*5+i*3), 360)
		sat := 80 - float64(i)*10
		brt := 100 - float64(i)*15
		alpha := baseAlpha - float64(i)*5

		outline := hue
		if i == petalSteps-1 {
			outline = m.ComplementaryHue
		}
		c.Fill(render.HSB(hue, sat, brt, alpha))
		c.Stroke(render.HSB(outline, sat-30, brt-20, alpha-10))
		c.StrokeWeight(0.5)

		c.Push()
		c.Rotate(m.AngleStep * float64(m.Petal))
		k := float64(i) / petalSteps
		for _, sign := range [2]float64{1, -1} {
			c.Curve(
				render.Point{X: s.X1 * k},
				render.Point{X: s.X1 * k},
				render.Point{X: s.X2 * k, Y: sign * s.Y2 * k},
				render.Point{X: s.X3 * k, Y: sign * s.Y3 * k},
				render.Point{X: s.X5 * k, Y: sign * s.Y5 * k},
				render.Point{X: s.X4 * k},
				render.Point{X: s.X4 * k},
			)
		}
		c.Pop()
	}
}

// MandalaPair draws two mandalas around the canvas centre and starts a
// fresh pair once both are complete.
type MandalaPair struct {
	First  *Mandala
	Second *Mandala
	Pairs  int

	rng *rand.Rand
}

func NewMandalaPair(rng *rand.Rand) *MandalaPair {
	return &MandalaPair{rng: rng}
}

// Step advances both mandalas by one frame.
func (p *MandalaPair) Step(c render.Canvas, frameCount int, src Source) {
	if p.First == nil || p.Second == nil {
		p.renew(c, src)
	}

	c.Push()
	c.Translate(c.Width()/2, c.Height()/2)
	p.First.Advance(c, frameCount)
	p.Second.Advance(c, frameCount)
	c.Pop()

	if p.First.Finished && p.Second.Finished {
		p.renew(c, src)
	}
}

func (p *MandalaPair) renew(c render.Canvas, src Source) {
	c.Fade(render.Black(20))
	level := src.Level()
	w, h := c.Width(), c.Height()
	p.First = NewMandala(p.rng, level, between(p.rng, -w/2, w/2), between(p.rng, -h/2, h/2))
	p.Second = NewMandala(p.rng, level, between(p.rng, -w/2, w/2), between(p.rng, -h/2, h/2))
	p.Pairs++
}
