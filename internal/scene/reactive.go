package scene

import (
	"math"
	"math/rand"

	"github.com/guidoenr/fftphases/internal/render"
)

const (
	scanStep  = 2.0
	rowHeight = 50.0
)

var (
	loudColors   = [2]string{"#FFB3B3", "#FFC1C1"}
	mediumColors = [2]string{"#FFECB3", "#C5E1A5"}
	quietColors  = [2]string{"#C3B1E1", "#A2C4E6"}
)

// ReactiveMandala scans the canvas left to right, top to bottom, stamping
// one audio-sized mandala per frame. Lower rows get more points and layers.
type ReactiveMandala struct {
	X float64
	Y float64

	rng *rand.Rand
}

func NewReactiveMandala(rng *rand.Rand) *ReactiveMandala {
	return &ReactiveMandala{rng: rng}
}

// Reset moves the cursors back to the top-left corner.
func (r *ReactiveMandala) Reset() {
	r.X = 0
	r.Y = 0
}

// Complete reports whether the scan has passed the bottom of the canvas.
func (r *ReactiveMandala) Complete(height float64) bool {
	return r.Y > height
}

// Progress is the vertical scan position normalized to [0,1].
func (r *ReactiveMandala) Progress(height float64) float64 {
	if height <= 0 {
		return 1
	}
	return clamp01(r.Y / height)
}

// Step draws one mandala at the cursor for level and moves the cursor on.
func (r *ReactiveMandala) Step(c render.Canvas, level float64) {
	w := c.Width()
	radius := level * w / 3.5
	r.draw(c, r.X, r.Y, radius, r.Progress(c.Height()))

	r.X += scanStep
	if r.X > w {
		r.X = 0
		r.Y += rowHeight
	}
}

// Density returns the point and layer counts for a scan progress.
func Density(progress float64) (points, layers int) {
	progress = clamp01(progress)
	points = int(math.Floor(lerp(8, 30, progress)))
	layers = int(math.Floor(lerp(4, 12, progress)))
	return points, layers
}

func (r *ReactiveMandala) palette(radius, width float64) [2]string {
	switch {
	case radius > width/15:
		return loudColors
	case radius > width/25:
		return mediumColors
	default:
		return quietColors
	}
}

func (r *ReactiveMandala) draw(c render.Canvas, cx, cy, radius, progress float64) {
	points, layers := Density(progress)
	angleStep := 360 / float64(points)
	reach := math.Tan(angleStep*math.Pi/180) * 0.9
	colors := r.palette(radius, c.Width())

	c.Push()
	c.Translate(cx, cy)
	c.NoFill()

	for layer := layers; layer > 0; layer-- {
		currR := float64(layer) / float64(layers) * radius
		x1 := between(r.rng, 0.35*currR, 0.45*currR)
		x2 := between(r.rng, 0.5*currR, 0.7*currR)
		y2 := between(r.rng, 0.06*currR, x2*reach)
		x3 := between(r.rng, x2*1.1, 0.85*currR)
		y3 := between(r.rng, 0.06*currR, x3*reach)
		x4 := between(r.rng, 0.88*currR, 0.99*currR)

		c.Stroke(render.Hex(colors[r.rng.Intn(len(colors))]))
		c.StrokeWeight(2)

		for i := 0; i < points; i++ {
			c.Push()
			c.Rotate(float64(i) * angleStep)
			c.Curve(
				render.Point{X: x4},
				render.Point{X: x4},
				render.Point{X: x3, Y: y3},
				render.Point{X: x2, Y: y2},
				render.Point{X: x1},
				render.Point{X: x2, Y: -y2},
				render.Point{X: x3, Y: -y3},
				render.Point{X: x4},
				render.Point{X: x4},
			)
			c.Pop()
		}
	}

	for i := 0; i < points; i++ {
		sin, cos := math.Sincos(float64(i) * angleStep * math.Pi / 180)
		c.Fill(render.Hex(colors[r.rng.Intn(len(colors))]))
		c.NoStroke()
		c.Ellipse(cos*radius*0.95, sin*radius*0.95, radius/30)
	}

	c.Pop()
}
