package scene

import (
	"time"

	"github.com/guidoenr/fftphases/internal/render"
)

const (
	waveStepX     = 10.0
	waveStepT     = 0.01
	waveRowOffset = 100.0
	waveMinLift   = 10.0
)

// Waves stacks noise-shaped hills that appear one row at a time. BaseT
// moves the noise along by the filtered audio level every frame, so louder
// input makes the hills roll faster.
type Waves struct {
	BaseT      float64
	MaxRows    int
	WaveHeight float64
	RowEvery   time.Duration

	noise Noise
}

func NewWaves(noise Noise, maxRows int, waveHeight float64, rowEvery time.Duration) *Waves {
	return &Waves{
		MaxRows:    maxRows,
		WaveHeight: waveHeight,
		RowEvery:   rowEvery,
		noise:      noise,
	}
}

// Rows is the number of rows visible after elapsed time in the phase.
func (w *Waves) Rows(elapsed time.Duration) int {
	if w.RowEvery <= 0 || elapsed <= 0 {
		return 0
	}
	n := int(elapsed / w.RowEvery)
	if n > w.MaxRows {
		return w.MaxRows
	}
	return n
}

// Step draws the visible rows back to front and then advances BaseT by
// sample. It returns the number of rows drawn.
func (w *Waves) Step(c render.Canvas, elapsed time.Duration, sample float64) int {
	rows := w.Rows(elapsed)
	for n := rows - 1; n >= 0; n-- {
		w.drawWave(c, n, rows)
	}
	w.BaseT += sample
	return rows
}

func (w *Waves) drawWave(c render.Canvas, n, rows int) {
	width, height := c.Width(), c.Height()
	baseY := height - float64(n)*w.WaveHeight/3
	t := w.BaseT + float64(n)*waveRowOffset
	hue := mapRange(float64(n), 0, float64(rows), 200, 360)

	c.Push()
	c.Fill(render.HSB(hue, 60, 50, 100))
	c.Stroke(render.HSB(hue, 40, 35, 100))
	c.StrokeWeight(1)

	pts := make([]render.Point, 0, int(width/waveStepX)+5)
	pts = append(pts, render.Point{X: 0, Y: baseY})
	for x := 0.0; x <= width; x += waveStepX {
		lift := mapRange(w.noise.At(t), 0, 1, waveMinLift, w.WaveHeight)
		pts = append(pts, render.Point{X: x, Y: baseY - lift})
		t += waveStepT
	}
	pts = append(pts,
		render.Point{X: width, Y: baseY},
		render.Point{X: width, Y: height},
		render.Point{X: 0, Y: height},
	)
	c.Shape(pts...)
	c.Pop()
}
