package app

import (
	"math"
	"math/rand"

	"github.com/charmbracelet/harmonica"
)

// synthBands are the partials the synthetic source mixes, as cycles per
// sample window. Bass, mid and treble land in well separated bins.
var synthBands = [3]float64{12, 96, 420}

// synth stands in for a capture stream when audio is disabled. Each band's
// amplitude is a spring chasing a target that jumps every few frames, so
// the level swells and settles instead of flickering.
type synth struct {
	rng    *rand.Rand
	spring harmonica.Spring
	window int

	pos    [3]float64
	vel    [3]float64
	target [3]float64
	hold   int
	phase  [3]float64
}

func newSynth(seed int64, fps float64, window int) *synth {
	if fps <= 0 {
		fps = 60
	}
	if window <= 0 {
		window = 2048
	}
	return &synth{
		rng:    rand.New(rand.NewSource(seed)),
		spring: harmonica.NewSpring(harmonica.FPS(int(math.Round(fps))), 6.0, 0.5),
		window: window,
	}
}

// Samples advances the springs by one frame and renders a fresh window.
func (s *synth) Samples() []float32 {
	if s.hold <= 0 {
		for i := range s.target {
			s.target[i] = s.rng.Float64() * 0.3
		}
		s.hold = 10 + s.rng.Intn(40)
	}
	s.hold--

	var amp [3]float64
	for i := range amp {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], s.target[i])
		amp[i] = clamp01(s.pos[i])
	}

	out := make([]float32, s.window)
	n := float64(s.window)
	for j := range out {
		v := 0.0
		for i, cycles := range synthBands {
			v += amp[i] * math.Sin(s.phase[i]+2*math.Pi*cycles*float64(j)/n)
		}
		out[j] = float32(v)
	}
	// drift the phases so consecutive windows are not identical
	for i := range s.phase {
		s.phase[i] = math.Mod(s.phase[i]+0.37*float64(i+1), 2*math.Pi)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
