package analyzer

import (
	"math"

	"github.com/guidoenr/fftphases/internal/params"
)

// Threshold is the noise cutoff state used by Filter. In adaptive mode it
// tunes itself every frame so that roughly a fixed share of spectrum energy
// survives the cutoff.
type Threshold struct {
	Mode     params.NoiseMode
	Fixed    float64
	Adaptive float64
	Floor    float64
	Ceiling  float64
	Backoff  float64
	Step     float64
}

// NewThreshold builds the threshold state for a run. The adaptive value
// starts halfway between floor and ceiling.
func NewThreshold(p params.Parameters) *Threshold {
	return &Threshold{
		Mode:     p.NoiseMode,
		Fixed:    p.FixedThreshold,
		Adaptive: (p.Floor + p.Ceiling) / 2,
		Floor:    p.Floor,
		Ceiling:  p.Ceiling,
		Backoff:  p.Backoff,
		Step:     p.Step,
	}
}

// Active returns the cutoff currently in force.
func (t *Threshold) Active() float64 {
	if t.Mode == params.NoiseAdaptive {
		return t.Adaptive
	}
	return t.Fixed
}

// Learn feeds one frame's normalized energy to the controller. Fixed mode
// ignores it.
func (t *Threshold) Learn(energy float64) {
	if t.Mode != params.NoiseAdaptive {
		return
	}
	t.Adaptive = NextThreshold(t.Adaptive, energy, t.Floor, t.Ceiling, t.Backoff, t.Step)
}

// NextThreshold nudges current by one step toward the backoff ratio
// between threshold and energy. Zero energy leaves it unchanged.
func NextThreshold(current, energy, floor, ceiling, backoff, step float64) float64 {
	if !(energy > 0) {
		return current
	}
	ratio := current / energy
	next := current
	switch {
	case ratio >= backoff && current > floor:
		next = current * (1 - step)
	case ratio < backoff && current < ceiling:
		next = current * (1 + step)
	}
	return clamp(next, floor, ceiling)
}

func clamp(v, minVal, maxVal float64) float64 {
	if math.IsNaN(v) {
		return minVal
	}
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
