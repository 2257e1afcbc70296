package scene

import "math/rand"

// Source is the audio backend as the drivers see it: the latest level and
// byte-scaled spectrum, refreshed by the host between frames.
type Source interface {
	Level() float64
	Spectrum() []float64
}

// Silence is a Source with no input.
type Silence struct{}

func (Silence) Level() float64      { return 0 }
func (Silence) Spectrum() []float64 { return nil }

// Noise samples a smooth [0,1] signal.
type Noise interface {
	At(t float64) float64
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// mapRange maps v from [inLo,inHi] onto [outLo,outHi]. A degenerate input
// range maps to outLo.
func mapRange(v, inLo, inHi, outLo, outHi float64) float64 {
	if inHi == inLo {
		return outLo
	}
	return outLo + (v-inLo)/(inHi-inLo)*(outHi-outLo)
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
