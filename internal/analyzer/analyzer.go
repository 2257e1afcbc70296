package analyzer

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// Analyzer turns raw capture samples into a byte-scaled magnitude spectrum
// and an RMS level, the two values the scene drivers read each frame.
type Analyzer struct {
	bins        int
	smoothing   float64
	minDecibels float64
	maxDecibels float64

	smoothed []float64
	buffer   []complex128
	window   []float64
	scratch  []float64
}

// Config controls Analyzer behavior.
type Config struct {
	Bins        int
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
	// Unsmoothed turns off the time smoothing that Smoothing otherwise
	// defaults to.
	Unsmoothed bool
}

// New creates an Analyzer. Zero fields take the browser analyser defaults:
// 1024 bins, 0.8 smoothing and a -100..-30 dB byte range.
func New(cfg Config) *Analyzer {
	if cfg.Bins <= 0 {
		cfg.Bins = 1024
	}
	switch {
	case cfg.Unsmoothed:
		cfg.Smoothing = 0
	case cfg.Smoothing <= 0 || cfg.Smoothing >= 1:
		cfg.Smoothing = 0.8
	}
	if cfg.MinDecibels == 0 && cfg.MaxDecibels == 0 {
		cfg.MinDecibels = -100
		cfg.MaxDecibels = -30
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		cfg.MaxDecibels = cfg.MinDecibels + 70
	}
	bins := nextPow2(cfg.Bins)
	return &Analyzer{
		bins:        bins,
		smoothing:   cfg.Smoothing,
		minDecibels: cfg.MinDecibels,
		maxDecibels: cfg.MaxDecibels,
		smoothed:    make([]float64, bins),
	}
}

// Bins reports how many spectrum bins each snapshot carries.
func (a *Analyzer) Bins() int {
	return a.bins
}

// Analyze returns the spectrum and level for the most recent samples.
func (a *Analyzer) Analyze(samples []float32) Snapshot {
	size := a.bins * 2
	a.ensureWorkspace(size)

	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}

	level := 0.0
	if n := len(samples); n > 0 {
		scratch := a.scratch[:n]
		for i, s := range samples {
			scratch[i] = float64(s)
		}
		level = floats.Norm(scratch, 2) / math.Sqrt(float64(n))
	}

	for i := range a.buffer {
		if i < len(samples) {
			a.buffer[i] = complex(float64(samples[i])*a.window[i], 0)
			continue
		}
		a.buffer[i] = 0
	}

	spectrum := fft.FFT(a.buffer)

	out := make([]float64, a.bins)
	span := a.maxDecibels - a.minDecibels
	for k := 0; k < a.bins; k++ {
		mag := cmag(spectrum[k]) / float64(size)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if a.smoothed[k] <= 0 {
			continue
		}
		db := 20 * math.Log10(a.smoothed[k])
		scaled := MaxMagnitude * (db - a.minDecibels) / span
		out[k] = math.Floor(clamp(scaled, 0, MaxMagnitude))
	}

	return Snapshot{RMS: level, Bins: out}
}

func (a *Analyzer) ensureWorkspace(size int) {
	if len(a.buffer) != size {
		a.buffer = make([]complex128, size)
		a.scratch = make([]float64, size)
	}
	if len(a.window) != size {
		a.window = make([]float64, size)
		sizeF := float64(size)
		for i := range a.window {
			a.window[i] = hann(float64(i), sizeF)
		}
	}
}

func hann(i, size float64) float64 {
	return 0.5 * (1.0 - math.Cos(2.0*math.Pi*i/size))
}

func cmag(c complex128) float64 {
	return math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
