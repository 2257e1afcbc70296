package audio

import (
	"sync"

	"github.com/guidoenr/fftphases/internal/analyzer"
)

// Sampler yields the most recent mono sample window.
type Sampler interface {
	Samples() []float32
}

// Meter runs an analyzer over a Sampler and holds the latest snapshot for
// the scene drivers. The frame loop calls Refresh once per frame.
type Meter struct {
	src Sampler
	an  *analyzer.Analyzer

	mu   sync.RWMutex
	last analyzer.Snapshot
}

func NewMeter(src Sampler, an *analyzer.Analyzer) *Meter {
	return &Meter{src: src, an: an}
}

// Refresh analyzes the current sample window.
func (m *Meter) Refresh() analyzer.Snapshot {
	snap := m.an.Analyze(m.src.Samples())
	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
	return snap
}

func (m *Meter) Level() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last.Level()
}

func (m *Meter) Spectrum() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last.Spectrum()
}
