package audio

import (
	"math"
	"testing"

	"github.com/guidoenr/fftphases/internal/analyzer"
)

type samplerFunc func() []float32

func (f samplerFunc) Samples() []float32 { return f() }

func TestMeterRefreshTracksSource(t *testing.T) {
	var amp float32
	src := samplerFunc(func() []float32 {
		out := make([]float32, 2048)
		for i := range out {
			out[i] = amp * float32(math.Sin(2*math.Pi*float64(i)*64/2048))
		}
		return out
	})
	m := NewMeter(src, analyzer.New(analyzer.Config{}))

	if m.Level() != 0 || m.Spectrum() != nil {
		t.Fatalf("meter should start silent")
	}

	m.Refresh()
	if m.Level() != 0 {
		t.Fatalf("silence level=%f", m.Level())
	}

	amp = 0.5
	snap := m.Refresh()
	if snap.Level() <= 0.3 || snap.Level() >= 0.4 {
		t.Fatalf("sine RMS=%f want about 0.354", snap.Level())
	}
	if m.Level() != snap.Level() {
		t.Fatalf("meter did not keep the snapshot")
	}
	if len(m.Spectrum()) != 1024 {
		t.Fatalf("bins=%d want 1024", len(m.Spectrum()))
	}
}
