package analyzer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/guidoenr/fftphases/internal/params"
)

func fixedThreshold(v float64) *Threshold {
	return &Threshold{Mode: params.NoiseFixed, Fixed: v}
}

func TestFilterAllBinsPassFixedThreshold(t *testing.T) {
	frame := make([]float64, 10)
	for i := range frame {
		frame[i] = 128
	}
	got := Filter(frame, fixedThreshold(0.15))

	want := 128.0 / 255.0
	if math.Abs(got.Energy-want) > 1e-9 {
		t.Fatalf("energy=%f want=%f", got.Energy, want)
	}
	if got.Band != 0 {
		t.Fatalf("dominant band=%d want=0 (first tie)", got.Band)
	}
	if math.Abs(got.BandEnergy-want) > 1e-9 {
		t.Fatalf("band energy=%f want=%f", got.BandEnergy, want)
	}
}

func TestFilterDropsBinsBelowThreshold(t *testing.T) {
	// 25/255 ≈ 0.098 is noise at 0.15, 51/255 = 0.2 survives.
	frame := []float64{25, 51, 25, 51}
	got := Filter(frame, fixedThreshold(0.15))
	want := 2 * (51.0 / 255.0) / 4
	if math.Abs(got.Energy-want) > 1e-9 {
		t.Fatalf("energy=%f want=%f", got.Energy, want)
	}
	if got.Band != 1 {
		t.Fatalf("dominant band=%d want=1", got.Band)
	}
}

func TestFilterDominantBandIgnoresThreshold(t *testing.T) {
	frame := []float64{10, 20, 30, 5}
	got := Filter(frame, fixedThreshold(0.9))
	if got.Energy != 0 {
		t.Fatalf("expected all bins filtered, energy=%f", got.Energy)
	}
	if got.Band != 2 {
		t.Fatalf("dominant band=%d want=2", got.Band)
	}
}

func TestFilterEmptyFrame(t *testing.T) {
	th := NewThreshold(adaptiveParams())
	before := th.Adaptive
	got := Filter(nil, th)
	if got.Energy != 0 || math.IsNaN(got.Energy) {
		t.Fatalf("empty frame energy=%f want 0", got.Energy)
	}
	if got.Band != -1 {
		t.Fatalf("empty frame band=%d want -1", got.Band)
	}
	if th.Adaptive != before {
		t.Fatalf("adaptive threshold moved on empty frame: %f -> %f", before, th.Adaptive)
	}
}

func TestFilterEnergyStaysInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	th := NewThreshold(adaptiveParams())
	for i := 0; i < 500; i++ {
		frame := make([]float64, 1+rng.Intn(64))
		for j := range frame {
			// include out-of-domain values on purpose
			frame[j] = rng.Float64()*400 - 50
		}
		got := Filter(frame, th)
		if got.Energy < 0 || got.Energy > 1 {
			t.Fatalf("iteration %d: energy %f outside [0,1]", i, got.Energy)
		}
		if got.BandEnergy < 0 || got.BandEnergy > 1 {
			t.Fatalf("iteration %d: band energy %f outside [0,1]", i, got.BandEnergy)
		}
		if th.Adaptive < th.Floor || th.Adaptive > th.Ceiling {
			t.Fatalf("iteration %d: adaptive threshold %f escaped [%f,%f]", i, th.Adaptive, th.Floor, th.Ceiling)
		}
	}
}

func TestFilterAdaptiveLearnsEachFrame(t *testing.T) {
	th := NewThreshold(adaptiveParams())
	frame := make([]float64, 8)
	for i := range frame {
		frame[i] = 255 * 0.5
	}
	Filter(frame, th)
	if math.Abs(th.Adaptive-0.1111) > 1e-9 {
		t.Fatalf("adaptive=%f want=0.1111", th.Adaptive)
	}
}

func TestFilterFixedModeDoesNotLearn(t *testing.T) {
	p := adaptiveParams()
	p.NoiseMode = params.NoiseFixed
	th := NewThreshold(p)
	before := th.Adaptive
	Filter([]float64{200, 200}, th)
	if th.Adaptive != before {
		t.Fatalf("fixed mode changed adaptive value")
	}
}

func adaptiveParams() params.Parameters {
	p := params.Defaults()
	p.NoiseMode = params.NoiseAdaptive
	return p
}
