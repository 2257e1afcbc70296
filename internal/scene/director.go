package scene

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/guidoenr/fftphases/internal/analyzer"
	"github.com/guidoenr/fftphases/internal/params"
	"github.com/guidoenr/fftphases/internal/phase"
	"github.com/guidoenr/fftphases/internal/render"
)

// Frame is what the host knows about the frame being drawn.
type Frame struct {
	// Now is the time since the host loop started.
	Now time.Duration
	// Count is the host's frame counter; mandala petals draw on even counts.
	Count int
}

// Status is a copyable view of the director for status feeds.
type Status struct {
	Phase     string        `json:"phase"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Elapsed   time.Duration `json:"elapsed"`
	Energy    float64       `json:"energy"`
	Band      int           `json:"band"`
	Threshold float64       `json:"threshold"`
	Frames    int           `json:"frames"`
	Done      bool          `json:"done"`
}

// Director owns all per-run state and advances it one frame at a time.
type Director struct {
	seq       *phase.Sequencer
	threshold *analyzer.Threshold
	source    Source
	log       *zap.Logger

	pair     *MandalaPair
	reactive *ReactiveMandala
	waves    *Waves

	entered  int
	elapsed  time.Duration
	last     analyzer.Reading
	reported bool
}

// NewDirector wires the drivers for p. The same seed reproduces the same
// artwork for the same audio.
func NewDirector(p params.Parameters, src Source, log *zap.Logger) *Director {
	if src == nil {
		src = Silence{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	ids := make([]phase.ID, len(p.Sequence))
	for i, id := range p.Sequence {
		ids[i] = phase.ID(id)
	}
	rng := rand.New(rand.NewSource(p.Seed))

	return &Director{
		seq:       phase.NewSequencer(ids, p.PhaseDuration),
		threshold: analyzer.NewThreshold(p),
		source:    src,
		log:       log,
		pair:      NewMandalaPair(rng),
		reactive:  NewReactiveMandala(rng),
		waves:     NewWaves(render.NewNoise(p.Seed), p.WaveRows, p.WaveHeight, p.RowEvery),
		entered:   -1,
		last:      analyzer.Reading{Band: -1},
	}
}

// Update runs one frame, drawing onto c. It returns true once every phase
// has finished; later calls draw nothing.
func (d *Director) Update(f Frame, c render.Canvas) bool {
	d.seq.Start(f.Now)
	if d.seq.Done() {
		d.finish()
		return true
	}

	id, _ := d.seq.Current()
	if d.entered != d.seq.Index() {
		d.enter(id)
	}
	d.elapsed = d.seq.Elapsed(f.Now)

	complete := false
	switch id {
	case phase.MandalaPair:
		d.pair.Step(c, f.Count, d.source)
	case phase.ReactiveMandala:
		reading := d.filter()
		d.reactive.Step(c, reading.Energy)
		complete = d.reactive.Complete(c.Height())
	case phase.Waves:
		reading := d.filter()
		d.waves.Step(c, d.elapsed, reading.Energy)
	}

	if d.seq.Update(f.Now, complete) {
		d.log.Info("phase finished",
			zap.Stringer("phase", id),
			zap.Int("index", d.seq.Index()-1),
			zap.Duration("elapsed", d.elapsed),
		)
	}
	if d.seq.Done() {
		d.finish()
		return true
	}
	return false
}

// Done reports whether the run is over.
func (d *Director) Done() bool {
	return d.seq.Done()
}

// Stats returns the final run figures once the run is over.
func (d *Director) Stats() (phase.Stats, bool) {
	return d.seq.Stats()
}

// Status snapshots the director state.
func (d *Director) Status() Status {
	st := Status{
		Index:     d.seq.Index(),
		Total:     d.seq.Len(),
		Elapsed:   d.elapsed,
		Energy:    d.last.Energy,
		Band:      d.last.Band,
		Threshold: d.threshold.Active(),
		Frames:    d.seq.Frames(),
		Done:      d.seq.Done(),
	}
	if id, ok := d.seq.Current(); ok {
		st.Phase = id.String()
	} else {
		st.Phase = "done"
	}
	return st
}

// Threshold exposes the live noise threshold.
func (d *Director) Threshold() *analyzer.Threshold {
	return d.threshold
}

func (d *Director) enter(id phase.ID) {
	d.entered = d.seq.Index()
	if id == phase.ReactiveMandala {
		d.reactive.Reset()
	}
	d.log.Info("phase started",
		zap.Stringer("phase", id),
		zap.Int("index", d.seq.Index()),
		zap.Int("total", d.seq.Len()),
	)
}

func (d *Director) filter() analyzer.Reading {
	d.last = analyzer.Filter(d.source.Spectrum(), d.threshold)
	d.log.Debug("filtered level",
		zap.Float64("energy", d.last.Energy),
		zap.Int("band", d.last.Band),
		zap.Float64("bandEnergy", d.last.BandEnergy),
		zap.Float64("threshold", d.threshold.Active()),
	)
	return d.last
}

func (d *Director) finish() {
	if d.reported {
		return
	}
	d.reported = true
	stats, _ := d.seq.Stats()
	d.log.Info("all phases finished",
		zap.Int("phases", d.seq.Len()),
		zap.Int("frames", stats.Frames),
		zap.Duration("runtime", stats.Runtime),
		zap.Float64("fps", stats.FPS()),
	)
}
