package analyzer

// Snapshot is the latest audio state seen by the frame loop.
type Snapshot struct {
	RMS  float64
	Bins []float64
}

// Level returns the RMS amplitude of the captured window.
func (s Snapshot) Level() float64 {
	return s.RMS
}

// Spectrum returns the byte-scaled magnitudes, one per bin.
func (s Snapshot) Spectrum() []float64 {
	return s.Bins
}
