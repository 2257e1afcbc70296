package analyzer

import (
	"gonum.org/v1/gonum/floats"
)

// MaxMagnitude is the top of the byte spectrum scale.
const MaxMagnitude = 255.0

// Reading is the filtered result of one spectrum frame.
type Reading struct {
	// Energy is the mean normalized energy of bins at or above the threshold.
	Energy float64
	// Band is the bin with the strongest magnitude, -1 for an empty frame.
	Band int
	// BandEnergy is the normalized magnitude of Band.
	BandEnergy float64
}

// Filter removes bins below the active threshold from the frame, averages
// what survives and reports the dominant band. In adaptive mode the
// threshold learns from the result.
func Filter(frame []float64, t *Threshold) Reading {
	if len(frame) == 0 {
		return Reading{Band: -1}
	}

	cutoff := t.Active()
	normalized := make([]float64, len(frame))
	total := 0.0
	for i, mag := range frame {
		v := clamp(mag/MaxMagnitude, 0, 1)
		normalized[i] = v
		// below the cutoff is noise
		if v >= cutoff {
			total += v
		}
	}

	band := floats.MaxIdx(normalized)
	reading := Reading{
		Energy:     total / float64(len(frame)),
		Band:       band,
		BandEnergy: normalized[band],
	}
	t.Learn(reading.Energy)
	return reading
}
