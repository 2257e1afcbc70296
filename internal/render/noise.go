package render

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noise is a smooth 1D noise source returning values in [0,1]. Four
// octaves at half amplitude each, sampled along a fixed row of the 2D
// simplex field.
type Noise struct {
	field       opensimplex.Noise
	octaves     int
	persistence float64
}

// NewNoise seeds a noise source.
func NewNoise(seed int64) *Noise {
	return &Noise{
		field:       opensimplex.NewNormalized(seed),
		octaves:     4,
		persistence: 0.5,
	}
}

// At samples the noise at t. Nearby t give nearby values.
func (n *Noise) At(t float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := 1.0

	for i := 0; i < n.octaves; i++ {
		total += n.field.Eval2(t*frequency, 0.5) * amplitude
		maxVal += amplitude
		amplitude *= n.persistence
		frequency *= 2
	}

	return clamp01(total / maxVal)
}
