package params

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// NoiseMode selects how the spectrum filter picks its noise threshold.
type NoiseMode int

const (
	NoiseFixed NoiseMode = iota + 1
	NoiseAdaptive
)

func (m NoiseMode) String() string {
	switch m {
	case NoiseFixed:
		return "fixed"
	case NoiseAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("NoiseMode(%d)", int(m))
	}
}

// ParseNoiseMode accepts the CLI spellings of a noise mode.
func ParseNoiseMode(name string) (NoiseMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fixed", "1":
		return NoiseFixed, nil
	case "adaptive", "2":
		return NoiseAdaptive, nil
	default:
		return 0, fmt.Errorf("unknown noise mode %q", name)
	}
}

// Parameters holds everything a run needs, fixed before the first frame.
type Parameters struct {
	Sequence      []int
	PhaseDuration time.Duration

	NoiseMode      NoiseMode
	FixedThreshold float64
	Floor          float64
	Ceiling        float64
	Backoff        float64
	Step           float64

	CanvasWidth  float64
	CanvasHeight float64

	WaveRows   int
	WaveHeight float64
	RowEvery   time.Duration

	Seed int64
}

// Defaults are the stock run settings.
func Defaults() Parameters {
	return Parameters{
		Sequence:       []int{1, 2, 3},
		PhaseDuration:  30 * time.Second,
		NoiseMode:      NoiseFixed,
		FixedThreshold: 0.15,
		Floor:          0.02,
		Ceiling:        0.2,
		Backoff:        0.4,
		Step:           0.01,
		CanvasWidth:    1280,
		CanvasHeight:   720,
		WaveRows:       10,
		WaveHeight:     150,
		RowEvery:       500 * time.Millisecond,
	}
}

// Validate reports every configuration problem at once.
func (p Parameters) Validate() error {
	var err error
	if len(p.Sequence) == 0 {
		err = multierr.Append(err, fmt.Errorf("phase sequence is empty"))
	}
	for i, id := range p.Sequence {
		if id < 1 || id > 3 {
			err = multierr.Append(err, fmt.Errorf("phase sequence[%d]: unknown phase %d", i, id))
		}
	}
	if p.PhaseDuration <= 0 {
		err = multierr.Append(err, fmt.Errorf("phase duration must be positive (got %s)", p.PhaseDuration))
	}
	if p.NoiseMode != NoiseFixed && p.NoiseMode != NoiseAdaptive {
		err = multierr.Append(err, fmt.Errorf("invalid noise mode %s", p.NoiseMode))
	}
	if !inUnit(p.FixedThreshold) {
		err = multierr.Append(err, fmt.Errorf("fixed threshold %.4f outside [0,1]", p.FixedThreshold))
	}
	if !inUnit(p.Floor) || !inUnit(p.Ceiling) {
		err = multierr.Append(err, fmt.Errorf("adaptive floor/ceiling %.4f/%.4f outside [0,1]", p.Floor, p.Ceiling))
	}
	if p.Floor > p.Ceiling {
		err = multierr.Append(err, fmt.Errorf("adaptive floor %.4f above ceiling %.4f", p.Floor, p.Ceiling))
	}
	if p.Backoff <= 0 {
		err = multierr.Append(err, fmt.Errorf("backoff ratio must be positive (got %.4f)", p.Backoff))
	}
	if p.Step <= 0 || p.Step >= 1 {
		err = multierr.Append(err, fmt.Errorf("step factor %.4f outside (0,1)", p.Step))
	}
	if p.CanvasWidth <= 0 || p.CanvasHeight <= 0 {
		err = multierr.Append(err, fmt.Errorf("invalid canvas: width=%.0f height=%.0f", p.CanvasWidth, p.CanvasHeight))
	}
	if p.WaveRows <= 0 || p.WaveHeight <= 0 || p.RowEvery <= 0 {
		err = multierr.Append(err, fmt.Errorf("wave rows, height and row interval must be positive"))
	}
	return err
}

// ParseSequence turns "1,2,3" into a phase list. Blank input yields an empty list.
func ParseSequence(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("phase %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}
