package phase

import (
	"fmt"
	"time"
)

// ID identifies one of the visual phases.
type ID int

const (
	MandalaPair     ID = 1
	ReactiveMandala ID = 2
	Waves           ID = 3
)

func (id ID) String() string {
	switch id {
	case MandalaPair:
		return "mandala-pair"
	case ReactiveMandala:
		return "reactive-mandala"
	case Waves:
		return "waves"
	default:
		return fmt.Sprintf("phase(%d)", int(id))
	}
}

// Timed reports whether the phase ends on the duration timer rather than
// on its own content.
func (id ID) Timed() bool {
	return id != ReactiveMandala
}

// Stats summarises a finished run.
type Stats struct {
	Frames  int
	Runtime time.Duration
}

// FPS is the average frame rate over the run.
func (s Stats) FPS() float64 {
	if s.Runtime <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Runtime.Seconds()
}

func (s Stats) String() string {
	return fmt.Sprintf("frames=%d runtime=%s fps=%.2f", s.Frames, s.Runtime.Round(time.Millisecond), s.FPS())
}

// Sequencer walks an ordered list of phases. Timed phases end once their
// elapsed time exceeds the configured duration; the reactive phase ends
// when its driver says it is complete. After the last phase the sequencer
// is done and ignores further updates.
type Sequencer struct {
	sequence []ID
	duration time.Duration

	index      int
	phaseStart time.Duration
	runStart   time.Duration
	started    bool
	done       bool

	frames int
	stats  Stats
}

// NewSequencer copies sequence so the caller cannot change it mid-run.
func NewSequencer(sequence []ID, duration time.Duration) *Sequencer {
	seq := make([]ID, len(sequence))
	copy(seq, sequence)
	return &Sequencer{sequence: seq, duration: duration}
}

// Start stamps the run and first phase start. Update calls it on first use.
func (s *Sequencer) Start(now time.Duration) {
	if s.started {
		return
	}
	s.started = true
	s.runStart = now
	s.phaseStart = now
	if len(s.sequence) == 0 {
		s.finish(now)
	}
}

// Current returns the active phase; ok is false once the run is over.
func (s *Sequencer) Current() (ID, bool) {
	if s.done || s.index >= len(s.sequence) {
		return 0, false
	}
	return s.sequence[s.index], true
}

// Index is the position of the active phase in the sequence.
func (s *Sequencer) Index() int {
	return s.index
}

// Len is the number of phases in the sequence.
func (s *Sequencer) Len() int {
	return len(s.sequence)
}

// Duration is the configured length of timed phases.
func (s *Sequencer) Duration() time.Duration {
	return s.duration
}

// Elapsed is the time spent in the active phase.
func (s *Sequencer) Elapsed(now time.Duration) time.Duration {
	if !s.started {
		return 0
	}
	return now - s.phaseStart
}

// Done reports whether the run reached the terminal state. An empty
// sequence is done as soon as it is queried.
func (s *Sequencer) Done() bool {
	if len(s.sequence) == 0 {
		return true
	}
	return s.done
}

// Update counts one processed frame and evaluates the active phase's exit
// rule. It returns true when the phase changed on this frame.
func (s *Sequencer) Update(now time.Duration, complete bool) bool {
	s.Start(now)
	if s.done {
		return false
	}
	s.frames++

	id := s.sequence[s.index]
	var exit bool
	if id.Timed() {
		exit = s.Elapsed(now) > s.duration
	} else {
		exit = complete
	}
	if !exit {
		return false
	}

	s.index++
	s.phaseStart = now
	if s.index >= len(s.sequence) {
		s.finish(now)
	}
	return true
}

// Stats returns the final figures; ok is false until the run is done.
func (s *Sequencer) Stats() (Stats, bool) {
	if !s.Done() {
		return Stats{}, false
	}
	return s.stats, true
}

// Frames is the number of frames that evaluated a phase so far.
func (s *Sequencer) Frames() int {
	return s.frames
}

func (s *Sequencer) finish(now time.Duration) {
	s.done = true
	s.stats = Stats{Frames: s.frames, Runtime: now - s.runStart}
}
