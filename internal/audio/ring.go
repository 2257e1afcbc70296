package audio

import "sync"

// ring keeps the most recent len(buf) mono samples. Writes come from the
// PortAudio callback goroutine and reads from the frame loop.
type ring struct {
	mu    sync.RWMutex
	buf   []float32
	index int
}

func newRing(size int) *ring {
	return &ring{buf: make([]float32, size)}
}

// write appends in, overwriting the oldest samples.
func (r *ring) write(in []float32) {
	if len(in) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(in) >= len(r.buf) {
		copy(r.buf, in[len(in)-len(r.buf):])
		r.index = 0
		return
	}

	if r.index+len(in) <= len(r.buf) {
		copy(r.buf[r.index:], in)
		r.index += len(in)
		if r.index == len(r.buf) {
			r.index = 0
		}
		return
	}

	remaining := len(r.buf) - r.index
	copy(r.buf[r.index:], in[:remaining])
	copy(r.buf, in[remaining:])
	r.index = len(in) - remaining
}

// snapshot copies the buffer out oldest first.
func (r *ring) snapshot() []float32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make([]float32, len(r.buf))
	n := copy(cp, r.buf[r.index:])
	copy(cp[n:], r.buf[:r.index])
	return cp
}

// downmix averages interleaved frames into one channel.
func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	mono := make([]float32, len(in)/channels)
	for i := range mono {
		sum := float32(0)
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sum += in[base+ch]
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
