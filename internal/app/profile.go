package app

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// profiler appends per-frame section timings as CSV. A nil profiler is
// valid and records nothing.
type profiler struct {
	mu    sync.Mutex
	file  *os.File
	frame int
	start time.Time
	last  time.Time
	now   func() time.Time
}

func newProfiler(path string, logger *zap.Logger) *profiler {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Warn("profiler disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	p := &profiler{file: f, now: time.Now}
	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		fmt.Fprintln(p.file, "timestamp,frame,section,delta_ms")
	}
	logger.Info("profiling frames", zap.String("path", path))
	return p
}

func (p *profiler) beginFrame(frame int) {
	if p == nil {
		return
	}
	now := p.now()
	p.frame = frame
	p.start = now
	p.last = now
}

func (p *profiler) markSection(name string) {
	if p == nil {
		return
	}
	now := p.now()
	delta := now.Sub(p.last)
	p.last = now
	p.write(now, name, delta)
}

func (p *profiler) endFrame() {
	if p == nil {
		return
	}
	now := p.now()
	p.write(now, "frame_total", now.Sub(p.start))
}

func (p *profiler) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.file.Close()
}

func (p *profiler) write(at time.Time, section string, delta time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ms := float64(delta) / float64(time.Millisecond)
	fmt.Fprintf(p.file, "%s,%d,%s,%.3f\n", at.Format(time.RFC3339Nano), p.frame, section, ms)
}
