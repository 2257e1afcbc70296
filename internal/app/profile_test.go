package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestProfilerWritesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.csv")
	p := newProfiler(path, zap.NewNop())
	if p == nil {
		t.Fatalf("profiler not created")
	}

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }

	p.beginFrame(7)
	clock = clock.Add(2 * time.Millisecond)
	p.markSection("scene")
	clock = clock.Add(500 * time.Microsecond)
	p.markSection("present")
	p.endFrame()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines=%d:\n%s", len(lines), data)
	}
	if lines[0] != "timestamp,frame,section,delta_ms" {
		t.Fatalf("header=%q", lines[0])
	}
	for i, want := range []string{",7,scene,2.000", ",7,present,0.500", ",7,frame_total,2.500"} {
		if !strings.HasSuffix(lines[i+1], want) {
			t.Fatalf("line %d=%q want suffix %q", i+1, lines[i+1], want)
		}
	}

	// reopening appends without a second header
	p = newProfiler(path, zap.NewNop())
	p.beginFrame(8)
	p.endFrame()
	_ = p.Close()
	data, _ = os.ReadFile(path)
	if n := strings.Count(string(data), "timestamp,frame"); n != 1 {
		t.Fatalf("header written %d times", n)
	}
}

func TestNilProfilerIsInert(t *testing.T) {
	var p *profiler
	p.beginFrame(1)
	p.markSection("x")
	p.endFrame()
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if newProfiler("", zap.NewNop()) != nil {
		t.Fatalf("empty path should disable profiling")
	}
}
