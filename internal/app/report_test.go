package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/guidoenr/fftphases/internal/phase"
)

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	s := summary{
		Stats:     phase.Stats{Frames: 120, Runtime: 2 * time.Second},
		Sequence:  []phase.ID{phase.MandalaPair, phase.Waves},
		Seed:      42,
		NoiseMode: "adaptive",
		Threshold: 0.1111,
	}
	if err := writeReport(&buf, s, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"run complete",
		"mandala-pair > waves",
		"120",
		"2s",
		"60.00",
		"adaptive @ 0.1111",
		"42",
		"none",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("non-terminal writer should get no escape codes:\n%q", out)
	}
}
