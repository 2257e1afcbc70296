package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/guidoenr/fftphases/internal/phase"
)

var (
	accentColor = lipgloss.Color("#C3B1E1")
	mutedColor  = lipgloss.Color("#888888")
	textColor   = lipgloss.Color("#FFFFFF")
)

// summary is what the end-of-run report shows.
type summary struct {
	Stats     phase.Stats
	Sequence  []phase.ID
	Seed      int64
	Device    string
	NoiseMode string
	Threshold float64
}

// writeReport prints the run summary as a bordered key/value block. Colour
// is dropped automatically when w is not a terminal.
func writeReport(w io.Writer, s summary, useColor bool) error {
	r := lipgloss.NewRenderer(w)

	title := r.NewStyle().Bold(true)
	key := r.NewStyle().Width(11)
	value := r.NewStyle().Bold(true)
	box := r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	if useColor {
		title = title.Foreground(accentColor)
		key = key.Foreground(mutedColor)
		value = value.Foreground(textColor)
		box = box.BorderForeground(accentColor)
	}

	names := make([]string, len(s.Sequence))
	for i, id := range s.Sequence {
		names[i] = id.String()
	}
	device := s.Device
	if device == "" {
		device = "none"
	}

	rows := [][2]string{
		{"phases", strings.Join(names, " > ")},
		{"frames", fmt.Sprintf("%d", s.Stats.Frames)},
		{"runtime", s.Stats.Runtime.Round(time.Millisecond).String()},
		{"fps", fmt.Sprintf("%.2f", s.Stats.FPS())},
		{"noise", fmt.Sprintf("%s @ %.4f", s.NoiseMode, s.Threshold)},
		{"seed", fmt.Sprintf("%d", s.Seed)},
		{"input", device},
	}

	lines := []string{title.Render("run complete")}
	for _, row := range rows {
		lines = append(lines, key.Render(row[0])+value.Render(row[1]))
	}
	_, err := fmt.Fprintln(w, box.Render(strings.Join(lines, "\n")))
	return err
}
