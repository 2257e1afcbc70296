package render

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	resetANSI       = "\x1b[0m"
	homeANSI        = "\x1b[H"
	precomputedANSI [256]string
)

func init() {
	for i := range precomputedANSI {
		precomputedANSI[i] = "\x1b[38;5;" + strconv.Itoa(i) + "m"
	}
}

// Backend shows a raster somewhere.
type Backend interface {
	Present(r *Raster, status string) error
	Close() error
}

// Terminal prints the raster as coloured glyphs, one cell per character.
type Terminal struct {
	out         *bufio.Writer
	palette     []rune
	paletteName string
	useANSI     bool
	showStatus  bool
	line        strings.Builder
}

// NewTerminal writes frames to out.
func NewTerminal(out io.Writer, paletteName string, useANSI, showStatus bool) *Terminal {
	if paletteName == "" {
		paletteName = "default"
	}
	return &Terminal{
		out:         bufio.NewWriterSize(out, 64*1024),
		palette:     Palette(paletteName),
		paletteName: paletteName,
		useANSI:     useANSI,
		showStatus:  showStatus,
	}
}

func (t *Terminal) PaletteName() string { return t.paletteName }

// Present redraws the whole screen from the home position.
func (t *Terminal) Present(r *Raster, status string) error {
	if _, err := t.out.WriteString(homeANSI); err != nil {
		return err
	}
	for y := 0; y < r.Rows(); y++ {
		t.line.Reset()
		t.line.Grow(r.Cols() * 8)
		lastColor := -1
		for x := 0; x < r.Cols(); x++ {
			c := r.At(x, y)
			if t.useANSI {
				if idx := rgbToANSI(c.R, c.G, c.B); idx != lastColor {
					t.line.WriteString(colorCode(idx))
					lastColor = idx
				}
			}
			t.line.WriteRune(t.glyph(c))
		}
		if t.useANSI {
			t.line.WriteString(resetANSI)
		}
		t.line.WriteByte('\n')
		if _, err := t.out.WriteString(t.line.String()); err != nil {
			return err
		}
	}
	if t.showStatus {
		if _, err := t.out.WriteString(statusBar(status, r.Cols())); err != nil {
			return err
		}
	}
	return t.out.Flush()
}

// Close flushes pending output.
func (t *Terminal) Close() error {
	return t.out.Flush()
}

func (t *Terminal) glyph(c colorful.Color) rune {
	lum := Color{Color: c}.Luminance()
	if lum <= 0.01 {
		return t.palette[0]
	}
	// skip the blank glyph for anything visible
	idx := 1 + int(math.Round(lum*float64(len(t.palette)-2)))
	return t.palette[clampInt(idx, 1, len(t.palette)-1)]
}

func statusBar(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return text + strings.Repeat(" ", width-len(runes))
}

func colorCode(index int) string {
	if index < 0 {
		index = 0
	} else if index >= len(precomputedANSI) {
		index = len(precomputedANSI) - 1
	}
	return precomputedANSI[index]
}

func rgbToANSI(r, g, b float64) int {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)

	// Grayscale palette for low saturation/contrast
	if math.Abs(r-g) < 0.02 && math.Abs(g-b) < 0.02 {
		gray := int(clampFloat(math.Round(r*23), 0, 23))
		return 232 + gray
	}

	ri := int(clampFloat(r*5+0.5, 0, 5))
	gi := int(clampFloat(g*5+0.5, 0, 5))
	bi := int(clampFloat(b*5+0.5, 0, 5))

	return 16 + 36*ri + 6*gi + bi
}
