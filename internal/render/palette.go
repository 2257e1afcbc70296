package render

import (
	"fmt"
	"slices"
	"strings"
)

// Glyph ramps, darkest first. The first glyph is only used for black cells.
var palettes = map[string][]rune{
	"default": []rune(" .,:-;+=*%#@"),
	"box":     []rune(" ░▒▓█"),
	"lines":   []rune(" `.-=+*/\\|╱╲╳"),
	"spark":   []rune(" ´`^\"~:;*+×•¤°oO@#█"),
}

var paletteOrder = []string{"default", "box", "lines", "spark"}

// Palette returns the glyph ramp for name, falling back to the default.
func Palette(name string) []rune {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["default"]
}

// PaletteNames returns all palette identifiers.
func PaletteNames() []string {
	return slices.Clone(paletteOrder)
}

// ValidPalette reports an unknown palette name.
func ValidPalette(name string) error {
	if _, ok := palettes[name]; !ok {
		return fmt.Errorf("unknown palette %q (want %s)", name, strings.Join(paletteOrder, "|"))
	}
	return nil
}
