//go:build !sdl

package render

import "errors"

// Window is unavailable without the sdl build tag.
type Window struct{}

func NewWindow(width, height int) (*Window, error) {
	return nil, errors.New("SDL backend not enabled; rebuild with -tags sdl")
}

func (w *Window) Present(r *Raster, status string) error {
	return ErrRendererQuit
}

func (w *Window) Close() error { return nil }

func SupportsSDL() bool { return false }
