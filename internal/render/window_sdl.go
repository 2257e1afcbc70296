//go:build sdl

package render

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Window shows the raster in an SDL window, one raster cell per pixel.
type Window struct {
	window      *sdl.Window
	renderer    *sdl.Renderer
	texture     *sdl.Texture
	pixelBuffer []byte
	width       int
	height      int
	pitch       int
	windowTitle string
}

// NewWindow opens a window of the given pixel size.
func NewWindow(width, height int) (*Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid window size: width=%d height=%d", width, height)
	}
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}
	w := &Window{}
	window, err := sdl.CreateWindow(
		"fftphases",
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(width), int32(height),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("create window: %w", err)
	}
	w.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	w.renderer = renderer
	_ = renderer.SetLogicalSize(int32(width), int32(height))

	if err := w.ensureTexture(width, height); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

func (w *Window) ensureTexture(width, height int) error {
	if w.texture != nil && w.width == width && w.height == height {
		return nil
	}
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	tex, err := w.renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	w.texture = tex
	w.width = width
	w.height = height
	w.pitch = width * 4
	w.pixelBuffer = make([]byte, w.pitch*height)
	return nil
}

// Present uploads the raster and pumps window events. Closing the window
// returns ErrRendererQuit.
func (w *Window) Present(r *Raster, status string) error {
	if err := w.ensureTexture(r.Cols(), r.Rows()); err != nil {
		return err
	}
	for y := 0; y < r.Rows(); y++ {
		rowOffset := y * w.pitch
		for x := 0; x < r.Cols(); x++ {
			c := r.At(x, y)
			offset := rowOffset + x*4
			w.pixelBuffer[offset+0] = byte(clampFloat(c.R*255, 0, 255))
			w.pixelBuffer[offset+1] = byte(clampFloat(c.G*255, 0, 255))
			w.pixelBuffer[offset+2] = byte(clampFloat(c.B*255, 0, 255))
			w.pixelBuffer[offset+3] = 255
		}
	}

	if status != "" && status != w.windowTitle {
		w.window.SetTitle(status)
		w.windowTitle = status
	}
	if err := w.texture.Update(nil, w.pixelBuffer, w.pitch); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch event.(type) {
		case *sdl.QuitEvent:
			return ErrRendererQuit
		}
	}
	return nil
}

// Close destroys SDL resources in reverse order of creation.
func (w *Window) Close() error {
	if w.texture != nil {
		w.texture.Destroy()
		w.texture = nil
	}
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	w.pixelBuffer = nil
	sdl.QuitSubSystem(sdl.INIT_VIDEO)
	return nil
}

func SupportsSDL() bool { return true }
