package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/eiannone/keyboard"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/guidoenr/fftphases/internal/analyzer"
	"github.com/guidoenr/fftphases/internal/audio"
	"github.com/guidoenr/fftphases/internal/params"
	"github.com/guidoenr/fftphases/internal/phase"
	"github.com/guidoenr/fftphases/internal/render"
	"github.com/guidoenr/fftphases/internal/scene"
	"github.com/guidoenr/fftphases/internal/web"
)

// Config configures the application runtime.
type Config struct {
	Params        params.Parameters
	DeviceName    string
	TargetFPS     float64
	BufferSize    int
	DisableAudio  bool
	ShowStatusBar bool
	Palette       string
	UseANSI       bool
	Window        bool
	ProfilePath   string
	Out           io.Writer
	Log           *zap.Logger
}

type inputEvent int

const (
	inputEventQuit inputEvent = iota
)

// App ties together audio capture, the phase director and a display backend.
type App struct {
	cfg      Config
	log      *zap.Logger
	out      io.Writer
	director *scene.Director
	recorder *render.Recorder
	raster   *render.Raster
	backend  render.Backend
	meter    *audio.Meter
	capture  *audio.Capture
	profiler *profiler
	terminal bool

	deviceLabel string
	width       int
	height      int
	inputEvents chan inputEvent

	start time.Time
	last  time.Time
	frame int

	mu     sync.RWMutex
	status scene.Status
	fps    float64
}

// New constructs the application using the provided configuration.
func New(cfg Config) (*App, error) {
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = 60
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 2048
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	p := cfg.Params

	a := &App{
		cfg:      cfg,
		log:      cfg.Log,
		out:      cfg.Out,
		recorder: render.NewRecorder(p.CanvasWidth, p.CanvasHeight),
		width:    80,
		height:   24,
	}

	var sampler audio.Sampler
	if cfg.DisableAudio {
		sampler = newSynth(p.Seed, cfg.TargetFPS, cfg.BufferSize)
		a.log.Info("audio disabled, using synthetic generator")
	} else {
		capture, err := audio.NewCapture(audio.Config{
			DeviceName: cfg.DeviceName,
			BufferSize: cfg.BufferSize,
			Channels:   2,
			Logger:     a.log,
		})
		if err != nil {
			return nil, fmt.Errorf("audio capture: %w", err)
		}
		a.capture = capture
		sampler = capture
		if info := capture.Device(); info != nil {
			a.deviceLabel = info.Name
		}
	}
	a.meter = audio.NewMeter(sampler, analyzer.New(analyzer.Config{Bins: cfg.BufferSize / 2}))
	a.director = scene.NewDirector(p, a.meter, a.log)

	if cfg.Window {
		win, err := render.NewWindow(int(p.CanvasWidth), int(p.CanvasHeight))
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("window: %w", err)
		}
		a.backend = win
		// half resolution keeps the software compositor inside the frame budget
		a.raster = render.NewRaster(int(p.CanvasWidth/2), int(p.CanvasHeight/2), p.CanvasWidth, p.CanvasHeight)
	} else {
		a.terminal = true
		a.backend = render.NewTerminal(a.out, cfg.Palette, cfg.UseANSI, cfg.ShowStatusBar)
		a.raster = render.NewRaster(a.width, a.renderRows(a.height), p.CanvasWidth, p.CanvasHeight)
		a.ensureDimensions()
	}

	a.profiler = newProfiler(cfg.ProfilePath, a.log)
	a.status = a.director.Status()
	return a, nil
}

// Run drives the frame loop until every phase has finished, the user quits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	frameDuration := time.Duration(float64(time.Second) / a.cfg.TargetFPS)
	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	if a.terminal {
		a.enterAltScreen()
		a.clearScreen()
		a.hideCursor()
		defer func() {
			a.showCursor()
			a.exitAltScreen()
		}()
	}

	inputCtx, cancelInput := context.WithCancel(ctx)
	defer cancelInput()
	a.startInputListener(inputCtx)

	a.markStart(time.Now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case evt, ok := <-a.inputEvents:
			if !ok {
				a.inputEvents = nil
				continue
			}
			if evt == inputEventQuit {
				a.log.Info("quit requested")
				return nil
			}
		case now := <-ticker.C:
			done, err := a.step(now)
			if errors.Is(err, render.ErrRendererQuit) {
				a.log.Info("window closed")
				return nil
			}
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// Snapshot implements web.StatusProvider.
func (a *App) Snapshot() web.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var uptime time.Duration
	if !a.start.IsZero() {
		uptime = a.last.Sub(a.start)
	}
	return web.Snapshot{
		Scene:  a.status,
		FPS:    a.fps,
		Device: a.deviceLabel,
		Uptime: uptime,
	}
}

// Report prints the end-of-run summary. A run cut short reports the
// frames processed so far.
func (a *App) Report(w io.Writer) error {
	stats, ok := a.director.Stats()
	if !ok {
		a.mu.RLock()
		stats = phase.Stats{Frames: a.status.Frames, Runtime: a.last.Sub(a.start)}
		a.mu.RUnlock()
	}
	p := a.cfg.Params
	seq := make([]phase.ID, len(p.Sequence))
	for i, id := range p.Sequence {
		seq[i] = phase.ID(id)
	}
	return writeReport(w, summary{
		Stats:     stats,
		Sequence:  seq,
		Seed:      p.Seed,
		Device:    a.deviceLabel,
		NoiseMode: p.NoiseMode.String(),
		Threshold: a.director.Threshold().Active(),
	}, a.cfg.UseANSI)
}

// Close releases held resources.
func (a *App) Close() error {
	var err error
	if a.backend != nil {
		err = multierr.Append(err, a.backend.Close())
	}
	if a.capture != nil {
		err = multierr.Append(err, a.capture.Close())
	}
	return multierr.Append(err, a.profiler.Close())
}

// step renders one frame stamped at now.
func (a *App) step(now time.Time) (bool, error) {
	a.markStart(now)
	a.ensureDimensions()
	a.frame++

	a.profiler.beginFrame(a.frame)
	a.meter.Refresh()
	a.profiler.markSection("audio")

	done := a.director.Update(scene.Frame{Now: now.Sub(a.start), Count: a.frame}, a.recorder)
	a.profiler.markSection("scene")

	a.raster.Apply(a.recorder.Take())
	a.profiler.markSection("raster")

	a.record(now)
	err := a.backend.Present(a.raster, a.statusLine())
	a.profiler.markSection("present")
	a.profiler.endFrame()

	if err != nil {
		return false, fmt.Errorf("present: %w", err)
	}
	return done, nil
}

// markStart stamps the run start once. The web feed reads start and last
// concurrently, so both are only touched under mu.
func (a *App) markStart(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.start.IsZero() {
		a.start = now
		a.last = now
	}
}

func (a *App) record(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if delta := now.Sub(a.last).Seconds(); delta > 0 {
		instant := 1 / delta
		if a.fps == 0 {
			a.fps = instant
		} else {
			a.fps = 0.9*a.fps + 0.1*instant
		}
	}
	a.last = now
	a.status = a.director.Status()
}

func (a *App) statusLine() string {
	a.mu.RLock()
	st, fps := a.status, a.fps
	a.mu.RUnlock()

	text := fmt.Sprintf("%s %d/%d | energy=%.3f band=%d thr=%.3f | %.1f fps",
		st.Phase, min(st.Index+1, st.Total), st.Total, st.Energy, st.Band, st.Threshold, fps)
	if a.deviceLabel != "" {
		text = fmt.Sprintf("%s | mic=%s", text, a.deviceLabel)
	}
	return text
}

func (a *App) renderRows(h int) int {
	if a.cfg.ShowStatusBar && h > 1 {
		h--
	}
	return max(h, 1)
}

func (a *App) ensureDimensions() {
	if !a.terminal {
		return
	}
	f, ok := a.out.(*os.File)
	if !ok {
		return
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return
	}
	if w == a.width && h == a.height {
		return
	}

	a.width = w
	a.height = h
	p := a.cfg.Params
	a.raster.Resize(w, a.renderRows(h), p.CanvasWidth, p.CanvasHeight)
	a.log.Debug("terminal resized", zap.Int("cols", w), zap.Int("rows", h))
}

func (a *App) startInputListener(ctx context.Context) {
	if err := keyboard.Open(); err != nil {
		a.log.Warn("keyboard input disabled", zap.Error(err))
		a.inputEvents = nil
		return
	}

	events := make(chan inputEvent, 1)
	a.inputEvents = events

	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			if key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q' || char == 'Q' {
				events <- inputEventQuit
				return
			}
		}
	}()
}

func (a *App) clearScreen() {
	fmt.Fprint(a.out, "\x1b[2J\x1b[H")
}

func (a *App) hideCursor() {
	fmt.Fprint(a.out, "\x1b[?25l")
}

func (a *App) showCursor() {
	fmt.Fprint(a.out, "\x1b[?25h")
}

func (a *App) enterAltScreen() {
	fmt.Fprint(a.out, "\x1b[?1049h")
}

func (a *App) exitAltScreen() {
	fmt.Fprint(a.out, "\x1b[?1049l\x1b[0m")
}
