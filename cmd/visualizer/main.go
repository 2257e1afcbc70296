package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/guidoenr/fftphases/internal/app"
	"github.com/guidoenr/fftphases/internal/audio"
	"github.com/guidoenr/fftphases/internal/params"
	"github.com/guidoenr/fftphases/internal/render"
	"github.com/guidoenr/fftphases/internal/web"
)

// CLI defines the command-line interface.
type CLI struct {
	Phases        string        `default:"1,2,3" help:"Comma separated phase sequence (1=mandala pair, 2=reactive mandala, 3=waves)."`
	PhaseDuration time.Duration `default:"30s" help:"Length of each timed phase."`
	NoiseMode     string        `default:"fixed" enum:"fixed,adaptive" help:"Noise threshold mode (fixed|adaptive)."`
	Threshold     float64       `default:"0.15" help:"Fixed noise threshold."`
	Floor         float64       `default:"0.02" help:"Adaptive threshold floor."`
	Ceiling       float64       `default:"0.2" help:"Adaptive threshold ceiling."`
	Backoff       float64       `default:"0.4" help:"Adaptive threshold/energy ratio that triggers a decrease."`
	Step          float64       `default:"0.01" help:"Adaptive threshold step factor."`
	CanvasWidth   float64       `default:"1280" help:"Logical canvas width."`
	CanvasHeight  float64       `default:"720" help:"Logical canvas height."`

	FPS              float64 `name:"fps" default:"60" help:"Target frames per second."`
	BufferSize       int     `default:"2048" help:"FFT buffer size (power of two recommended)."`
	AudioDevice      string  `help:"PortAudio device name (substring match)."`
	NoAudio          bool    `help:"Run with synthetic audio."`
	ListAudioDevices bool    `help:"List available audio input devices and exit."`
	Seed             int64   `default:"0" help:"Random seed; 0 picks one from the clock."`
	Window           bool    `help:"Render into an SDL window (requires -tags sdl)."`
	WebPort          int     `default:"0" help:"Serve the status feed on this port (0 disables)."`
	Profile          string  `type:"path" help:"Append per-frame section timings to this CSV file."`
	Palette          string  `default:"default" help:"Terminal glyph palette."`
	NoStatus         bool    `help:"Hide the status bar."`
	Debug            bool    `help:"Enable verbose logging."`
	NoColor          bool    `help:"Disable ANSI color output."`
}

// Parameters validates the flags into run parameters.
func (c *CLI) Parameters() (params.Parameters, error) {
	p := params.Defaults()
	seq, err := params.ParseSequence(c.Phases)
	if err != nil {
		return p, err
	}
	mode, err := params.ParseNoiseMode(c.NoiseMode)
	if err != nil {
		return p, err
	}
	p.Sequence = seq
	p.PhaseDuration = c.PhaseDuration
	p.NoiseMode = mode
	p.FixedThreshold = c.Threshold
	p.Floor = c.Floor
	p.Ceiling = c.Ceiling
	p.Backoff = c.Backoff
	p.Step = c.Step
	p.CanvasWidth = c.CanvasWidth
	p.CanvasHeight = c.CanvasHeight
	p.Seed = c.Seed
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}
	return p, p.Validate()
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("visualizer"),
		kong.Description("Audio-reactive generative mandalas in three phases."),
		kong.UsageOnError(),
	)

	if cli.FPS <= 0 {
		kctx.Fatalf("fps must be positive (got %.2f)", cli.FPS)
	}
	if cli.BufferSize <= 0 {
		kctx.Fatalf("buffer-size must be positive (got %d)", cli.BufferSize)
	}
	kctx.FatalIfErrorf(render.ValidPalette(cli.Palette))
	p, err := cli.Parameters()
	kctx.FatalIfErrorf(err)

	logger, err := newLogger(cli.Debug)
	kctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	needAudio := !cli.NoAudio || cli.ListAudioDevices
	if needAudio {
		if err := audio.Initialize(); err != nil {
			logger.Fatal("failed to initialize audio", zap.Error(err))
		}
		defer func() { _ = audio.Terminate() }()
	}

	if cli.ListAudioDevices {
		if err := listDevices(!cli.NoColor); err != nil {
			logger.Fatal("list devices", zap.Error(err))
		}
		return
	}

	logger.Info("starting",
		zap.Ints("phases", p.Sequence),
		zap.Duration("phaseDuration", p.PhaseDuration),
		zap.Stringer("noiseMode", p.NoiseMode),
		zap.Int64("seed", p.Seed),
	)

	a, err := app.New(app.Config{
		Params:        p,
		DeviceName:    cli.AudioDevice,
		TargetFPS:     cli.FPS,
		BufferSize:    cli.BufferSize,
		DisableAudio:  cli.NoAudio,
		ShowStatusBar: !cli.NoStatus,
		Palette:       cli.Palette,
		UseANSI:       !cli.NoColor,
		Window:        cli.Window,
		ProfilePath:   cli.Profile,
		Log:           logger,
	})
	if err != nil {
		logger.Fatal("failed to create app", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("cleanup error", zap.Error(err))
		}
	}()

	if cli.WebPort > 0 {
		srv := web.NewServer(a, logger)
		go func() {
			if err := srv.Start(ctx, cli.WebPort); err != nil {
				logger.Error("status feed stopped", zap.Error(err))
			}
		}()
	}

	runErr := a.Run(ctx)
	if err := a.Report(os.Stderr); err != nil {
		logger.Warn("report", zap.Error(err))
	}
	if runErr != nil && ctx.Err() == nil {
		logger.Fatal("runtime error", zap.Error(runErr))
	}
}

// newLogger writes to stderr so log lines never land inside the frame.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func listDevices(useColor bool) error {
	devices, err := audio.ListDevices()
	if err != nil {
		return err
	}

	title := lipgloss.NewStyle().Bold(true)
	muted := lipgloss.NewStyle()
	if useColor {
		title = title.Foreground(lipgloss.Color("#C3B1E1"))
		muted = muted.Foreground(lipgloss.Color("#888888"))
	}

	fmt.Println(title.Render("Audio input devices"))
	fmt.Println()
	for _, dev := range audio.Inputs(devices) {
		marker := ""
		if dev.IsDefaultInput {
			marker = " (default)"
		}
		fmt.Printf("- %s [%s]%s\n", dev.Name, dev.HostAPI, marker)
		fmt.Println(muted.Render(fmt.Sprintf("    inputs:%d outputs:%d sample:%.0f Hz",
			dev.MaxInput, dev.MaxOutput, dev.DefaultSampleHz)))
	}
	if dev, err := audio.AutoDetectDevice(); err == nil && dev != nil {
		fmt.Printf("\nAuto-detected input: %s (%.0f Hz, %d channels)\n", dev.Name, dev.DefaultSampleRate, dev.MaxInputChannels)
	}
	return nil
}
