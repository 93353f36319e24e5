// swarmtool is a headless CLI for inspecting how an image turns into
// particles and for rendering the effect to PNG frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Faultbox/logoswarm/internal/assets"
	"github.com/Faultbox/logoswarm/internal/config"
	"github.com/Faultbox/logoswarm/internal/effect"
	"github.com/Faultbox/logoswarm/internal/engine/snapshot"
	"github.com/Faultbox/logoswarm/internal/fragment"
	"github.com/Faultbox/logoswarm/internal/headless"
	"github.com/Faultbox/logoswarm/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch command {
	case "sample":
		err = cmdSample(ctx, args)
	case "render":
		err = cmdRender(ctx, args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`swarmtool - logo particle effect utility

Usage:
  swarmtool <command> [options] <image>

Commands:
  sample <image>    Sample an image and report the particle layout
  render <image>    Simulate a pointer sweep and write PNG frames
  config [file]     Write the default config (to the user config dir if no file)

Common options:
  -config <file>    Config file (defaults apply otherwise)
  -width, -height   Viewport size (default from config)
  -step <n>         Sample stride override
  -debug            Enable debug logging

Render options:
  -frames <n>       Frames to simulate (default 120)
  -every <n>        Write every Nth frame (default 10)
  -out <dir>        Output directory (default "frames")

Examples:
  swarmtool sample logo.png
  swarmtool config ./config.yaml
  swarmtool render -frames 240 -every 20 -out ./frames https://example.com/logo.png`)
}

// common holds the flags every command shares.
type common struct {
	configPath string
	width      int
	height     int
	step       int
	debug      bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file")
	fs.IntVar(&c.width, "width", 0, "viewport width")
	fs.IntVar(&c.height, "height", 0, "viewport height")
	fs.IntVar(&c.step, "step", 0, "sample stride")
	fs.BoolVar(&c.debug, "debug", false, "debug logging")
}

// setup loads config, applies overrides and starts the console logger.
func (c *common) setup() (*config.Config, error) {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.width > 0 {
		cfg.Window.Width = c.width
	}
	if c.height > 0 {
		cfg.Window.Height = c.height
	}
	if c.step > 0 {
		cfg.Effect.SampleStep = c.step
	}
	if c.debug {
		cfg.Logging.Level = "debug"
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLoader(cfg *config.Config) *assets.Manager {
	return assets.NewManager(assets.Options{
		HTTPTimeout: cfg.Assets.HTTPTimeout,
		Cache:       cfg.Assets.Cache,
	})
}

func cmdSample(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	var c common
	c.register(fs)
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: swarmtool sample [options] <image>")
	}
	src := fs.Arg(0)

	cfg, err := c.setup()
	if err != nil {
		return err
	}

	img, err := newLoader(cfg).LoadImage(ctx, src)
	if err != nil {
		return &fragment.ImageLoadError{Src: src, Err: err}
	}

	opts := effect.OptionsFromConfig(cfg)
	w, h := cfg.Window.Width, cfg.Window.Height
	box := fragment.LogoBox(w, h, opts.LogoScale)
	samples := fragment.SampleImage(img, box, opts.Sampling)
	field := fragment.NewField(samples.Points, opts.Radius, nil)

	b := img.Bounds()
	fmt.Printf("Image:      %s\n", src)
	fmt.Printf("Source:     %dx%d\n", b.Dx(), b.Dy())
	fmt.Printf("Viewport:   %dx%d\n", w, h)
	fmt.Printf("Box:        %.1fx%.1f at (%.1f, %.1f)\n", box.W, box.H, box.X, box.Y)
	fmt.Printf("Scaled:     %dx%d at (%.1f, %.1f)\n", samples.ScaledW, samples.ScaledH, samples.Origin.X, samples.Origin.Y)
	fmt.Printf("Step:       %d (alpha > %d)\n", opts.Sampling.Step, opts.Sampling.AlphaThreshold)
	fmt.Printf("Particles:  %d\n", field.Len())
	if field.Len() > 0 {
		fmt.Printf("Home bounds: %v\n", field.HomeBounds())
	}
	return nil
}

func cmdRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var c common
	c.register(fs)
	frames := fs.Int("frames", 120, "frames to simulate")
	every := fs.Int("every", 10, "write every Nth frame")
	outDir := fs.String("out", "frames", "output directory")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: swarmtool render [options] <image>")
	}
	src := fs.Arg(0)

	cfg, err := c.setup()
	if err != nil {
		return err
	}
	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return err
	}

	res, err := headless.Render(ctx, newLoader(cfg), src, headless.Options{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Frames:     *frames,
		Every:      *every,
		Background: bg,
		Effect:     effect.OptionsFromConfig(cfg),
	}, snapshot.New(*outDir, "frame"))
	if err != nil {
		return err
	}

	fmt.Printf("Particles:     %d\n", res.Particles)
	fmt.Printf("Max displaced: %d\n", res.MaxDisplaced)
	fmt.Printf("Frames written: %d to %s\n", len(res.Files), *outDir)
	return nil
}

func cmdConfig(args []string) error {
	cfg := config.Default()
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	return nil
}
