// Package app runs the interactive window: it owns the stage, feeds it SDL
// input and presents its layers once per refresh.
package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/logoswarm/internal/assets"
	"github.com/Faultbox/logoswarm/internal/config"
	"github.com/Faultbox/logoswarm/internal/effect"
	"github.com/Faultbox/logoswarm/internal/engine/input"
	"github.com/Faultbox/logoswarm/internal/engine/renderer"
	"github.com/Faultbox/logoswarm/internal/engine/snapshot"
	"github.com/Faultbox/logoswarm/internal/engine/window"
	"github.com/Faultbox/logoswarm/internal/logger"
	"github.com/Faultbox/logoswarm/internal/stage"
)

// App is the interactive host.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window    *window.Window
	presenter *renderer.Presenter
	input     *input.Input
	stage     *stage.Stage
	effect    *effect.Fragmentation
	shots     *snapshot.Capture

	layers []*image.RGBA
}

// New opens the window and attaches the effect to the configured container.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
		zap.String("image", cfg.Effect.Image),
	)

	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return nil, err
	}

	// Window first: the GL context must exist before the presenter
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	w, h := a.window.GetSize()

	a.presenter, err = renderer.NewPresenter(renderer.Config{Width: w, Height: h, Background: bg})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.shots = snapshot.New(cfg.Render.ScreenshotDir, "logoswarm")

	a.stage = stage.New(w, h)
	a.stage.AddContainer(cfg.Effect.Container)

	loader := assets.NewManager(assets.Options{
		HTTPTimeout: cfg.Assets.HTTPTimeout,
		Cache:       cfg.Assets.Cache,
	})
	a.effect, err = effect.New(a.stage, loader, cfg.Effect.Container, cfg.Effect.Image, effect.OptionsFromConfig(cfg))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to attach effect: %w", err)
	}

	a.log.Info("initialized")
	return a, nil
}

// Run drives the frame loop until the window closes, Escape is pressed or
// ctx is cancelled. With VSync on, SwapBuffers paces the loop to the display.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	a.log.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil {
			a.log.Info("interrupted")
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			break
		}
		capture := a.handleEvents()

		a.stage.Tick(now)
		a.presenter.Present(a.collectLayers())

		if capture {
			a.screenshot()
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt),
				zap.Int("particles", a.effect.Field().Len()),
				zap.Int("displaced", a.effect.Field().DisplacedCount()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.running = false
	return nil
}

// handleEvents forwards input to the stage. It reports whether a screenshot
// was requested.
func (a *App) handleEvents() (capture bool) {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.presenter.Resize(ev.Width, ev.Height)
			a.stage.DispatchResize(ev.Width, ev.Height)
		case input.EventPointerMove:
			a.stage.DispatchPointerMove(ev.X, ev.Y)
		case input.EventPointerLeave:
			a.stage.DispatchPointerLeave()
		case input.EventKeyDown:
			switch ev.Key {
			case sdl.SCANCODE_ESCAPE:
				a.running = false
			case sdl.SCANCODE_F12:
				capture = true
			}
		}
	}
	return capture
}

func (a *App) collectLayers() []*image.RGBA {
	a.layers = a.layers[:0]
	for _, l := range a.stage.Layers() {
		a.layers = append(a.layers, l.Image())
	}
	return a.layers
}

func (a *App) screenshot() {
	pixels, w, h := a.presenter.ReadPixels()
	name, err := a.shots.FromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("file", name))
}

// Close detaches the effect and releases the window.
func (a *App) Close() {
	a.log.Info("closing")

	if a.effect != nil {
		a.effect.Destroy()
	}
	if a.presenter != nil {
		a.presenter.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
