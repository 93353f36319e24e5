// Package config handles logoswarm configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

// Config holds all settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Effect  EffectConfig  `yaml:"effect"`
	Physics PhysicsConfig `yaml:"physics"`
	Render  RenderConfig  `yaml:"render"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// EffectConfig describes what the fragmentation effect samples and where it attaches.
type EffectConfig struct {
	Container        string  `yaml:"container"`
	Image            string  `yaml:"image"`
	LogoScale        float64 `yaml:"logo_scale"`      // target box side as a fraction of min(viewport)
	SampleStep       int     `yaml:"sample_step"`     // source-pixel stride
	AlphaThreshold   int     `yaml:"alpha_threshold"` // pixels with alpha <= this are skipped
	RadiusMin        float64 `yaml:"radius_min"`
	RadiusMax        float64 `yaml:"radius_max"`
	AllowUpscale     bool    `yaml:"allow_upscale"`
	ResampleOnResize bool    `yaml:"resample_on_resize"`
	Seed             uint64  `yaml:"seed"` // 0 picks a random seed
}

// PhysicsConfig holds force model coefficients.
type PhysicsConfig struct {
	PointerRadius float64 `yaml:"pointer_radius"`
	PointerForce  float64 `yaml:"pointer_force"`
	ReturnForce   float64 `yaml:"return_force"`
	Friction      float64 `yaml:"friction"`
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	Background    string `yaml:"background"` // hex colour behind the particle layer
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// AssetsConfig controls image fetching.
type AssetsConfig struct {
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Cache       bool          `yaml:"cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "logoswarm",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Effect: EffectConfig{
			Container:      "logo",
			Image:          "logo.png",
			LogoScale:      0.3,
			SampleStep:     4,
			AlphaThreshold: 50,
			RadiusMin:      2,
			RadiusMax:      4,
		},
		Physics: PhysicsConfig{
			PointerRadius: 150,
			PointerForce:  0.5,
			ReturnForce:   0.02,
			Friction:      0.98,
		},
		Render: RenderConfig{
			Background:    "#0b0b14",
			ScreenshotDir: "screenshots",
		},
		Assets: AssetsConfig{
			HTTPTimeout: 10 * time.Second,
			Cache:       true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.Effect.Container == "" {
		errs = append(errs, errors.New("effect.container must not be empty"))
	}
	if c.Effect.LogoScale <= 0 {
		errs = append(errs, fmt.Errorf("effect.logo_scale must be positive, got %g", c.Effect.LogoScale))
	}
	if c.Effect.SampleStep < 1 {
		errs = append(errs, fmt.Errorf("effect.sample_step must be >= 1, got %d", c.Effect.SampleStep))
	}
	if c.Effect.AlphaThreshold < 0 || c.Effect.AlphaThreshold > 255 {
		errs = append(errs, fmt.Errorf("effect.alpha_threshold must be in [0,255], got %d", c.Effect.AlphaThreshold))
	}
	if c.Effect.RadiusMin <= 0 || c.Effect.RadiusMax < c.Effect.RadiusMin {
		errs = append(errs, fmt.Errorf("effect radius range [%g,%g) is invalid", c.Effect.RadiusMin, c.Effect.RadiusMax))
	}
	if c.Physics.PointerRadius <= 0 {
		errs = append(errs, fmt.Errorf("physics.pointer_radius must be positive, got %g", c.Physics.PointerRadius))
	}
	if c.Physics.Friction < 0 || c.Physics.Friction > 1 {
		errs = append(errs, fmt.Errorf("physics.friction must be in [0,1], got %g", c.Physics.Friction))
	}
	if _, err := c.Render.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BackgroundColor parses Render.Background.
func (r RenderConfig) BackgroundColor() (color.RGBA, error) {
	c, err := colorful.Hex(r.Background)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("render.background %q: %w", r.Background, err)
	}
	cr, cg, cb := c.RGB255()
	return color.RGBA{R: cr, G: cg, B: cb, A: 255}, nil
}
