package effect

import (
	"github.com/Faultbox/logoswarm/internal/config"
	"github.com/Faultbox/logoswarm/internal/fragment"
)

// Options tunes a Fragmentation.
type Options struct {
	Sampling         fragment.Sampling
	Physics          fragment.Physics
	Radius           fragment.RadiusRange
	LogoScale        float64 // target box side as a fraction of min(viewport)
	ResampleOnResize bool
	Seed             uint64 // radius RNG seed; 0 means random
}

// DefaultOptions returns the stock effect settings.
func DefaultOptions() Options {
	return Options{
		Sampling:  fragment.DefaultSampling(),
		Physics:   fragment.DefaultPhysics(),
		Radius:    fragment.DefaultRadius(),
		LogoScale: 0.3,
	}
}

// OptionsFromConfig maps validated config sections onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	e, p := cfg.Effect, cfg.Physics
	return Options{
		Sampling: fragment.Sampling{
			Step:           e.SampleStep,
			AlphaThreshold: uint8(e.AlphaThreshold),
			AllowUpscale:   e.AllowUpscale,
		},
		Physics: fragment.Physics{
			PointerRadius: p.PointerRadius,
			PointerForce:  p.PointerForce,
			ReturnForce:   p.ReturnForce,
			Friction:      p.Friction,
		},
		Radius:           fragment.RadiusRange{Min: e.RadiusMin, Max: e.RadiusMax},
		LogoScale:        e.LogoScale,
		ResampleOnResize: e.ResampleOnResize,
		Seed:             e.Seed,
	}
}
