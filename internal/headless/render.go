// Package headless drives the effect without a window: a scripted pointer
// sweeps across the logo and frames are written out as PNG files.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/logoswarm/internal/effect"
	"github.com/Faultbox/logoswarm/internal/engine/snapshot"
	"github.com/Faultbox/logoswarm/internal/logger"
	"github.com/Faultbox/logoswarm/internal/stage"
)

// frameInterval is the simulated display refresh.
const frameInterval = time.Second / 60

// Options configures a headless run.
type Options struct {
	Width, Height int
	Frames        int // frames to simulate
	Every         int // write every Nth frame; 0 disables output
	Background    color.RGBA
	Effect        effect.Options
}

// Result summarises a run.
type Result struct {
	Particles    int
	MaxDisplaced int
	Files        []string
}

// Render loads src, then simulates opts.Frames frames. During the first half
// the pointer sweeps left to right through the viewport's vertical centre;
// during the second half it is gone and the logo settles.
func Render(ctx context.Context, loader effect.ImageLoader, src string, opts Options, out *snapshot.Capture) (Result, error) {
	var res Result
	if opts.Width <= 0 || opts.Height <= 0 {
		return res, fmt.Errorf("invalid viewport %dx%d", opts.Width, opts.Height)
	}
	log := logger.Named("headless")

	const container = "headless"
	s := stage.New(opts.Width, opts.Height)
	s.AddContainer(container)

	f, err := effect.New(s, loader, container, src, opts.Effect)
	if err != nil {
		return res, err
	}
	defer f.Destroy()

	now := time.Now()
	if err := waitLoaded(ctx, s, f, &now); err != nil {
		return res, err
	}
	if err := f.Err(); err != nil {
		return res, err
	}
	res.Particles = f.Field().Len()
	log.Info("simulating", zap.Int("particles", res.Particles), zap.Int("frames", opts.Frames))

	half := max(opts.Frames/2, 1)
	y := float64(opts.Height) / 2
	for frame := 1; frame <= opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if frame <= half {
			x := float64(opts.Width) * float64(frame) / float64(half)
			s.DispatchPointerMove(x, y)
		} else if frame == half+1 {
			s.DispatchPointerLeave()
		}

		now = now.Add(frameInterval)
		s.Tick(now)
		res.MaxDisplaced = max(res.MaxDisplaced, f.Field().DisplacedCount())

		if opts.Every > 0 && frame%opts.Every == 0 && out != nil {
			img := snapshot.Compose(opts.Background, f.Canvas().Image())
			name, err := out.Frame(img, frame)
			if err != nil {
				return res, err
			}
			res.Files = append(res.Files, name)
			log.Debug("frame written", zap.Int("frame", frame), zap.String("file", name))
		}
	}
	return res, nil
}

// waitLoaded ticks the stage until the image load settles. Posted tasks
// only run inside Tick, so the stage has to keep turning while we wait.
func waitLoaded(ctx context.Context, s *stage.Stage, f *effect.Fragmentation, now *time.Time) error {
	for {
		*now = now.Add(frameInterval)
		s.Tick(*now)
		select {
		case <-f.Loaded():
			return nil
		case <-ctx.Done():
			return errors.Join(errors.New("waiting for image"), ctx.Err())
		case <-time.After(time.Millisecond):
		}
	}
}
