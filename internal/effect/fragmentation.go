// Package effect wires the particle simulation into a host stage: it owns
// the canvas layer, the pointer state and the per-frame loop.
package effect

import (
	"context"
	"image"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/logoswarm/internal/engine/renderer"
	"github.com/Faultbox/logoswarm/internal/fragment"
	"github.com/Faultbox/logoswarm/internal/logger"
	"github.com/Faultbox/logoswarm/internal/stage"
	vmath "github.com/Faultbox/logoswarm/pkg/math"
)

// Host is the surface a Fragmentation attaches to.
type Host interface {
	Scheduler
	Container(id string) (*stage.Container, bool)
	Post(fn func())
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnPointerLeave(fn func()) (remove func())
	OnResize(fn func(w, h int)) (remove func())
}

// ImageLoader fetches and decodes an image. It is called off the host goroutine.
type ImageLoader interface {
	LoadImage(ctx context.Context, src string) (image.Image, error)
}

// Fragmentation is a live logo effect bound to one container.
// All methods except Loaded must be called on the host goroutine.
type Fragmentation struct {
	host      Host
	container *stage.Container
	canvas    *renderer.Canvas
	src       string
	opts      Options
	rng       *rand.Rand
	log       *zap.Logger

	field   *fragment.Field
	pointer fragment.Pointer
	source  image.Image
	err     error

	loaded     chan struct{}
	loadDone   bool
	cancelLoad context.CancelFunc

	driver    *Driver
	listeners []func()
	destroyed bool
}

// New attaches an effect to containerID and starts loading src.
// The frame loop starts immediately; until the image arrives the canvas is
// simply cleared every frame.
func New(host Host, loader ImageLoader, containerID, src string, opts Options) (*Fragmentation, error) {
	log := logger.Named("effect")

	container, ok := host.Container(containerID)
	if !ok {
		err := &fragment.ContainerNotFoundError{ID: containerID}
		log.Error("cannot attach effect", zap.Error(err))
		return nil, err
	}

	w, h := container.Size()
	f := &Fragmentation{
		host:      host,
		container: container,
		canvas:    renderer.NewCanvas(w, h),
		src:       src,
		opts:      opts,
		rng:       newRand(opts.Seed),
		log:       log.With(zap.String("container", containerID)),
		loaded:    make(chan struct{}),
	}
	container.Append(f.canvas)

	ctx, cancel := context.WithCancel(context.Background())
	f.cancelLoad = cancel
	go func() {
		img, err := loader.LoadImage(ctx, src)
		host.Post(func() { f.onImage(img, err) })
	}()

	f.listeners = []func(){
		host.OnPointerMove(f.onPointerMove),
		host.OnPointerLeave(f.onPointerLeave),
		host.OnResize(f.onResize),
	}

	f.driver = NewDriver(host, f.frame)
	f.driver.Start()

	f.log.Debug("effect attached", zap.String("src", src), zap.Int("width", w), zap.Int("height", h))
	return f, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (f *Fragmentation) onImage(img image.Image, err error) {
	if f.destroyed {
		return
	}
	defer f.finishLoad()

	if err != nil {
		f.err = &fragment.ImageLoadError{Src: f.src, Err: err}
		f.log.Error("image load failed", zap.Error(f.err))
		return
	}
	f.source = img
	f.build()
}

// build samples the source image into a fresh field sized for the current canvas.
func (f *Fragmentation) build() {
	w, h := f.canvas.Size()
	box := fragment.LogoBox(w, h, f.opts.LogoScale)
	samples := fragment.SampleImage(f.source, box, f.opts.Sampling)
	f.field = fragment.NewField(samples.Points, f.opts.Radius, f.rng)

	b := f.source.Bounds()
	f.log.Info("particles created",
		zap.Int("count", f.field.Len()),
		zap.Int("imageWidth", b.Dx()),
		zap.Int("imageHeight", b.Dy()),
		zap.Int("scaledWidth", samples.ScaledW),
		zap.Int("scaledHeight", samples.ScaledH),
		zap.Float64("x", samples.Origin.X),
		zap.Float64("y", samples.Origin.Y),
	)
}

func (f *Fragmentation) finishLoad() {
	if !f.loadDone {
		f.loadDone = true
		close(f.loaded)
	}
}

func (f *Fragmentation) frame(time.Time) {
	fragment.Step(f.field, f.pointer, f.opts.Physics)
	f.canvas.DrawParticles(f.field.Particles())
}

func (f *Fragmentation) onPointerMove(x, y float64) {
	f.pointer = fragment.Pointer{Pos: vmath.Vec2{X: x, Y: y}, Active: true}
}

func (f *Fragmentation) onPointerLeave() {
	f.pointer.Active = false
}

func (f *Fragmentation) onResize(w, h int) {
	f.canvas.Resize(w, h)
	if f.opts.ResampleOnResize && f.source != nil {
		f.build()
	}
	f.log.Debug("canvas resized", zap.Int("width", w), zap.Int("height", h))
}

// Destroy stops the loop, detaches every listener and removes the canvas.
// Safe to call more than once.
func (f *Fragmentation) Destroy() {
	if f.destroyed {
		return
	}
	f.destroyed = true

	f.driver.Stop()
	for _, remove := range f.listeners {
		remove()
	}
	f.listeners = nil
	f.cancelLoad()

	f.container.Remove(f.canvas)
	f.canvas.Release()
	f.finishLoad()

	f.log.Debug("effect destroyed", zap.Uint64("frames", f.driver.Frames()))
}

// Destroyed reports whether Destroy has run.
func (f *Fragmentation) Destroyed() bool { return f.destroyed }

// Field returns the particle field, or nil before the image has loaded.
func (f *Fragmentation) Field() *fragment.Field { return f.field }

// Pointer returns the last pointer state seen.
func (f *Fragmentation) Pointer() fragment.Pointer { return f.pointer }

// Err returns the image load error, if any.
func (f *Fragmentation) Err() error { return f.err }

// Canvas returns the effect's drawing layer.
func (f *Fragmentation) Canvas() *renderer.Canvas { return f.canvas }

// Running reports whether the frame loop is active.
func (f *Fragmentation) Running() bool { return f.driver.Running() }

// Frames returns how many frames have been simulated.
func (f *Fragmentation) Frames() uint64 { return f.driver.Frames() }

// Loaded is closed once the image load has settled (success, failure or
// Destroy). Safe to receive from any goroutine.
func (f *Fragmentation) Loaded() <-chan struct{} { return f.loaded }
