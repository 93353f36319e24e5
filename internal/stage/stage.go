// Package stage is the host environment effects run in: named containers
// holding drawable layers, a once-per-refresh frame callback queue, and
// pointer/resize event listeners.
//
// A Stage is single-threaded. Every method except Post must be called from
// the goroutine that calls Tick; listeners and frame callbacks run there
// too and never overlap.
package stage

import (
	"image"
	"slices"
	"sync"
	"time"
)

// FrameID identifies a pending frame request.
type FrameID uint64

// Layer is a drawable surface composited by the host.
type Layer interface {
	Image() *image.RGBA
}

// Container is a named attachment point for layers. All containers cover
// the full viewport.
type Container struct {
	id     string
	stage  *Stage
	layers []Layer
}

// ID returns the container id.
func (c *Container) ID() string { return c.id }

// Size returns the viewport size the container spans.
func (c *Container) Size() (int, int) { return c.stage.width, c.stage.height }

// Append attaches a layer on top of existing ones.
func (c *Container) Append(l Layer) {
	c.layers = append(c.layers, l)
}

// Remove detaches a layer. It reports whether the layer was attached.
func (c *Container) Remove(l Layer) bool {
	i := slices.Index(c.layers, l)
	if i < 0 {
		return false
	}
	c.layers = slices.Delete(c.layers, i, i+1)
	return true
}

// Layers returns attached layers bottom to top.
func (c *Container) Layers() []Layer { return c.layers }

type frameRequest struct {
	id        FrameID
	fn        func(time.Time)
	cancelled bool
}

type listener[T any] struct {
	id uint64
	fn T
}

// Stage implements the host side of the effect lifecycle.
type Stage struct {
	width, height int

	containers []*Container

	nextFrame FrameID
	pending   []*frameRequest
	inFlight  []*frameRequest

	nextListener uint64
	moves        []listener[func(x, y float64)]
	leaves       []listener[func()]
	resizes      []listener[func(w, h int)]

	mu     sync.Mutex
	posted []func()

	ticks uint64
}

// New creates a stage with the given viewport size.
func New(width, height int) *Stage {
	return &Stage{width: width, height: height}
}

// Viewport returns the current viewport size.
func (s *Stage) Viewport() (int, int) { return s.width, s.height }

// AddContainer registers a container. Re-adding an id returns the existing one.
func (s *Stage) AddContainer(id string) *Container {
	if c, ok := s.Container(id); ok {
		return c
	}
	c := &Container{id: id, stage: s}
	s.containers = append(s.containers, c)
	return c
}

// Container looks up a container by id.
func (s *Stage) Container(id string) (*Container, bool) {
	for _, c := range s.containers {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// Layers returns every attached layer in container registration order.
func (s *Stage) Layers() []Layer {
	var out []Layer
	for _, c := range s.containers {
		out = append(out, c.layers...)
	}
	return out
}

// RequestFrame schedules fn to run on the next Tick.
func (s *Stage) RequestFrame(fn func(time.Time)) FrameID {
	s.nextFrame++
	s.pending = append(s.pending, &frameRequest{id: s.nextFrame, fn: fn})
	return s.nextFrame
}

// CancelFrame drops a request, including one due later in the Tick that is
// currently running. Unknown ids are ignored.
func (s *Stage) CancelFrame(id FrameID) {
	match := func(r *frameRequest) bool { return r.id == id }
	s.pending = slices.DeleteFunc(s.pending, match)
	if i := slices.IndexFunc(s.inFlight, match); i >= 0 {
		s.inFlight[i].cancelled = true
	}
}

// PendingFrames returns the number of scheduled frame callbacks.
func (s *Stage) PendingFrames() int { return len(s.pending) }

// Post queues fn to run on the stage goroutine at the start of the next
// Tick. Safe to call from any goroutine.
func (s *Stage) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Tick runs one display refresh: posted tasks first, then every frame
// callback requested before this Tick began. Callbacks requested during the
// Tick run on the next one.
func (s *Stage) Tick(now time.Time) {
	s.mu.Lock()
	tasks := s.posted
	s.posted = nil
	s.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}

	s.inFlight, s.pending = s.pending, nil
	for _, r := range s.inFlight {
		if r.cancelled {
			continue
		}
		r.fn(now)
	}
	s.inFlight = nil
	s.ticks++
}

// Ticks returns how many times Tick has run.
func (s *Stage) Ticks() uint64 { return s.ticks }
