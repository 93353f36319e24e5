package effect

import (
	"time"

	"github.com/Faultbox/logoswarm/internal/stage"
)

// Scheduler is the host's once-per-refresh callback hook.
type Scheduler interface {
	RequestFrame(fn func(time.Time)) stage.FrameID
	CancelFrame(id stage.FrameID)
}

type driverState int

const (
	driverStopped driverState = iota
	driverRunning
)

// Driver runs a frame function once per display refresh until stopped.
// The next frame is requested only after the current one returns, so frames
// never overlap.
type Driver struct {
	sched   Scheduler
	frame   func(time.Time)
	state   driverState
	pending stage.FrameID
	frames  uint64
}

// NewDriver creates a stopped driver.
func NewDriver(sched Scheduler, frame func(time.Time)) *Driver {
	return &Driver{sched: sched, frame: frame}
}

// Start schedules the first frame. It returns false if already running.
func (d *Driver) Start() bool {
	if d.state == driverRunning {
		return false
	}
	d.state = driverRunning
	d.pending = d.sched.RequestFrame(d.tick)
	return true
}

// Stop cancels the pending frame. It returns false if already stopped.
func (d *Driver) Stop() bool {
	if d.state == driverStopped {
		return false
	}
	d.state = driverStopped
	if d.pending != 0 {
		d.sched.CancelFrame(d.pending)
		d.pending = 0
	}
	return true
}

// Running reports whether frames are being scheduled.
func (d *Driver) Running() bool {
	return d.state == driverRunning
}

// Frames returns how many frames have run.
func (d *Driver) Frames() uint64 {
	return d.frames
}

func (d *Driver) tick(now time.Time) {
	d.pending = 0
	if d.state != driverRunning {
		return
	}
	d.frame(now)
	d.frames++

	// The frame itself may have stopped us
	if d.state == driverRunning {
		d.pending = d.sched.RequestFrame(d.tick)
	}
}
