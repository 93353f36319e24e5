// Package input translates SDL2 events into pointer, resize and key events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a translated event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointerMove
	EventPointerLeave
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	X      float64
	Y      float64
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events. It returns true once the user asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := translate(event); ok {
			i.events = append(i.events, ev)
			if ev.Type == EventQuit {
				return true
			}
		}
	}
	return false
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_LEAVE:
			return Event{Type: EventPointerLeave}, true
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventPointerMove, X: float64(e.X), Y: float64(e.Y)}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
