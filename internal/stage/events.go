package stage

import "slices"

// OnPointerMove registers fn for pointer motion in viewport coordinates.
// The returned func unregisters it and is safe to call more than once.
func (s *Stage) OnPointerMove(fn func(x, y float64)) (remove func()) {
	id := s.listenerID()
	s.moves = append(s.moves, listener[func(x, y float64)]{id: id, fn: fn})
	return func() { s.moves = dropListener(s.moves, id) }
}

// OnPointerLeave registers fn for the pointer leaving the viewport.
func (s *Stage) OnPointerLeave(fn func()) (remove func()) {
	id := s.listenerID()
	s.leaves = append(s.leaves, listener[func()]{id: id, fn: fn})
	return func() { s.leaves = dropListener(s.leaves, id) }
}

// OnResize registers fn for viewport size changes.
func (s *Stage) OnResize(fn func(w, h int)) (remove func()) {
	id := s.listenerID()
	s.resizes = append(s.resizes, listener[func(w, h int)]{id: id, fn: fn})
	return func() { s.resizes = dropListener(s.resizes, id) }
}

// ListenerCount returns the number of registered listeners of all kinds.
func (s *Stage) ListenerCount() int {
	return len(s.moves) + len(s.leaves) + len(s.resizes)
}

// DispatchPointerMove delivers a pointer position to move listeners.
func (s *Stage) DispatchPointerMove(x, y float64) {
	for _, l := range slices.Clone(s.moves) {
		l.fn(x, y)
	}
}

// DispatchPointerLeave notifies leave listeners.
func (s *Stage) DispatchPointerLeave() {
	for _, l := range slices.Clone(s.leaves) {
		l.fn()
	}
}

// DispatchResize updates the viewport and notifies resize listeners.
func (s *Stage) DispatchResize(w, h int) {
	s.width, s.height = w, h
	for _, l := range slices.Clone(s.resizes) {
		l.fn(w, h)
	}
}

func (s *Stage) listenerID() uint64 {
	s.nextListener++
	return s.nextListener
}

func dropListener[T any](ls []listener[T], id uint64) []listener[T] {
	return slices.DeleteFunc(ls, func(l listener[T]) bool { return l.id == id })
}
