package internal

import (
	"reflect"
	"sync/atomic"
)

// Scope is one mounted activation of a render function. Hook slots are
// assigned by call order within the render, so a render must call its
// hooks in a stable order.
type Scope struct {
	runtime *Runtime

	mounted atomic.Bool
	render  func()

	slots  []any
	cursor int

	pendingEffects []pendingEffect

	// cleanup functions to be called when the scope unmounts
	cleanups []func()

	// panic handlers
	catchers []func(any)

	invalidated bool
}

func (r *Runtime) NewScope(render func()) *Scope {
	return &Scope{
		runtime: r,
		render:  render,
	}
}

func (s *Scope) Mounted() bool {
	return s.mounted.Load()
}

// Mount marks the scope live and runs the first render.
func (s *Scope) Mount() {
	s.runtime.loop.Post(func() {
		if s.mounted.Load() {
			return
		}

		s.mounted.Store(true)
		s.run()
	})
}

// Update re-runs the render, the way a host would on new props.
func (s *Scope) Update() {
	s.runtime.loop.Post(func() {
		if s.mounted.Load() {
			s.run()
		}
	})
}

// Unmount flips the mounted flag before any cleanup runs, so callbacks
// of still-running work observe a dead scope and stop writing.
func (s *Scope) Unmount() {
	s.runtime.loop.Post(s.teardown)
}

// Invalidate schedules a re-render. Writes landing before the render
// runs coalesce into a single one.
func (s *Scope) Invalidate() {
	if !s.mounted.Load() || s.invalidated {
		return
	}

	s.invalidated = true
	s.runtime.loop.Post(func() {
		s.invalidated = false
		s.run()
	})
}

// Post hands fn to the loop owning this scope's state.
func (s *Scope) Post(fn func()) {
	s.runtime.loop.Post(fn)
}

// OnCleanup registers fn to be called once when the scope unmounts.
func (s *Scope) OnCleanup(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

// OnError registers a handler for panics escaping a render of this
// scope. Without a handler the panic propagates as usual.
func (s *Scope) OnError(fn func(any)) {
	s.catchers = append(s.catchers, fn)
}

func (s *Scope) run() {
	if !s.mounted.Load() {
		return
	}

	defer s.recover()

	// effects run inside the tracker window too, so subscriptions they
	// open resolve to this scope's loop no matter which goroutine is
	// draining
	s.cursor = 0
	s.runtime.tracker.RunWithScope(s, func() {
		s.render()
		s.flushEffects()
	})
}

func (s *Scope) recover() {
	if r := recover(); r != nil {
		if len(s.catchers) == 0 {
			panic(r)
		}

		for _, catcher := range s.catchers {
			catcher(r)
		}
	}
}

func (s *Scope) teardown() {
	if !s.mounted.Load() {
		return
	}
	s.mounted.Store(false)

	for _, slot := range s.slots {
		if e, ok := slot.(*EffectSlot); ok && e.cleanup != nil {
			cleanup := e.cleanup
			e.cleanup = nil
			cleanup()
		}
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := 0; i < len(cleanups); i++ {
		cleanups[i]()
	}
}

// slot returns the hook slot at the cursor, creating it on the first
// render.
func (s *Scope) slot(make func() any) any {
	if s.cursor == len(s.slots) {
		s.slots = append(s.slots, make())
	}

	slot := s.slots[s.cursor]
	s.cursor++
	return slot
}

// isEqual treats uncomparable values as always distinct rather than
// letting == panic on them.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}

	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}

	return a == b
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !isEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}
