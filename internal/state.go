package internal

// StateSlot is a read/write cell bound to one scope. Writes schedule a
// re-render of the owner; writes on an unmounted scope are dropped.
type StateSlot struct {
	scope *Scope
	value any
}

func (s *Scope) State(initial any) *StateSlot {
	return s.slot(func() any {
		return &StateSlot{scope: s, value: initial}
	}).(*StateSlot)
}

func (s *StateSlot) Get() any {
	return s.value
}

// Set applies the write as a loop job so that cell mutations stay on
// the scope's logical thread no matter which goroutine calls it.
func (s *StateSlot) Set(v any) {
	s.scope.runtime.loop.Post(func() {
		if !s.scope.mounted.Load() {
			return
		}

		if isEqual(s.value, v) {
			return
		}

		s.value = v
		s.scope.Invalidate()
	})
}

// RefSlot is a mutable box that survives re-renders without scheduling
// any.
type RefSlot struct {
	value any
}

func (s *Scope) Ref(init func() any) any {
	slot := s.slot(func() any {
		return &RefSlot{value: init()}
	}).(*RefSlot)

	return slot.value
}
