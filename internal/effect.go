package internal

// EffectSlot tracks one dep-keyed effect across renders.
type EffectSlot struct {
	deps    []any
	cleanup func()
	primed  bool
}

type pendingEffect struct {
	slot *EffectSlot
	fn   func() func()
}

// Effect schedules fn to run after the current render when deps differ
// from the previous render's. The returned cleanup runs before the next
// execution and on unmount; fn may return nil.
func (s *Scope) Effect(fn func() func(), deps []any) {
	slot := s.slot(func() any {
		return new(EffectSlot)
	}).(*EffectSlot)

	if slot.primed && depsEqual(slot.deps, deps) {
		return
	}

	slot.primed = true
	slot.deps = deps

	s.pendingEffects = append(s.pendingEffects, pendingEffect{slot: slot, fn: fn})
}

// flushEffects runs after the render body, still within the same loop
// job, so effects observe the committed slot state.
func (s *Scope) flushEffects() {
	pending := s.pendingEffects
	s.pendingEffects = nil

	for _, p := range pending {
		if !s.mounted.Load() {
			return
		}

		if p.slot.cleanup != nil {
			cleanup := p.slot.cleanup
			p.slot.cleanup = nil
			cleanup()
		}

		p.slot.cleanup = p.fn()
	}
}
