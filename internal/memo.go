package internal

// MemoSlot caches a computed value keyed by a dependency list.
type MemoSlot struct {
	deps   []any
	value  any
	primed bool
}

// Memo returns the cached value, recomputing it on the first render and
// whenever deps differ from the previous render's.
func (s *Scope) Memo(compute func() any, deps []any) any {
	slot := s.slot(func() any {
		return new(MemoSlot)
	}).(*MemoSlot)

	if !slot.primed || !depsEqual(slot.deps, deps) {
		slot.primed = true
		slot.deps = deps
		slot.value = compute()
	}

	return slot.value
}
