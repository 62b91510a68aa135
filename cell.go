// Package cell represents the outcome of asynchronous work as an
// explicit tri-state value (pending / ok / err) and binds that value
// to the lifecycle of a mounted scope: subscriptions re-form when
// their dependencies change, tear down on unmount, and commands run
// with at-most-one-concurrent-invocation semantics.
package cell

import "github.com/zalenik/cell/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

// Scope is one mounted activation of a render function. Hooks called
// within the render bind to the scope's slots by call order, so hook
// calls must keep a stable order across renders.
type Scope struct {
	scope *internal.Scope
}

// NewScope creates a scope around render. Nothing runs until Mount.
func NewScope(render func()) *Scope {
	return &Scope{
		internal.GetRuntime().NewScope(render),
	}
}

// Mount runs the first render and arms its effects.
func (s *Scope) Mount() { s.scope.Mount() }

// Update forces a re-render, the way a host runtime would on new
// inputs. Hooks re-read their dependency lists and react to changes.
func (s *Scope) Update() { s.scope.Update() }

// Unmount marks the scope dead and runs every registered cleanup.
// Callbacks of still-running work observe the dead scope and stop
// writing.
func (s *Scope) Unmount() { s.scope.Unmount() }

// Mounted reports whether the scope is still live.
func (s *Scope) Mounted() bool { return s.scope.Mounted() }

// OnError registers a handler for panics escaping a render of this
// scope. Without a handler the panic propagates as usual.
func (s *Scope) OnError(fn func(any)) { s.scope.OnError(fn) }

// UseState returns the slot's current value and a setter. Writing
// schedules a re-render; writes after unmount are dropped.
func UseState[T any](initial T) (T, func(T)) {
	slot := currentScope("UseState").State(initial)

	return as[T](slot.Get()), func(v T) { slot.Set(v) }
}

// Ref is a mutable box that survives re-renders without triggering
// them.
type Ref[T any] struct {
	Current T
}

func UseRef[T any](initial T) *Ref[T] {
	return currentScope("UseRef").Ref(func() any {
		return &Ref[T]{Current: initial}
	}).(*Ref[T])
}

// UseMemo recomputes the value only when deps change.
func UseMemo[T any](compute func() T, deps ...any) T {
	return as[T](currentScope("UseMemo").Memo(func() any {
		return compute()
	}, deps))
}

// UseEffect runs fn after the render whenever deps change. The
// returned cleanup runs before the next execution and on unmount; fn
// may return nil.
func UseEffect(fn func() func(), deps ...any) {
	currentScope("UseEffect").Effect(fn, deps)
}

// OnCleanup registers fn to be called once when the current scope
// unmounts.
func OnCleanup(fn func()) {
	currentScope("OnCleanup").OnCleanup(fn)
}

// Batch holds back delivery of events produced during fn and lets them
// land as a single queue turn once fn returns.
func Batch(fn func()) {
	internal.CurrentLoop().Batch(fn)
}

func currentScope(hook string) *internal.Scope {
	scope := internal.GetRuntime().CurrentScope()
	if scope == nil {
		panic(hook + " called outside a render")
	}

	return scope
}
