package cell

import (
	"context"
	"sync"
)

// flightBook is the in-flight slot of one invoker. The slot is owned
// by invocation id: only the invocation that took it may clear it, and
// only while it still holds it, so a stale settlement can never clobber
// a newer invocation's tracking.
type flightBook struct {
	mu       sync.Mutex
	seq      int
	inflight int
}

func (b *flightBook) acquire() (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inflight != 0 {
		return 0, false
	}

	b.seq++
	b.inflight = b.seq
	return b.seq, true
}

func (b *flightBook) release(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inflight == id {
		b.inflight = 0
	}
}

// UseInvoker wraps task so that at most one execution is ever in
// flight. Calls while a previous invocation is still running, or after
// the scope unmounted, are no-ops returning Nil immediately. The
// returned function keeps a stable identity until deps change, so it
// is safe to use as a dependency itself.
func UseInvoker[T any](task Task[T], deps ...any) func(context.Context) Result[T] {
	scope := currentScope("UseInvoker")

	book := scope.Ref(func() any { return new(flightBook) }).(*flightBook)

	return as[func(context.Context) Result[T]](scope.Memo(func() any {
		invoke := func(ctx context.Context) Result[T] {
			if !scope.Mounted() {
				return Nil[T]()
			}

			id, ok := book.acquire()
			if !ok {
				return Nil[T]()
			}
			defer book.release(id)

			return Await(ctx, task)
		}

		return invoke
	}, deps))
}

// Defaulter is the slice of a form-submit style event the command layer
// cares about.
type Defaulter interface {
	PreventDefault()
}

// Command binds an invoker to the cell reflecting its latest outcome.
type Command[T any] struct {
	invoke func(context.Context, ...Defaulter) Result[T]
	result Result[T]
	reset  func()
}

// Invoke suppresses the default action of any given events, then runs
// the command's task unless one is already in flight (in which case it
// returns Nil without starting anything). The returned Result carries
// the failure for callers that want to react beyond the rendered state.
func (c Command[T]) Invoke(ctx context.Context, events ...Defaulter) Result[T] {
	return c.invoke(ctx, events...)
}

// Result is the command's current outcome: Nil before the first run,
// Pending while one is in flight, then Ok or Err.
func (c Command[T]) Result() Result[T] {
	return c.result
}

// Reset puts the cell back to its never-run Nil state. It does not
// cancel in-flight work: a late settlement can still overwrite the
// reset state.
func (c Command[T]) Reset() {
	c.reset()
}

type CommandOptions struct {
	// RunOnStart triggers one invocation on mount and again whenever
	// the dependency list changes. Failures surface through the
	// command's Result only.
	RunOnStart bool
}

// UseCommand builds a Command around task. The cell starts at Nil, a
// deliberate choice: "never run yet" reads as a successful no-op, so
// idle, pending and done all stay distinguishable.
func UseCommand[T any](task Task[T], deps ...any) Command[T] {
	return UseCommandWith(task, CommandOptions{}, deps...)
}

func UseCommandWith[T any](task Task[T], opts CommandOptions, deps ...any) Command[T] {
	scope := currentScope("UseCommand")

	slot := scope.State(any(Nil[T]()))
	run := UseInvoker(task, deps...)

	invoke := as[func(context.Context, ...Defaulter) Result[T]](scope.Memo(func() any {
		invoke := func(ctx context.Context, events ...Defaulter) Result[T] {
			for _, ev := range events {
				if ev != nil {
					ev.PreventDefault()
				}
			}

			if !scope.Mounted() {
				return Nil[T]()
			}

			slot.Set(any(Pending[T]()))

			res := run(ctx)
			if res.IsNil() {
				// deduped; the invocation already in flight owns
				// the cell
				return res
			}

			if scope.Mounted() {
				slot.Set(any(res))
			}

			return res
		}

		return invoke
	}, deps))

	reset := as[func()](scope.Memo(func() any {
		return func() {
			if scope.Mounted() {
				slot.Set(any(Nil[T]()))
			}
		}
	}, nil))

	runOnStart := opts.RunOnStart
	scope.Effect(func() func() {
		if runOnStart {
			go invoke(context.Background())
		}

		return nil
	}, deps)

	return Command[T]{
		invoke: invoke,
		result: as[Result[T]](slot.Get()),
		reset:  reset,
	}
}
