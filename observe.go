package cell

// bridgeBook is the per-activation bookkeeping of UseObservable. Each
// (re)subscription takes a fresh epoch; a callback only writes to the
// cell while its captured epoch is still the current one.
type bridgeBook struct {
	epoch    int
	gotValue bool
	terminal bool
}

// UseObservable subscribes to the source built by factory and reflects
// its emissions in the returned Result. The factory runs once on mount
// and again, after the previous subscription is torn down, whenever
// deps change. Each emitted item overwrites the cell with Ok(item); a
// stream failure settles it as Err. A source that completes without
// emitting settles as Err(ErrNoValue), checked one queue turn after the
// completion so that a same-turn item wins the race. Events from a
// superseded or unmounted subscription never reach the cell.
func UseObservable[T any](factory func() Source[T], deps ...any) Result[T] {
	scope := currentScope("UseObservable")

	slot := scope.State(any(Pending[T]()))
	book := scope.Ref(func() any { return new(bridgeBook) }).(*bridgeBook)

	scope.Effect(func() func() {
		book.epoch++
		epoch := book.epoch
		book.gotValue = false
		book.terminal = false

		slot.Set(any(Pending[T]()))

		live := func() bool {
			return book.epoch == epoch && scope.Mounted()
		}

		observer := Observer[T]{
			Next: func(v T) {
				scope.Post(func() {
					if !live() || book.terminal {
						return
					}

					book.gotValue = true
					slot.Set(any(Ok(v)))
				})
			},
			Err: func(err error) {
				scope.Post(func() {
					if !live() || book.terminal {
						return
					}

					book.terminal = true
					slot.Set(any(Err[T](err)))
				})
			},
			Complete: func() {
				scope.Post(func() {
					if !live() || book.terminal {
						return
					}

					book.terminal = true
					if book.gotValue {
						return
					}

					// completion with nothing emitted is an error,
					// but only one queue turn later: an item landing
					// in the same turn must be observed first
					scope.Post(func() {
						if !live() || book.gotValue {
							return
						}

						if !as[Result[T]](slot.Get()).IsPending() {
							return
						}

						slot.Set(any(Err[T](ErrNoValue)))
					})
				})
			},
		}

		var sub Subscription

		func() {
			defer func() {
				if p := recover(); p != nil {
					book.terminal = true
					slot.Set(any(Err[T](recoveredError(p))))
				}
			}()

			sub = factory().Subscribe(observer)
		}()

		return func() {
			// kill the epoch before releasing the subscription so
			// late callbacks find themselves superseded
			book.epoch++

			if sub != nil {
				sub.Unsubscribe()
			}
		}
	}, deps)

	return as[Result[T]](slot.Get())
}

// UsePromise runs task once per activation and again on each dependency
// change, reflecting its outcome in the returned Result. Cancellation
// follows FromTask: tearing down cancels the task's context without
// forcing the work to stop.
func UsePromise[T any](task Task[T], deps ...any) Result[T] {
	return UseObservable(func() Source[T] {
		return FromTask(task)
	}, deps...)
}
