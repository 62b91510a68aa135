package cell

import (
	"context"
	"errors"

	"github.com/zalenik/cell/internal"
)

// ErrNoValue is the failure recorded when a source completes without
// ever emitting.
var ErrNoValue = errors.New("stream completed with no value")

// Observer receives pushes from a Source. Any callback may be nil.
type Observer[T any] struct {
	Next     func(T)
	Err      func(error)
	Complete func()
}

func (o Observer[T]) next(v T) {
	if o.Next != nil {
		o.Next(v)
	}
}

func (o Observer[T]) fail(err error) {
	if o.Err != nil {
		o.Err(err)
	}
}

func (o Observer[T]) complete() {
	if o.Complete != nil {
		o.Complete()
	}
}

// Subscription releases the resources of an active subscription.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain teardown function.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}

// Source pushes a sequence of items to an Observer.
type Source[T any] interface {
	Subscribe(Observer[T]) Subscription
}

// SourceFunc adapts a subscribe function.
type SourceFunc[T any] func(Observer[T]) Subscription

func (f SourceFunc[T]) Subscribe(o Observer[T]) Subscription {
	return f(o)
}

// FromTask adapts a Task into a single-item Source. The task runs on
// its own goroutine; a successful run emits the value and completes, a
// failed or panicking run emits the failure. Unsubscribing cancels the
// task's context, which is advisory: the task decides whether to poll
// it, and a task that ignores it still runs to completion with its
// outcome discarded.
func FromTask[T any](task Task[T]) Source[T] {
	return SourceFunc[T](func(o Observer[T]) Subscription {
		loop := internal.CurrentLoop()
		ctx, cancel := context.WithCancel(context.Background())

		// done doubles as the cancellation mark: whichever of
		// settlement and unsubscription lands first flips it, the
		// loser is ignored. Only loop jobs touch it.
		done := false

		settle := func(fn func()) {
			loop.Post(func() {
				if done {
					return
				}

				done = true
				cancel()
				fn()
			})
		}

		go func() {
			defer func() {
				if p := recover(); p != nil {
					settle(func() { o.fail(recoveredError(p)) })
				}
			}()

			v, err := task(ctx)
			if err != nil {
				settle(func() { o.fail(err) })
				return
			}

			settle(func() {
				o.next(v)
				o.complete()
			})
		}()

		return SubscriptionFunc(func() {
			loop.Post(func() {
				if done {
					return
				}

				done = true
				cancel()
			})
		})
	})
}

// Subject is a Source driven by hand. It multicasts every event to the
// active subscribers and keeps no terminal-state bookkeeping of its
// own; callers are expected to uphold the stream contract themselves.
type Subject[T any] struct {
	subs []*subjectSub[T]
}

type subjectSub[T any] struct {
	observer Observer[T]
	closed   bool
}

func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(o Observer[T]) Subscription {
	sub := &subjectSub[T]{observer: o}
	s.subs = append(s.subs, sub)

	return SubscriptionFunc(func() {
		sub.closed = true
	})
}

func (s *Subject[T]) Next(v T) {
	for _, sub := range s.subs {
		if !sub.closed {
			sub.observer.next(v)
		}
	}
}

func (s *Subject[T]) Err(err error) {
	for _, sub := range s.subs {
		if !sub.closed {
			sub.observer.fail(err)
		}
	}
}

func (s *Subject[T]) Complete() {
	for _, sub := range s.subs {
		if !sub.closed {
			sub.observer.complete()
		}
	}
}

// Active reports whether the subject still has an open subscriber.
func (s *Subject[T]) Active() bool {
	for _, sub := range s.subs {
		if !sub.closed {
			return true
		}
	}

	return false
}
