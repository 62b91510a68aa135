package cell

import (
	"context"
	"time"
)

// Task is a unit of asynchronous work. Cancellation is cooperative:
// the context is canceled when the consumer loses interest, the task
// decides whether to poll it.
type Task[T any] func(ctx context.Context) (T, error)

// Retry re-runs task up to attempts times, stopping at the first
// success or canceled context and returning the last failure otherwise.
func Retry[T any](task Task[T], attempts int) Task[T] {
	return func(ctx context.Context) (T, error) {
		var zero T
		var err error

		for i := 0; i < attempts; i++ {
			if ctx.Err() != nil {
				return zero, ctx.Err()
			}

			var v T
			if v, err = task(ctx); err == nil {
				return v, nil
			}
		}

		return zero, err
	}
}

// Timeout fails the task when d elapses first. The task keeps running
// with a canceled context; only its outcome is discarded.
func Timeout[T any](task Task[T], d time.Duration) Task[T] {
	return func(ctx context.Context) (T, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		type outcome struct {
			v   T
			err error
		}

		ch := make(chan outcome, 1)
		go func() {
			v, err := task(ctx)
			ch <- outcome{v: v, err: err}
		}()

		select {
		case out := <-ch:
			return out.v, out.err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Delay waits d before running task, failing early if ctx is canceled
// during the wait.
func Delay[T any](task Task[T], d time.Duration) Task[T] {
	return func(ctx context.Context) (T, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}

		return task(ctx)
	}
}

// TraverseSerial runs the task built for each item one at a time,
// failing fast on the first error.
func TraverseSerial[A, B any](items []A, fn func(A) Task[B]) Task[[]B] {
	return func(ctx context.Context) ([]B, error) {
		out := make([]B, 0, len(items))

		for _, item := range items {
			v, err := fn(item)(ctx)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	}
}
