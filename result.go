package cell

import (
	"context"
	"fmt"
	"reflect"
)

type resultTag int

const (
	tagPending resultTag = iota
	tagOk
	tagErr
)

// Result is the outcome of an asynchronous operation: pending, ok, or
// err. Exactly one tag holds at a time and the zero value is Pending.
// Results are immutable, transforms produce new values.
type Result[T any] struct {
	tag     resultTag
	value   T
	present bool
	err     error
}

// Pending is the outcome of an operation that has not settled yet.
func Pending[T any]() Result[T] {
	return Result[T]{tag: tagPending}
}

// Ok wraps a successful outcome.
func Ok[T any](v T) Result[T] {
	return Result[T]{tag: tagOk, value: v, present: true}
}

// Nil is ok-with-no-value: the outcome of an operation that succeeded
// without producing anything. It is a distinct state from Pending.
func Nil[T any]() Result[T] {
	return Result[T]{tag: tagOk}
}

// Err wraps a failed outcome.
func Err[T any](err error) Result[T] {
	return Result[T]{tag: tagErr, err: err}
}

// Of lifts a conventional (value, error) pair.
func Of[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}

	return Ok(v)
}

// Await runs task to completion and captures its outcome. A failing or
// panicking task settles as Err; Await itself never panics and never
// returns Pending.
func Await[T any](ctx context.Context, task Task[T]) (res Result[T]) {
	defer func() {
		if p := recover(); p != nil {
			res = Err[T](recoveredError(p))
		}
	}()

	v, err := task(ctx)
	if err != nil {
		return Err[T](err)
	}

	return Ok(v)
}

func (r Result[T]) IsPending() bool {
	return r.tag == tagPending
}

func (r Result[T]) IsOk() bool {
	return r.tag == tagOk
}

func (r Result[T]) IsErr() bool {
	return r.tag == tagErr
}

// IsNil reports an ok result that carries no value. Pending and err
// results are not nil, they are different states entirely.
func (r Result[T]) IsNil() bool {
	return r.tag == tagOk && !r.present
}

// Ok returns the contained value when the result is ok with a value.
func (r Result[T]) Ok() (T, bool) {
	if r.tag == tagOk && r.present {
		return r.value, true
	}

	var zero T
	return zero, false
}

// Err returns the failure when the result is err, nil otherwise.
func (r Result[T]) Err() error {
	if r.tag == tagErr {
		return r.err
	}

	return nil
}

// OkOr returns the contained value, or fallback for pending, err and
// nil results.
func (r Result[T]) OkOr(fallback T) T {
	if r.tag == tagOk && r.present {
		return r.value
	}

	return fallback
}

// OkOrNonZero additionally treats a zero contained value ("", 0, nil)
// as missing.
func (r Result[T]) OkOrNonZero(fallback T) T {
	if r.tag == tagOk && r.present && !isZero(r.value) {
		return r.value
	}

	return fallback
}

// PreconditionError reports misuse of an accessor that requires a
// specific tag. It is a programmer error, not a runtime condition, so
// it is delivered as a panic.
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string {
	return e.msg
}

// Expect returns the contained value and panics with a
// *PreconditionError for the other two tags.
func (r Result[T]) Expect() T {
	if r.tag != tagOk {
		panic(&PreconditionError{msg: "value is not Ok"})
	}

	return r.value
}

// ExpectErr returns the failure and panics with a *PreconditionError
// unless the result is err.
func (r Result[T]) ExpectErr() error {
	if r.tag != tagErr {
		panic(&PreconditionError{msg: "value is not Err"})
	}

	return r.err
}

// Map transforms the contained value, passing pending, err and nil
// results through untouched. A panic in fn propagates to the caller.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	switch r.tag {
	case tagOk:
		if !r.present {
			return Nil[U]()
		}
		return Ok(fn(r.value))
	case tagErr:
		return Err[U](r.err)
	default:
		return Pending[U]()
	}
}

// MapErr transforms the failure, other tags pass through.
func (r Result[T]) MapErr(fn func(error) error) Result[T] {
	if r.tag != tagErr {
		return r
	}

	return Err[T](fn(r.err))
}

// Handlers unboxes a Result branch by branch. An ok result whose value
// is the zero of its type prefers the Nil handler when one is supplied.
// Omitted handlers yield the zero U for their branch.
type Handlers[T, U any] struct {
	Ok      func(T) U
	Err     func(error) U
	Pending func() U
	Nil     func() U
}

// Match dispatches r to the handler matching its tag.
func Match[T, U any](r Result[T], h Handlers[T, U]) U {
	var zero U

	switch r.tag {
	case tagOk:
		if h.Nil != nil && (!r.present || isZero(r.value)) {
			return h.Nil()
		}
		if h.Ok != nil {
			return h.Ok(r.value)
		}
	case tagErr:
		if h.Err != nil {
			return h.Err(r.err)
		}
	default:
		if h.Pending != nil {
			return h.Pending()
		}
	}

	return zero
}

func (r Result[T]) String() string {
	switch r.tag {
	case tagOk:
		if !r.present {
			return "Ok(<nil>)"
		}
		return fmt.Sprintf("Ok(%v)", r.value)
	case tagErr:
		return fmt.Sprintf("Err(%v)", r.err)
	default:
		return "Pending"
	}
}

// isZero is the loose "no usable value" test shared by OkOrNonZero and
// Match: the zero value of the payload type counts as empty, so 0, ""
// and nil all qualify.
func isZero(v any) bool {
	if v == nil {
		return true
	}

	return reflect.ValueOf(v).IsZero()
}

func recoveredError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}

	return fmt.Errorf("panic: %v", p)
}
