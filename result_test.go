package cell

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectPrecondition(t *testing.T, want string, fn func()) {
	t.Helper()

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")

		perr, ok := r.(*PreconditionError)
		require.True(t, ok, "panic value is not a *PreconditionError: %v", r)
		assert.Equal(t, want, perr.Error())
	}()

	fn()
}

func TestResultTags(t *testing.T) {
	t.Run("exactly one predicate holds", func(t *testing.T) {
		ok := Ok(42)
		assert.True(t, ok.IsOk())
		assert.False(t, ok.IsErr())
		assert.False(t, ok.IsPending())

		err := Err[int](errors.New("boom"))
		assert.False(t, err.IsOk())
		assert.True(t, err.IsErr())
		assert.False(t, err.IsPending())

		pending := Pending[int]()
		assert.False(t, pending.IsOk())
		assert.False(t, pending.IsErr())
		assert.True(t, pending.IsPending())
	})

	t.Run("zero value is pending", func(t *testing.T) {
		var r Result[int]
		assert.True(t, r.IsPending())
	})

	t.Run("nil is ok without a value", func(t *testing.T) {
		assert.True(t, Nil[int]().IsOk())
		assert.True(t, Nil[int]().IsNil())

		assert.False(t, Ok(42).IsNil())
		assert.False(t, Err[int](errors.New("boom")).IsNil())
		assert.False(t, Pending[int]().IsNil())
	})

	t.Run("ok zero value is still a value", func(t *testing.T) {
		assert.False(t, Ok(0).IsNil())

		v, present := Ok(0).Ok()
		assert.True(t, present)
		assert.Equal(t, 0, v)
	})
}

func TestResultAccessors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("ok and err", func(t *testing.T) {
		v, present := Ok("hi").Ok()
		assert.True(t, present)
		assert.Equal(t, "hi", v)

		_, present = Err[string](boom).Ok()
		assert.False(t, present)

		_, present = Pending[string]().Ok()
		assert.False(t, present)

		assert.Equal(t, boom, Err[string](boom).Err())
		assert.Nil(t, Ok("hi").Err())
		assert.Nil(t, Pending[string]().Err())
	})

	t.Run("expect", func(t *testing.T) {
		assert.Equal(t, 42, Ok(42).Expect())
		assert.Equal(t, boom, Err[int](boom).ExpectErr())

		expectPrecondition(t, "value is not Ok", func() { Pending[int]().Expect() })
		expectPrecondition(t, "value is not Ok", func() { Err[int](boom).Expect() })
		expectPrecondition(t, "value is not Err", func() { Ok(42).ExpectErr() })
		expectPrecondition(t, "value is not Err", func() { Pending[int]().ExpectErr() })
	})

	t.Run("okOr", func(t *testing.T) {
		assert.Equal(t, 1, Ok(1).OkOr(9))
		assert.Equal(t, 9, Err[int](boom).OkOr(9))
		assert.Equal(t, 9, Pending[int]().OkOr(9))
		assert.Equal(t, 9, Nil[int]().OkOr(9))

		// the non-zero variant also filters empty-ish values
		assert.Equal(t, 9, Ok(0).OkOrNonZero(9))
		assert.Equal(t, "fallback", Ok("").OkOrNonZero("fallback"))
		assert.Equal(t, 1, Ok(1).OkOrNonZero(9))
		assert.Equal(t, 0, Ok(0).OkOr(9))
	})
}

func TestResultTransforms(t *testing.T) {
	boom := errors.New("boom")

	t.Run("map transforms ok only", func(t *testing.T) {
		double := func(v int) int { return v * 2 }

		assert.Equal(t, 4, Map(Ok(2), double).Expect())
		assert.Equal(t, boom, Map(Err[int](boom), double).Err())
		assert.True(t, Map(Pending[int](), double).IsPending())
		assert.True(t, Map(Nil[int](), double).IsNil())
	})

	t.Run("map changes the value type", func(t *testing.T) {
		r := Map(Ok(2), func(v int) string { return fmt.Sprintf("%d!", v) })
		assert.Equal(t, "2!", r.Expect())
	})

	t.Run("mapErr transforms err only", func(t *testing.T) {
		wrap := func(err error) error { return fmt.Errorf("wrapped: %w", err) }

		assert.EqualError(t, Err[int](boom).MapErr(wrap).Err(), "wrapped: boom")
		assert.Equal(t, 2, Ok(2).MapErr(wrap).Expect())
		assert.True(t, Pending[int]().MapErr(wrap).IsPending())
	})

	t.Run("match dispatches on the tag", func(t *testing.T) {
		handlers := Handlers[int, string]{
			Ok:      func(v int) string { return fmt.Sprintf("ok %d", v) },
			Err:     func(err error) string { return "err " + err.Error() },
			Pending: func() string { return "pending" },
			Nil:     func() string { return "nil" },
		}

		assert.Equal(t, "ok 2", Match(Ok(2), handlers))
		assert.Equal(t, "err boom", Match(Err[int](boom), handlers))
		assert.Equal(t, "pending", Match(Pending[int](), handlers))
		assert.Equal(t, "nil", Match(Nil[int](), handlers))
	})

	t.Run("zero-ish ok values prefer the nil handler", func(t *testing.T) {
		handlers := Handlers[int, string]{
			Ok:  func(v int) string { return "ok" },
			Nil: func() string { return "nil" },
		}

		// the loose rule is deliberate: 0 and "" count as empty
		assert.Equal(t, "nil", Match(Ok(0), handlers))
		assert.Equal(t, "ok", Match(Ok(1), handlers))

		assert.Equal(t, "nil", Match(Ok(""), Handlers[string, string]{
			Ok:  func(string) string { return "ok" },
			Nil: func() string { return "nil" },
		}))
	})

	t.Run("zero-ish ok values fall back to ok without a nil handler", func(t *testing.T) {
		handlers := Handlers[int, string]{
			Ok: func(v int) string { return fmt.Sprintf("ok %d", v) },
		}

		assert.Equal(t, "ok 0", Match(Ok(0), handlers))
	})

	t.Run("missing handlers yield the zero value", func(t *testing.T) {
		assert.Equal(t, "", Match(Ok(2), Handlers[int, string]{}))
		assert.Equal(t, 0, Match(Err[string](boom), Handlers[string, int]{}))
	})
}

func TestOf(t *testing.T) {
	boom := errors.New("boom")

	assert.Equal(t, 42, Of(42, nil).Expect())
	assert.Equal(t, boom, Of(0, boom).ExpectErr())
}

func TestAwait(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res := Await(ctx, func(context.Context) (int, error) { return 7, nil })
		assert.Equal(t, 7, res.Expect())
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("boom")
		res := Await(ctx, func(context.Context) (int, error) { return 0, boom })
		assert.Equal(t, boom, res.ExpectErr())
	})

	t.Run("panic is captured, not propagated", func(t *testing.T) {
		res := Await(ctx, func(context.Context) (int, error) { panic("kaboom") })
		assert.EqualError(t, res.ExpectErr(), "panic: kaboom")
	})

	t.Run("never pending", func(t *testing.T) {
		res := Await(ctx, func(context.Context) (int, error) { return 0, nil })
		assert.False(t, res.IsPending())
	})
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "Ok(2)", Ok(2).String())
	assert.Equal(t, "Ok(<nil>)", Nil[int]().String())
	assert.Equal(t, "Err(boom)", Err[int](errors.New("boom")).String())
	assert.Equal(t, "Pending", Pending[int]().String())
}
