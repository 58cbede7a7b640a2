package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_EndOrder(t *testing.T) {
	s := New()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.Defer(func() {
			order = append(order, i)
		})
	}
	require.Equal(t, 3, s.Len())

	s.End()
	assert.Equal(t, []int{2, 1, 0}, order, "Cleanups should run in reverse registration order")
	assert.True(t, s.Ended())
	assert.Zero(t, s.Len())
}

func TestScope_EndIdempotent(t *testing.T) {
	s := New()
	var calls int
	s.Defer(func() {
		calls++
	})
	s.End()
	s.End()
	assert.Equal(t, 1, calls)
}

func TestScope_DeferAfterEnd(t *testing.T) {
	s := New()
	s.End()

	var calls int
	s.Defer(func() {
		calls++
	})
	assert.Equal(t, 1, calls, "Defer on an ended scope should run the cleanup immediately")
}

func TestScope_DeferNil(t *testing.T) {
	s := New()
	s.Defer(nil)
	assert.Zero(t, s.Len())
	assert.NotPanics(t, s.End)
}

func TestAttach_RoundTrip(t *testing.T) {
	s := New()
	ctx := Attach(context.Background(), s)
	found, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, s, found)

	_, ok = FromContext(context.Background())
	assert.False(t, ok)
	_, ok = FromContext(nil)
	assert.False(t, ok)
}

func TestAttach_NilInputs(t *testing.T) {
	assert.Panics(t, func() {
		Attach(nil, New())
	})
	assert.Panics(t, func() {
		Attach(context.Background(), nil)
	})
}

func TestRun(t *testing.T) {
	var (
		cleaned bool
		inner   *Scope
	)
	Run(context.Background(), func(ctx context.Context) {
		s, ok := FromContext(ctx)
		require.True(t, ok, "Run should attach an ambient scope")
		inner = s
		s.Defer(func() {
			cleaned = true
		})
		assert.False(t, cleaned, "Cleanup should not run until the scope ends")
	})
	assert.True(t, cleaned)
	assert.True(t, inner.Ended())
}

func TestRun_CleansUpOnPanic(t *testing.T) {
	var cleaned bool
	assert.PanicsWithValue(t, "work failed", func() {
		Run(context.Background(), func(ctx context.Context) {
			s, _ := FromContext(ctx)
			s.Defer(func() {
				cleaned = true
			})
			panic("work failed")
		})
	})
	assert.True(t, cleaned, "Cleanups should run even when the scoped function panics")
}
