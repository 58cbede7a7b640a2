package busx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_SharedIdentity(t *testing.T) {
	reg := NewRegistry()
	a := reg.Bus("news")
	b := reg.Bus("news")

	var received []string
	a.OnEvent("breaking", func(payload any) {
		received = append(received, payload.(string))
	})
	b.Emit("breaking", "story")

	assert.Equal(t, []string{"story"}, received, "Handle B should reach Handle A's subscription")
	assert.Equal(t, 1, a.ListenerCount())
	assert.Equal(t, 1, b.ListenerCount())
}

func TestRegistry_KeyIsolation(t *testing.T) {
	reg := NewRegistry()
	var calls int
	reg.Bus("one").On(func(event string, payload any) {
		calls++
	})
	reg.Bus(2).Emit("anything")
	assert.Zero(t, calls, "Buses with unequal keys should not observe each other")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_EagerCleanup(t *testing.T) {
	reg := NewRegistry()
	bus := reg.Bus("short-lived")

	global := bus.On(func(event string, payload any) {})
	scoped := bus.OnEvent("tick", func(payload any) {})
	assert.True(t, reg.Has("short-lived"))
	assert.Equal(t, 1, reg.Len())

	scoped.Unsubscribe()
	assert.True(t, reg.Has("short-lived"), "Global listener should keep the entry alive")

	global.Unsubscribe()
	assert.False(t, reg.Has("short-lived"), "Entry should be dropped with its last subscription")
	assert.Zero(t, reg.Len())

	// Emitting now must behave like a never-used key.
	assert.NotPanics(t, func() {
		bus.Emit("tick", "ignored")
	})
	assert.Zero(t, reg.Len())
}

func TestRegistry_CleanupAfterOnceFires(t *testing.T) {
	reg := NewRegistry()
	bus := reg.Bus("one-shot")
	bus.OnceEvent("done", func(payload any) {})

	bus.Emit("done")
	assert.False(t, reg.Has("one-shot"), "Entry should be dropped when the once-subscription removes itself")
}

func TestRegistry_HandleHoldsNoState(t *testing.T) {
	reg := NewRegistry()
	bus := reg.Bus("stateless")
	assert.False(t, reg.Has("stateless"), "Obtaining a handle should not create registry state")
	assert.Equal(t, "stateless", bus.Key())
	assert.Same(t, reg, bus.Registry())
}

func TestDefault_SharedAcrossUse(t *testing.T) {
	key := NewKey[string]("default-test")
	t.Cleanup(func() {
		Use(key).Reset()
	})

	var got string
	Use(key).OnEvent("set", func(payload any) {
		got, _ = payload.(string)
	})
	Default().Bus(key).Emit("set", "value")
	assert.Equal(t, "value", got)
}

func TestRegistry_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := NewRegistry(WithLogger(logger))

	bus := reg.Bus("traced")
	sub := bus.OnEvent("ping", func(payload any) {})
	sub.Unsubscribe()
	bus.Reset()

	out := buf.String()
	assert.Contains(t, out, "subscription added")
	assert.Contains(t, out, "subscription removed")
	assert.NotContains(t, out, "bus reset", "Reset of an empty bus should not be traced")
}

func TestRegistry_ResetTraced(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := NewRegistry(WithLogger(logger))

	bus := reg.Bus("traced")
	bus.On(func(event string, payload any) {})
	bus.Reset()
	assert.Contains(t, buf.String(), "bus reset")
}
