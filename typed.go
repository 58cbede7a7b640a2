package busx

import (
	"fmt"
	"sync/atomic"
)

var keyCounter atomic.Uint64

// Key is a unique symbolic bus key that binds a payload type to the bus it names.
// Every call to [NewKey] produces a distinct key: two Key values never address the same bus, even when created with the same name.
// The name is only used for diagnostics.
//
// Use a Key with [Typed] to get a payload-typed view of a bus.
type Key[T any] struct {
	name string
	id   uint64
}

// NewKey creates a unique [Key] carrying payload type T.
// An optional name may be given for log output and debugging.
func NewKey[T any](name ...string) *Key[T] {
	k := &Key[T]{id: keyCounter.Add(1)}
	if len(name) > 0 {
		k.name = name[0]
	}
	return k
}

func (k *Key[T]) String() string {
	if len(k.name) > 0 {
		return fmt.Sprintf("busx.Key(%s)", k.name)
	}
	return fmt.Sprintf("busx.Key(#%d)", k.id)
}

// Typed returns a payload-typed view of the bus named by key in reg.
// All handles created from equal registry and key values share the same listener set, typed or not.
func Typed[T any](reg *Registry, key *Key[T]) *TypedBus[T] {
	return &TypedBus[T]{bus: reg.Bus(key)}
}

// TypedBus wraps a [Bus] so that listeners receive payloads as T instead of any.
// Payloads that are absent or not of type T arrive as the zero value of T.
type TypedBus[T any] struct {
	bus *Bus
}

// Untyped returns the underlying [Bus] handle.
func (t *TypedBus[T]) Untyped() *Bus {
	return t.bus
}

// On registers listener for every event on this bus, like [Bus.On].
func (t *TypedBus[T]) On(listener func(event string, payload T)) *Subscription {
	return t.bus.On(func(event string, payload any) {
		listener(event, assertPayload[T](payload))
	})
}

// OnEvent registers handler for emissions of event, like [Bus.OnEvent].
func (t *TypedBus[T]) OnEvent(event string, handler func(payload T)) *Subscription {
	return t.bus.OnEvent(event, func(payload any) {
		handler(assertPayload[T](payload))
	})
}

// Once registers listener to fire at most once, like [Bus.Once].
func (t *TypedBus[T]) Once(listener func(event string, payload T)) *Subscription {
	return t.bus.Once(func(event string, payload any) {
		listener(event, assertPayload[T](payload))
	})
}

// OnceEvent registers handler to fire at most once for event, like [Bus.OnceEvent].
func (t *TypedBus[T]) OnceEvent(event string, handler func(payload T)) *Subscription {
	return t.bus.OnceEvent(event, func(payload any) {
		handler(assertPayload[T](payload))
	})
}

// Off removes the given subscription, equivalent to [Subscription.Unsubscribe].
func (t *TypedBus[T]) Off(sub *Subscription) {
	sub.Unsubscribe()
}

// Emit dispatches event with payload, like [Bus.Emit].
func (t *TypedBus[T]) Emit(event string, payload T) {
	t.bus.Emit(event, payload)
}

// Reset removes every listener and handler on this bus, like [Bus.Reset].
func (t *TypedBus[T]) Reset() {
	t.bus.Reset()
}

func assertPayload[T any](payload any) T {
	val, _ := payload.(T)
	return val
}
