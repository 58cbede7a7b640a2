package busx

import (
	"context"
	"sync/atomic"

	"github.com/saylorsolutions/busx/scope"
	"github.com/saylorsolutions/busx/syncx"
)

// Listener receives every event emitted on its bus, along with the event name.
type Listener func(event string, payload any)

// Handler receives the payload of emissions matching the one event name it was registered under.
type Handler func(payload any)

// Bus is a handle for one keyed bus in a [Registry].
// It holds no listener state itself; all reads and writes go through the registry entry for its key, so handles with equal keys are interchangeable.
//
// A Bus may be bound to a [scope.Scope] with [Bus.WithScope] or [Bus.WithContext], in which case subscriptions made through it are unsubscribed automatically when the scope ends.
type Bus struct {
	reg      *Registry
	key      any
	busScope *scope.Scope
}

// Key returns the key this handle addresses.
func (b *Bus) Key() any {
	return b.key
}

// Registry returns the [Registry] this handle operates on.
func (b *Bus) Registry() *Registry {
	return b.reg
}

// WithScope returns a handle on the same bus whose subscriptions are unsubscribed when s ends.
// A nil scope returns the receiver unchanged.
func (b *Bus) WithScope(s *scope.Scope) *Bus {
	if s == nil {
		return b
	}
	return &Bus{reg: b.reg, key: b.key, busScope: s}
}

// WithContext returns a handle bound to the ambient [scope.Scope] carried by ctx, if any.
// When ctx carries no scope, the receiver is returned unchanged and subscriptions must be unsubscribed manually.
func (b *Bus) WithContext(ctx context.Context) *Bus {
	if s, ok := scope.FromContext(ctx); ok {
		return b.WithScope(s)
	}
	return b
}

// On registers listener to receive every event emitted on this bus.
// Listeners are invoked in registration order, after any handlers scoped to the emitted event name.
func (b *Bus) On(listener Listener) *Subscription {
	sub := &Subscription{
		reg:      b.reg,
		key:      b.key,
		listener: listener,
	}
	return b.register(sub)
}

// OnEvent registers handler for emissions of event on this bus.
// Handlers for one event name are invoked in registration order.
func (b *Bus) OnEvent(event string, handler Handler) *Subscription {
	sub := &Subscription{
		reg:     b.reg,
		key:     b.key,
		event:   event,
		scoped:  true,
		handler: handler,
	}
	return b.register(sub)
}

// Once registers listener like [Bus.On], but the subscription removes itself before the first invocation, so listener fires at most once.
// Unsubscribing before an event is emitted prevents any invocation.
func (b *Bus) Once(listener Listener) *Subscription {
	var claimed atomic.Bool
	sub := &Subscription{
		reg: b.reg,
		key: b.key,
	}
	sub.listener = func(event string, payload any) {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		sub.Unsubscribe()
		listener(event, payload)
	}
	return b.register(sub)
}

// OnceEvent registers handler like [Bus.OnEvent], but the subscription removes itself before the first invocation, so handler fires at most once.
func (b *Bus) OnceEvent(event string, handler Handler) *Subscription {
	var claimed atomic.Bool
	sub := &Subscription{
		reg:    b.reg,
		key:    b.key,
		event:  event,
		scoped: true,
	}
	sub.handler = func(payload any) {
		if !claimed.CompareAndSwap(false, true) {
			return
		}
		sub.Unsubscribe()
		handler(payload)
	}
	return b.register(sub)
}

func (b *Bus) register(sub *Subscription) *Subscription {
	b.reg.add(sub)
	if b.busScope != nil {
		b.busScope.Defer(sub.Unsubscribe)
	}
	return sub
}

// Off removes the given subscription, equivalent to [Subscription.Unsubscribe].
// Passing nil or an already-removed subscription is a no-op.
func (b *Bus) Off(sub *Subscription) {
	sub.Unsubscribe()
}

// Emit synchronously dispatches event with an optional payload on this bus.
// Handlers registered for event are invoked first in registration order, then every global listener in registration order.
// If more than one payload value is given, only the first is dispatched.
//
// Both sequences are snapshotted before dispatch begins: subscribing or unsubscribing from inside a listener affects later emits, never the one in flight.
// A panic in a listener propagates to the caller of Emit, and the remaining listeners of that emit are not invoked.
//
// The empty event name is an ordinary name: Emit("") reaches handlers registered with OnEvent("", ...) and global listeners, not every named handler.
func (b *Bus) Emit(event string, payload ...any) {
	var p any
	if len(payload) > 0 {
		p = payload[0]
	}
	handlers, globals := b.reg.snapshot(b.key, event)
	for _, sub := range handlers {
		sub.handler(p)
	}
	for _, sub := range globals {
		sub.listener(event, p)
	}
}

// Reset removes every listener and handler on this bus and drops its registry entry.
// Resetting a bus with no subscriptions is a no-op.
// Subscription tokens from before the reset become inert; unsubscribing them is still safe.
func (b *Bus) Reset() {
	b.reg.reset(b.key)
}

// ListenerCount reports the number of live subscriptions on this bus, counting global listeners and handlers for every event name.
func (b *Bus) ListenerCount() int {
	return syncx.RLockFuncT(&b.reg.mux, func() int {
		entry, ok := b.reg.entries[b.key]
		if !ok {
			return 0
		}
		count := len(entry.globals)
		for _, seq := range entry.named {
			count += len(seq)
		}
		return count
	})
}
