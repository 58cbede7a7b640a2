/*
Package busx provides a keyed, in-process publish/subscribe registry with synchronous dispatch.

# Design Priorities

Here are the design priorities of the implementation:

  - Handles should be cheap and stateless: any two handles created with equal keys must observe the same listener set, so components can rendezvous on a key without sharing object references.
  - The registry should never accumulate garbage: removing the last listener for a key drops its entry immediately, and a bus that was used and fully unsubscribed is indistinguishable from one that was never used.
  - Unsubscription should be deterministic and forgiving: removing a subscription twice, or one that never existed, is a no-op rather than an error.
  - Dispatch should stay simple and synchronous: no goroutines, no buffering, no delivery guarantees beyond "called in registration order on the emitting goroutine".

# Registries, Keys, and Handles

A [Registry] maps bus keys to listener state. Most applications can use the process-wide [Default] registry through [Use], while tests and larger compositions should construct their own with [NewRegistry] for isolation.
A key may be any comparable value. Keys are compared with ==, so "news" and "news" name the same bus, while distinct [Key] pointers never collide even when created with the same name.

[Registry.Bus] returns a [Bus] handle. The handle holds no listener state; it's a facade over the registry entry for its key, created lazily on first subscription and removed eagerly when the last subscription goes away.

# Subscriptions

[Bus.On] registers a [Listener] that receives every event on the bus, and [Bus.OnEvent] registers a [Handler] for one event name.
Both return a [Subscription] token used for removal, since Go function values can't be compared. [Bus.Once] and [Bus.OnceEvent] are self-removing variants that fire at most once.
[Subscription.Unsubscribe] (or the equivalent [Bus.Off]) is idempotent, and [Bus.Reset] drops every subscription on a bus at once.

# Emission

[Bus.Emit] dispatches synchronously: handlers registered for the emitted event name run first in registration order, then global listeners in registration order.
The sequences are snapshotted before dispatch, so re-entrant subscription changes only affect later emits.
The bus does not recover panics; a panicking listener propagates to the emitter and skips the rest of that emit.

# Scoped Cleanup

The [github.com/saylorsolutions/busx/scope] package ties subscriptions to a unit of work.
Bind a handle with [Bus.WithScope] or [Bus.WithContext], and its subscriptions are unsubscribed automatically when the scope ends, no matter how the work exits.

# Typed Buses

[NewKey] creates a unique key that carries a payload type, and [Typed] wraps the bus it names so listeners receive that type directly instead of asserting from any.
*/
package busx
