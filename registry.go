package busx

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/saylorsolutions/busx/syncx"
)

var (
	defaultRegistry *Registry
	initOnce        sync.Once
)

// Default returns the process-wide [Registry].
// This is useful when an application doesn't compose its own registry and just wants the "same key, same bus" contract globally.
// Tests and larger applications should prefer [NewRegistry] instances for isolation.
func Default() *Registry {
	initOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Use returns a [Bus] handle for key on the [Default] registry.
func Use(key any) *Bus {
	return Default().Bus(key)
}

// ConfigFunc configures a [Registry] created with [NewRegistry].
type ConfigFunc func(r *Registry)

// WithLogger attaches a [slog.Logger] used for debug-level subscription and emission traces.
// A [Registry] without a logger is completely silent.
func WithLogger(logger *slog.Logger) ConfigFunc {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty [Registry].
func NewRegistry(conf ...ConfigFunc) *Registry {
	r := &Registry{
		entries: map[any]*busEntry{},
	}
	for _, fn := range conf {
		fn(r)
	}
	return r
}

// Registry owns the mapping from bus key to listener state.
// All [Bus] handles are thin facades over a Registry: a handle holds no listener state of its own, so any two handles created with equal keys observe the same subscriptions.
//
// A Registry only holds entries for keys with at least one live subscription.
// When the last subscription for a key is removed, the entry is dropped immediately, so [Registry.Len] reflects exactly the set of buses with listeners.
type Registry struct {
	mux     sync.RWMutex
	entries map[any]*busEntry
	logger  *slog.Logger
}

// busEntry is the per-key listener state: global listeners in registration order, plus per-event handler sequences.
// Order is only meaningful within a single sequence.
type busEntry struct {
	globals []*Subscription
	named   map[string][]*Subscription
}

func (e *busEntry) empty() bool {
	return len(e.globals) == 0 && len(e.named) == 0
}

// Bus returns a handle for the bus named by key.
// The key may be any comparable value; keys are compared with ==, and equal keys address the same listener set.
// Obtaining a handle does not create any registry state.
func (r *Registry) Bus(key any) *Bus {
	return &Bus{reg: r, key: key}
}

// Len reports how many bus keys currently have at least one subscription.
func (r *Registry) Len() int {
	return syncx.RLockFuncT(&r.mux, func() int {
		return len(r.entries)
	})
}

// Has reports whether key currently has at least one subscription.
func (r *Registry) Has(key any) bool {
	return syncx.RLockFuncT(&r.mux, func() bool {
		_, ok := r.entries[key]
		return ok
	})
}

func (r *Registry) add(sub *Subscription) {
	syncx.LockFunc(&r.mux, func() {
		entry, ok := r.entries[sub.key]
		if !ok {
			entry = &busEntry{}
			r.entries[sub.key] = entry
		}
		if sub.scoped {
			if entry.named == nil {
				entry.named = map[string][]*Subscription{}
			}
			entry.named[sub.event] = append(entry.named[sub.event], sub)
			return
		}
		entry.globals = append(entry.globals, sub)
	})
	r.trace("subscription added", sub)
}

// remove drops sub from its sequence, then eagerly drops any sequence or entry left empty.
// Unknown subscriptions are a no-op, which is what makes unsubscription idempotent.
func (r *Registry) remove(sub *Subscription) {
	removed := syncx.LockFuncT(&r.mux, func() bool {
		entry, ok := r.entries[sub.key]
		if !ok {
			return false
		}
		if sub.scoped {
			seq := entry.named[sub.event]
			idx := slices.Index(seq, sub)
			if idx < 0 {
				return false
			}
			seq = slices.Delete(seq, idx, idx+1)
			if len(seq) == 0 {
				delete(entry.named, sub.event)
			} else {
				entry.named[sub.event] = seq
			}
		} else {
			idx := slices.Index(entry.globals, sub)
			if idx < 0 {
				return false
			}
			entry.globals = slices.Delete(entry.globals, idx, idx+1)
		}
		if entry.empty() {
			delete(r.entries, sub.key)
		}
		return true
	})
	if removed {
		r.trace("subscription removed", sub)
	}
}

// snapshot copies the handler sequence for event and the global listener sequence under read lock.
// Emission iterates the copies, so listeners added or removed mid-emit only affect later emits.
func (r *Registry) snapshot(key any, event string) (handlers, globals []*Subscription) {
	syncx.RLockFunc(&r.mux, func() {
		entry, ok := r.entries[key]
		if !ok {
			return
		}
		handlers = slices.Clone(entry.named[event])
		globals = slices.Clone(entry.globals)
	})
	return handlers, globals
}

func (r *Registry) reset(key any) {
	existed := syncx.LockFuncT(&r.mux, func() bool {
		_, ok := r.entries[key]
		delete(r.entries, key)
		return ok
	})
	if existed && r.logger != nil {
		r.logger.Debug("bus reset", "key", key)
	}
}

func (r *Registry) trace(msg string, sub *Subscription) {
	if r.logger == nil {
		return
	}
	if sub.scoped {
		r.logger.Debug(msg, "key", sub.key, "event", sub.event)
		return
	}
	r.logger.Debug(msg, "key", sub.key, "global", true)
}
