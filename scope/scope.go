package scope

import (
	"sync"

	"github.com/saylorsolutions/busx/syncx"
)

// Scope collects cleanup callbacks for a unit of work and runs them exactly once when the scope ends.
// It's the explicit stand-in for framework-managed component lifecycles: whatever creates the scope owns calling [Scope.End] on every exit path.
// [Run] packages that obligation up for the common case.
//
// A Scope is safe for concurrent use.
type Scope struct {
	mux      sync.Mutex
	ended    bool
	cleanups []func()
}

// New creates an empty, live [Scope].
func New() *Scope {
	return &Scope{}
}

// Defer registers fn to run when the scope ends.
// Cleanups run in reverse registration order, mirroring the stacking behavior of the defer statement.
// If the scope has already ended, fn runs immediately rather than leaking whatever it would have released.
// A nil fn is ignored.
func (s *Scope) Defer(fn func()) {
	if fn == nil {
		return
	}
	endedAlready := syncx.LockFuncT(&s.mux, func() bool {
		if s.ended {
			return true
		}
		s.cleanups = append(s.cleanups, fn)
		return false
	})
	if endedAlready {
		fn()
	}
}

// End runs all registered cleanups in reverse registration order.
// Only the first call runs anything; later calls are no-ops.
func (s *Scope) End() {
	cleanups := syncx.LockFuncT(&s.mux, func() []func() {
		if s.ended {
			return nil
		}
		s.ended = true
		cleanups := s.cleanups
		s.cleanups = nil
		return cleanups
	})
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Ended reports whether [Scope.End] has been called.
func (s *Scope) Ended() bool {
	return syncx.LockFuncT(&s.mux, func() bool {
		return s.ended
	})
}

// Len reports the number of cleanups waiting for the scope to end.
func (s *Scope) Len() int {
	return syncx.LockFuncT(&s.mux, func() int {
		return len(s.cleanups)
	})
}
