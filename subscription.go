package busx

// Subscription is an opaque token for one registered listener or handler.
// It stands in for the function value itself, since Go function values can't be compared for removal.
// Retain the token returned by [Bus.On] and friends to unsubscribe later, or hand it to a [scope.Scope] for automatic cleanup.
type Subscription struct {
	reg    *Registry
	key    any
	event  string
	scoped bool

	listener Listener
	handler  Handler
}

// Unsubscribe removes the subscription from its registry.
// It is idempotent: calling it after the subscription is already gone (including after a [Bus.Reset] or a fired once-subscription) is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.reg.remove(s)
}

// Active reports whether the subscription is still registered.
func (s *Subscription) Active() bool {
	if s == nil {
		return false
	}
	handlers, globals := s.reg.snapshot(s.key, s.event)
	for _, sub := range handlers {
		if sub == s {
			return true
		}
	}
	for _, sub := range globals {
		if sub == s {
			return true
		}
	}
	return false
}
