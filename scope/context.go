package scope

import "context"

type scopeKey struct{}

// Attach returns a child context carrying s as the ambient scope.
// Passing a nil context or scope will panic.
func Attach(ctx context.Context, s *Scope) context.Context {
	if ctx == nil {
		panic("nil context")
	}
	if s == nil {
		panic("nil scope")
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext reports the ambient [Scope] carried by ctx, if any.
// Callers that can work without a scope should treat a false result as "skip cleanup registration", not as an error.
func FromContext(ctx context.Context) (*Scope, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok
}

// Run executes fn with a new ambient [Scope] attached to ctx, and ends the scope when fn returns.
// The scope ends on every exit path, including a panicking fn, so cleanups registered inside fn never leak.
func Run(ctx context.Context, fn func(ctx context.Context)) {
	if ctx == nil {
		panic("nil context")
	}
	s := New()
	defer s.End()
	fn(Attach(ctx, s))
}
