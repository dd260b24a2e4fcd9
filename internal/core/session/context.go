package session

import "context"

type storeKey struct{}

// WithStore returns a context carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// Lookup returns the store carried by ctx, if any.
func Lookup(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}

// FromContext returns the store carried by ctx. Reaching for the session
// outside a provider is a programming error, so it panics.
func FromContext(ctx context.Context) *Store {
	s, ok := Lookup(ctx)
	if !ok {
		panic("session: FromContext called outside a session provider")
	}
	return s
}
