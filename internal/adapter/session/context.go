package session

import "context"

// stateKey is an unexported context key type for session state.
type stateKey struct{}

// ContextWithState attaches the session state to the context.
func ContextWithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, stateKey{}, st)
}

// StateFromContext returns the session state resolved by the middleware. When
// no middleware ran it returns a throwaway state so handlers stay nil-safe;
// mutations on it are simply not persisted.
func StateFromContext(ctx context.Context) *State {
	if st, ok := ctx.Value(stateKey{}).(*State); ok && st != nil {
		return st
	}
	return &State{}
}
