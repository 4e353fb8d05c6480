package authz

import "context"

// Session is the per-request authentication view the guards evaluate
// against. It is attached to the request context by the session middleware
// before the pipeline runs. Principal is nil for unauthenticated requests;
// a missing Session altogether is a wiring fault and yields a 500 from
// every guard.
type Session struct {
	Principal *Principal
	Store     *Store
}

type sessionContextKey struct{}

// ContextWithSession stores the auth session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the auth session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

type principalIDContextKey struct{}

// ContextWithPrincipalID records the authenticated identifier for
// downstream handlers. The role guard attaches it on acceptance.
func ContextWithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, principalIDContextKey{}, id)
}

// PrincipalIDFromContext returns the identifier attached by the role
// guard, if the request passed one.
func PrincipalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalIDContextKey{}).(string)
	return id, ok
}
