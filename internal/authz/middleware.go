package authz

import (
	"log/slog"
	"net/http"
)

// Middleware builds pipeline stages that wrap HTTP handlers behind guards.
type Middleware struct {
	Logger *slog.Logger
}

// Require wraps handlers behind the given guards, evaluated in order.
// Each in-flight request drives its own evaluation: the guard decision is
// awaited first, a rejection is written immediately without reaching the
// inner handler, and an accepted request is handed to the inner handler
// with its mutations applied. A cancelled request produces no bytes.
func (m Middleware) Require(guards ...Guard) func(http.Handler) http.Handler {
	guard := Chain(guards...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			out := guard.Evaluate(r)
			if r.Context().Err() != nil {
				return
			}
			if out.Rejection != nil {
				if out.Rejection.Status == http.StatusInternalServerError && m.Logger != nil {
					m.Logger.Error("auth session missing from request", slog.String("path", r.URL.Path))
				}
				out.Rejection.Write(w)
				return
			}
			next.ServeHTTP(w, out.Request)
		})
	}
}
