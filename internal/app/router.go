package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gatehouse-app/gatehouse/internal/auth"
	"github.com/gatehouse-app/gatehouse/internal/authz"
	"github.com/gatehouse-app/gatehouse/internal/observability"
	"github.com/gatehouse-app/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-app/gatehouse/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Store          *authz.Store
	AuthHandler    *auth.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Gatehouse defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Store:          params.Store,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	loginURI := "/login"
	if params.Config != nil && params.Config.LoginURI != "" {
		loginURI = params.Config.LoginURI
	}
	guards := authz.Middleware{Logger: params.Logger}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!doctype html><html><body><h1>Gatehouse</h1><p><a href="` + loginURI + `">Sign in</a></p></body></html>`))
	})

	params.AuthHandler.MountRoutes(r)

	requireLogin := authz.RequireLogin{LoginURI: loginURI}

	r.With(guards.Require(requireLogin)).
		Get("/protected", func(w http.ResponseWriter, r *http.Request) {
			sess := authz.SessionFromContext(r.Context())
			name := ""
			if sess != nil && sess.Principal != nil {
				name = sess.Principal.ID
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<!doctype html><html><body><h1>Protected</h1><p>Signed in as ` + name + `</p><form method="post" action="/logout"><input type="hidden" name="csrf_token" value="` + csrfTokenFor(params.CSRFManager, r) + `"><button type="submit">Logout</button></form></body></html>`))
		})

	r.With(guards.Require(requireLogin, authz.RequireRole{Level: authz.LevelUser})).
		Get("/api/data", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, map[string]string{
				"data": "Failure is not an Option[T], it's (T, error). You're a member!",
			})
		})

	r.With(guards.Require(requireLogin, authz.RequireRole{Level: authz.LevelAdmin})).
		Get("/api/secret", func(w http.ResponseWriter, r *http.Request) {
			id, ok := authz.PrincipalIDFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]string{
				"secret": "You're an admin!",
				"user":   id,
			})
		})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

func csrfTokenFor(csrf *shared.CSRFManager, r *http.Request) string {
	if csrf == nil {
		return ""
	}
	token, _ := csrf.Token(shared.SessionFromContext(r.Context()))
	return token
}
