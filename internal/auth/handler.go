package auth

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-app/gatehouse/internal/shared"
)

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html>
<head><title>Sign in</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
  <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
  <label>Identifier <input type="text" name="identifier" value="{{.Identifier}}"></label>
  <button type="submit">Login</button>
</form>
</body>
</html>
`))

// Handler wires HTTP endpoints for login and logout.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Identifier string `validate:"required"`
}

type loginPageData struct {
	Identifier string
	CSRFToken  string
	Error      string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.Token(sess)
	h.render(w, http.StatusOK, loginPageData{CSRFToken: csrfToken})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.Token(sess)

	form := loginForm{Identifier: r.PostFormValue("identifier")}
	if err := h.validator.Struct(form); err != nil {
		h.render(w, http.StatusBadRequest, loginPageData{
			Identifier: form.Identifier,
			CSRFToken:  csrfToken,
			Error:      "Identifier is required",
		})
		return
	}

	principal, err := h.service.Authenticate(r.Context(), form.Identifier)
	if err != nil {
		h.render(w, http.StatusUnauthorized, loginPageData{
			Identifier: form.Identifier,
			CSRFToken:  csrfToken,
			Error:      "Unknown identifier",
		})
		return
	}

	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	sess.SetUser(principal.ID, principal.AuthHash)
	http.Redirect(w, r, "/protected", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, data loginPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := loginPage.Execute(w, data); err != nil && h.logger != nil {
		h.logger.Error("render login", slog.Any("error", err))
	}
}
