package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-app/gatehouse/internal/auth"
	"github.com/gatehouse-app/gatehouse/internal/authz"
	"github.com/gatehouse-app/gatehouse/internal/shared"
	_ "github.com/gatehouse-app/gatehouse/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T) (chi.Router, *shared.SessionManager, *authz.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")

	store := authz.NewStore()
	require.NoError(t, store.Register("gatehouse_admin", authz.LevelAdmin))

	handler := auth.NewHandler(testLogger(), auth.NewService(store), sessionManager, csrfManager)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r, sessionManager, store
}

func withSession(t *testing.T, sm *shared.SessionManager, req *http.Request) (*http.Request, *shared.Session) {
	t.Helper()
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	return req.WithContext(ctx), sess
}

func TestLoginPage(t *testing.T) {
	router, sessionManager, _ := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req, _ = withSession(t, sessionManager, req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
	assert.Contains(t, rec.Body.String(), "csrf_token")
}

func TestLoginBindsSessionToPrincipal(t *testing.T) {
	router, sessionManager, store := newHarness(t)

	form := url.Values{"identifier": {"gatehouse_admin"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req, sess := withSession(t, sessionManager, req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/protected", rec.Header().Get("Location"))
	assert.Equal(t, "gatehouse_admin", sess.User())

	p, ok := store.Lookup("gatehouse_admin")
	require.True(t, ok)
	assert.Equal(t, p.AuthHash, sess.AuthHash())
}

func TestLoginUnknownIdentifier(t *testing.T) {
	router, sessionManager, _ := newHarness(t)

	form := url.Values{"identifier": {"nobody"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req, sess := withSession(t, sessionManager, req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, sess.User())
}

func TestLoginMissingIdentifier(t *testing.T) {
	router, sessionManager, _ := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req, _ = withSession(t, sessionManager, req)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	router, sessionManager, store := newHarness(t)

	p, ok := store.Lookup("gatehouse_admin")
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req, sess := withSession(t, sessionManager, req)
	sess.SetUser(p.ID, p.AuthHash)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The destroyed session clears its cookie on commit.
	commitRec := httptest.NewRecorder()
	require.NoError(t, sessionManager.Commit(req.Context(), commitRec, sess))
	cookies := commitRec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
