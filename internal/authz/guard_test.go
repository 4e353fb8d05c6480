package authz_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-app/gatehouse/internal/authz"
)

func guardedRequest(t *testing.T, sess *authz.Session) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sess == nil {
		return req
	}
	return req.WithContext(authz.ContextWithSession(req.Context(), sess))
}

func storeWith(t *testing.T, id string, levels ...authz.Level) (*authz.Store, authz.Principal) {
	t.Helper()
	store := authz.NewStore()
	require.NoError(t, store.Register(id, levels...))
	p, ok := store.Lookup(id)
	require.True(t, ok)
	return store, p
}

func TestRequireLoginMissingSession(t *testing.T) {
	out := authz.RequireLogin{LoginURI: "/login"}.Evaluate(guardedRequest(t, nil))

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusInternalServerError, out.Rejection.Status)
	assert.Empty(t, out.Rejection.Location)
}

func TestRequireLoginUnauthenticatedRedirects(t *testing.T) {
	sess := &authz.Session{Store: authz.NewStore()}
	out := authz.RequireLogin{LoginURI: "/login"}.Evaluate(guardedRequest(t, sess))

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusFound, out.Rejection.Status)
	assert.Equal(t, "/login", out.Rejection.Location)
}

func TestRequireLoginSuppressesRedirectFromSiteRoot(t *testing.T) {
	sess := &authz.Session{Store: authz.NewStore()}
	req := guardedRequest(t, sess)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Referer", "https://example.com/")

	out := authz.RequireLogin{LoginURI: "/login"}.Evaluate(req)

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusOK, out.Rejection.Status)
	assert.Empty(t, out.Rejection.Location)
}

func TestRequireLoginRedirectsFromOtherPages(t *testing.T) {
	sess := &authz.Session{Store: authz.NewStore()}
	req := guardedRequest(t, sess)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Referer", "https://example.com/dashboard")

	out := authz.RequireLogin{LoginURI: "/login"}.Evaluate(req)

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusFound, out.Rejection.Status)
	assert.Equal(t, "/login", out.Rejection.Location)
}

func TestRequireLoginAcceptsAuthenticated(t *testing.T) {
	store, p := storeWith(t, "alice", authz.LevelUser)
	sess := &authz.Session{Principal: &p, Store: store}
	req := guardedRequest(t, sess)

	out := authz.RequireLogin{LoginURI: "/login"}.Evaluate(req)

	require.Nil(t, out.Rejection)
	// The request passes through unchanged.
	assert.Same(t, req, out.Request)
}

func TestRequireRoleMissingSession(t *testing.T) {
	out := authz.RequireRole{Level: authz.LevelUser}.Evaluate(guardedRequest(t, nil))

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusInternalServerError, out.Rejection.Status)
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	sess := &authz.Session{Store: authz.NewStore()}
	out := authz.RequireRole{Level: authz.LevelUser}.Evaluate(guardedRequest(t, sess))

	require.NotNil(t, out.Rejection)
	assert.Equal(t, http.StatusUnauthorized, out.Rejection.Status)
}

func TestRequireRoleSeniority(t *testing.T) {
	tests := []struct {
		name     string
		levels   []authz.Level
		required authz.Level
		accept   bool
	}{
		{"admin allowed where user required", []authz.Level{authz.LevelAdmin}, authz.LevelUser, true},
		{"user denied where admin required", []authz.Level{authz.LevelUser}, authz.LevelAdmin, false},
		{"no grants denied", nil, authz.LevelUser, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, p := storeWith(t, "alice", tc.levels...)
			sess := &authz.Session{Principal: &p, Store: store}

			out := authz.RequireRole{Level: tc.required}.Evaluate(guardedRequest(t, sess))

			if tc.accept {
				require.Nil(t, out.Rejection)
				id, ok := authz.PrincipalIDFromContext(out.Request.Context())
				require.True(t, ok)
				assert.Equal(t, "alice", id)
			} else {
				require.NotNil(t, out.Rejection)
				assert.Equal(t, http.StatusUnauthorized, out.Rejection.Status)
			}
		})
	}
}

func TestRequireRoleRejectionLeavesRequestUntouched(t *testing.T) {
	store, p := storeWith(t, "alice", authz.LevelUser)
	sess := &authz.Session{Principal: &p, Store: store}
	req := guardedRequest(t, sess)

	out := authz.RequireRole{Level: authz.LevelAdmin}.Evaluate(req)

	require.NotNil(t, out.Rejection)
	_, ok := authz.PrincipalIDFromContext(req.Context())
	assert.False(t, ok)
}

func TestRejectionWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	(&authz.Rejection{Status: http.StatusFound, Location: "/login"}).Write(rec)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, rec.Body.Len())
}
