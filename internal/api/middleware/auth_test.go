package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
)

func newAuthedHandler(t *testing.T) (*auth.JWTService, http.Handler, *bool) {
	t.Helper()

	jwt := auth.NewJWTService("test-secret", time.Hour)
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return jwt, Authenticate(jwt)(next), &called
}

func TestAuthenticateWithBearerToken(t *testing.T) {
	jwt := auth.NewJWTService("test-secret", time.Hour)

	userID := uuid.New()
	token, err := jwt.GenerateToken(userID, "user@example.com", models.RoleManager)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	var gotID uuid.UUID
	var gotRole models.Role
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotRole, _ = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	Authenticate(jwt)(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, models.RoleManager, gotRole)
}

func TestAuthenticateWithCookie(t *testing.T) {
	jwt, handler, called := newAuthedHandler(t)

	token, err := jwt.GenerateToken(uuid.New(), "user@example.com", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	_, handler, called := newAuthedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthenticateClearsCookieOnInvalidToken(t *testing.T) {
	_, handler, called := newAuthedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "garbage"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AuthCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	_, handler, called := newAuthedHandler(t)

	expiredJWT := auth.NewJWTService("test-secret", -time.Hour)
	token, err := expiredJWT.GenerateToken(uuid.New(), "user@example.com", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestAuthenticateRedirectsBrowsers(t *testing.T) {
	_, handler, _ := newAuthedHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireRole(t *testing.T) {
	jwt := auth.NewJWTService("test-secret", time.Hour)

	run := func(t *testing.T, role models.Role, required models.Role) int {
		t.Helper()
		token, err := jwt.GenerateToken(uuid.New(), "user@example.com", role)
		require.NoError(t, err)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		handler := Authenticate(jwt)(RequireRole(required)(next))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, run(t, models.RoleUser, models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, run(t, models.RoleManager, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, run(t, models.RoleAdmin, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, run(t, models.RoleAdmin, models.RoleManager))
	assert.Equal(t, http.StatusOK, run(t, models.RoleManager, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, run(t, models.RoleUser, models.RoleManager))
}
