package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-forum-auth/server"
	"github.com/jrsteele09/go-forum-auth/sessions"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth_ExcludedPathsSkipTheGate(t *testing.T) {
	f := setupTestFixture(t)

	// Reaches the handler: the credentials are rejected, not the missing header
	rec := f.do(t, http.MethodPost, server.RouteAuthLogin, map[string]string{"email": testEmail, "password": "nope"}, "")
	requireDetail(t, rec, http.StatusUnauthorized, "Invalid credentials")

	for _, path := range []string{server.RouteDocs, server.RouteOpenAPI, server.RouteHealthz, server.RouteMetrics} {
		rec := f.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequireAuth_PublicMetricsCarryNoIdentities(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t)
	pair := f.login(t)

	rec := f.do(t, http.MethodGet, server.RouteMetrics, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "auth_events_total")
	for _, secret := range []string{testEmail, testUsername, pair.AccessToken, pair.RefreshToken} {
		require.NotContains(t, body, secret)
	}
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	f := setupTestFixture(t)

	for name, header := range map[string]string{
		"none":         "",
		"basic scheme": "Basic dXNlcjpwYXNz",
		"empty bearer": "Bearer ",
		"no scheme":    "sometoken",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, server.RouteUsersMe, nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			f.server.ServeHTTP(rec, req)
			requireDetail(t, rec, http.StatusUnauthorized, "Authorization header missing or invalid")
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteUsersMe, nil, "not.a.jwt")
	requireDetail(t, rec, http.StatusUnauthorized, "Invalid token")

	other, err := token.NewHMACSigner("other-secret", "HS256")
	require.NoError(t, err)
	forged, _, err := token.NewCodec(other).Issue("someone", time.Hour)
	require.NoError(t, err)

	rec = f.do(t, http.MethodGet, server.RouteUsersMe, nil, forged)
	requireDetail(t, rec, http.StatusUnauthorized, "Invalid token")
}

func TestRequireAuth_AdmitsLiveSession(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t)
	pair := f.login(t)

	rec := f.do(t, http.MethodGet, server.RouteUsersMe, nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	me := decode[map[string]any](t, rec)
	require.Equal(t, testUsername, me["username"])
	require.Equal(t, testEmail, me["email"])
	require.Equal(t, true, me["is_active"])
}

func TestRequireAuth_SessionInactiveOrExpired(t *testing.T) {
	t.Run("logged out", func(t *testing.T) {
		f := setupTestFixture(t)
		f.register(t)
		pair := f.login(t)

		rec := f.do(t, http.MethodPost, server.RouteAuthLogout, map[string]string{"refresh_token": pair.RefreshToken}, pair.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = f.do(t, http.MethodGet, server.RouteUsersMe, nil, pair.AccessToken)
		requireDetail(t, rec, http.StatusUnauthorized, "Session inactive or expired")
	})

	t.Run("access token superseded by refresh", func(t *testing.T) {
		f := setupTestFixture(t)
		f.register(t)
		pair := f.login(t)

		rec := f.do(t, http.MethodPost, server.RouteAuthRefresh, map[string]string{"refresh_token": pair.RefreshToken}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = f.do(t, http.MethodGet, server.RouteUsersMe, nil, pair.AccessToken)
		requireDetail(t, rec, http.StatusUnauthorized, "Session inactive or expired")
	})

	t.Run("valid token without a session", func(t *testing.T) {
		f := setupTestFixture(t)
		f.register(t)
		user, err := f.userRepo.GetByEmail(context.Background(), testEmail)
		require.NoError(t, err)

		orphan, _, err := f.codec.Issue(user.ID, time.Minute)
		require.NoError(t, err)

		rec := f.do(t, http.MethodGet, server.RouteUsersMe, nil, orphan)
		requireDetail(t, rec, http.StatusUnauthorized, "Session inactive or expired")
	})

	t.Run("session past expiry", func(t *testing.T) {
		f := setupTestFixture(t)
		f.register(t)
		user, err := f.userRepo.GetByEmail(context.Background(), testEmail)
		require.NoError(t, err)

		access, _, err := f.codec.Issue(user.ID, time.Hour)
		require.NoError(t, err)
		require.NoError(t, f.sessionRepo.Create(context.Background(), &sessions.Session{
			UserID:           user.ID,
			RefreshTokenHash: "unused",
			AccessTokenHash:  token.HashForStorage(access),
			IsActive:         true,
			ExpiresAt:        f.clock().Add(-time.Minute),
		}))

		rec := f.do(t, http.MethodGet, server.RouteUsersMe, nil, access)
		requireDetail(t, rec, http.StatusUnauthorized, "Session inactive or expired")
	})
}

func TestRequireAuth_UserDeleted(t *testing.T) {
	f := setupTestFixture(t)
	f.register(t)
	pair := f.login(t)

	user, err := f.userRepo.GetByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	require.NoError(t, f.userRepo.Delete(user.ID))

	rec := f.do(t, http.MethodGet, server.RouteUsersMe, nil, pair.AccessToken)
	requireDetail(t, rec, http.StatusNotFound, "User not found")
}

func TestCurrentUser_EmptyContext(t *testing.T) {
	_, ok := server.CurrentUser(context.Background())
	require.False(t, ok)
}
