package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-forum-auth/auth"
	"github.com/jrsteele09/go-forum-auth/server"
	"github.com/jrsteele09/go-forum-auth/sessions"
	fakesessionrepo "github.com/jrsteele09/go-forum-auth/sessions/repofake"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/jrsteele09/go-forum-auth/users"
	fakeuserrepo "github.com/jrsteele09/go-forum-auth/users/repofake"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("conn refused")

// unavailableSessionRepo fails the gate's session lookup
type unavailableSessionRepo struct {
	*fakesessionrepo.FakeSessionRepo
}

func (unavailableSessionRepo) FindActiveByAccessToken(context.Context, string, string) (*sessions.Session, error) {
	return nil, errStorageDown
}

// unavailableUserRepo fails every read
type unavailableUserRepo struct {
	*fakeuserrepo.FakeUserRepo
}

func (unavailableUserRepo) GetByID(context.Context, string) (*users.User, error) {
	return nil, errStorageDown
}

func (unavailableUserRepo) ExistsByEmailOrUsername(context.Context, string, string) (bool, error) {
	return false, errStorageDown
}

// storageFailureFixture serves requests over repos and returns a live access
// token for a user stored in the underlying fakes.
func storageFailureFixture(t *testing.T, wrap func(auth.Repos) auth.Repos) (*server.Server, string) {
	t.Helper()
	ctx := context.Background()
	cfg := newTestConfig(t)

	userRepo := fakeuserrepo.NewFakeUserRepo()
	sessionRepo := fakesessionrepo.NewFakeSessionRepo()

	user := &users.User{Email: testEmail, Username: testUsername, PasswordHash: "hash", IsActive: true}
	require.NoError(t, userRepo.Create(ctx, user))

	codec, err := token.NewCodecFromConfig(cfg)
	require.NoError(t, err)
	access, _, err := codec.Issue(user.ID, time.Minute)
	require.NoError(t, err)
	require.NoError(t, sessionRepo.Create(ctx, &sessions.Session{
		UserID:           user.ID,
		RefreshTokenHash: "unused",
		AccessTokenHash:  token.HashForStorage(access),
		IsActive:         true,
		ExpiresAt:        time.Now().Add(time.Hour),
	}))

	repos := wrap(auth.Repos{Users: userRepo, Sessions: sessionRepo})
	service, err := auth.NewService(repos, codec, cfg)
	require.NoError(t, err)
	srv, err := server.New(cfg, service, codec, repos, fakePinger{})
	require.NoError(t, err)
	return srv, access
}

func TestStorageFailuresAreInternalErrors(t *testing.T) {
	serve := func(srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	t.Run("gate session lookup", func(t *testing.T) {
		srv, access := storageFailureFixture(t, func(r auth.Repos) auth.Repos {
			r.Sessions = unavailableSessionRepo{FakeSessionRepo: r.Sessions.(*fakesessionrepo.FakeSessionRepo)}
			return r
		})

		req := httptest.NewRequest(http.MethodGet, server.RouteUsersMe, nil)
		req.Header.Set("Authorization", "Bearer "+access)
		requireDetail(t, serve(srv, req), http.StatusInternalServerError, "Internal server error")
	})

	t.Run("gate user lookup", func(t *testing.T) {
		srv, access := storageFailureFixture(t, func(r auth.Repos) auth.Repos {
			r.Users = unavailableUserRepo{FakeUserRepo: r.Users.(*fakeuserrepo.FakeUserRepo)}
			return r
		})

		req := httptest.NewRequest(http.MethodGet, server.RouteUsersMe, nil)
		req.Header.Set("Authorization", "Bearer "+access)
		requireDetail(t, serve(srv, req), http.StatusInternalServerError, "Internal server error")
	})

	t.Run("register", func(t *testing.T) {
		srv, _ := storageFailureFixture(t, func(r auth.Repos) auth.Repos {
			r.Users = unavailableUserRepo{FakeUserRepo: r.Users.(*fakeuserrepo.FakeUserRepo)}
			return r
		})

		req := httptest.NewRequest(http.MethodPost, server.RouteAuthRegister,
			jsonBody(t, map[string]string{"email": "c@b.com", "username": "carol", "password": "pw"}))
		rec := serve(srv, req)
		requireDetail(t, rec, http.StatusInternalServerError, "Internal server error")
		require.NotContains(t, rec.Body.String(), errStorageDown.Error())
	})
}
