package server

import (
	"context"
	"net/http"
	"strings"

	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/token"
	"github.com/jrsteele09/go-forum-auth/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the *users.User admitted by the gate
	ContextKeyUser ContextKey = "user"
)

// CurrentUser returns the user attached to ctx by RequireAuth
func CurrentUser(ctx context.Context) (*users.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*users.User)
	return user, ok && user != nil
}

// isGateExcluded reports whether path is served without a bearer token
func isGateExcluded(path string) bool {
	for _, prefix := range gateExcludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

// RequireAuth is the request gate. Outside the excluded prefixes a request is
// admitted only with a valid access token whose session is still active and
// unexpired, and whose user still exists. The gate never writes to storage.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if isGateExcluded(r.URL.Path) {
				next(w, r)
				return
			}

			rawToken, ok := bearerToken(r)
			if !ok {
				writeDetail(w, http.StatusUnauthorized, detailMissingBearer)
				return
			}

			userID, err := s.codec.Parse(rawToken)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("gate rejected token")
				writeDetail(w, http.StatusUnauthorized, detailInvalidToken)
				return
			}

			ctx := r.Context()
			session, err := s.repos.Sessions.FindActiveByAccessToken(ctx, userID, token.HashForStorage(rawToken))
			if autherrors.Is(err, autherrors.ErrSessionNotFound) {
				writeDetail(w, http.StatusUnauthorized, detailSessionInactive)
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !session.Live(s.now()) {
				writeDetail(w, http.StatusUnauthorized, detailSessionInactive)
				return
			}

			user, err := s.repos.Users.GetByID(ctx, userID)
			if autherrors.Is(err, autherrors.ErrNotFound) {
				writeDetail(w, http.StatusNotFound, detailUserNotFound)
				return
			}
			if err != nil {
				writeError(w, r, err)
				return
			}

			next(w, r.WithContext(context.WithValue(ctx, ContextKeyUser, user)))
		}
	}
}
