package server

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-forum-auth/auth"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/pkg/errors"
)

const (
	maxRequestBodyBytes = 1 << 20
	unknownClient       = "unknown"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterHandler creates a user account
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		summary, err := s.auth.Register(r.Context(), req.Email, req.Username, req.Password)
		s.metrics.AuthEvent("register", err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// LoginHandler authenticates credentials and opens a session
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		pair, err := s.login(r, req)
		s.metrics.AuthEvent("login", err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

func (s *Server) login(r *http.Request, req loginRequest) (*auth.TokenPair, error) {
	user, err := s.auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.auth.Login(r.Context(), user, clientMetadata(r))
}

// RefreshHandler rotates the session holding the presented refresh token
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshTokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if strings.TrimSpace(req.RefreshToken) == "" {
			writeError(w, r, errors.Wrap(autherrors.ErrInvalidInput, "refresh_token is required"))
			return
		}

		pair, err := s.auth.RefreshSession(r.Context(), req.RefreshToken)
		s.metrics.AuthEvent("refresh", err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pair)
	}
}

// LogoutHandler revokes a session of the gated user
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, detailMissingBearer)
			return
		}

		var req refreshTokenRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		msg, err := s.auth.Logout(r.Context(), req.RefreshToken, user.ID)
		s.metrics.AuthEvent("logout", err)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: msg})
	}
}

// decodeJSON reads a single JSON object. Malformed bodies are invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.Wrap(autherrors.ErrInvalidInput, "request body is required")
		}
		return errors.Wrap(autherrors.ErrInvalidInput, "malformed JSON body")
	}
	return nil
}

// clientMetadata records where a login came from. The first X-Forwarded-For
// hop wins over the socket address.
func clientMetadata(r *http.Request) auth.ClientMetadata {
	meta := auth.ClientMetadata{
		IPAddress: unknownClient,
		UserAgent: unknownClient,
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			meta.IPAddress = first
		}
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		meta.IPAddress = host
	} else if r.RemoteAddr != "" {
		meta.IPAddress = r.RemoteAddr
	}

	if ua := r.UserAgent(); ua != "" {
		meta.UserAgent = ua
	}
	return meta
}
