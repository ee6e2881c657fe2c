package server

import (
	"encoding/json"
	"net/http"
	"strings"

	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/rs/zerolog/log"
)

// Response details. Unknown email and wrong password share one message.
const (
	detailConflict           = "Email or username already exists."
	detailInvalidCredentials = "Invalid credentials"
	detailInvalidRefresh     = "Invalid refresh token."
	detailSessionNotFound    = "No active session found."
	detailForbidden          = "User not authorized to logout this session."
	detailUserNotFound       = "User not found"
	detailInternal           = "Internal server error"

	// Request gate
	detailMissingBearer   = "Authorization header missing or invalid"
	detailInvalidToken    = "Invalid token"
	detailSessionInactive = "Session inactive or expired"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorMapping struct {
	target  error
	status  int
	outcome string
	detail  string
}

// errorMappings is checked in order; the first sentinel found in the chain wins
var errorMappings = []errorMapping{
	{autherrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input", ""},
	{autherrors.ErrConflict, http.StatusBadRequest, "conflict", detailConflict},
	{autherrors.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", detailInvalidCredentials},
	{autherrors.ErrInvalidToken, http.StatusUnauthorized, "invalid_token", detailInvalidRefresh},
	{autherrors.ErrSessionNotFound, http.StatusUnauthorized, "session_not_found", detailSessionNotFound},
	{autherrors.ErrForbidden, http.StatusForbidden, "forbidden", detailForbidden},
	{autherrors.ErrUserNotFound, http.StatusNotFound, "user_not_found", detailUserNotFound},
}

func lookupMapping(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if autherrors.Is(err, m.target) {
			return m, true
		}
	}
	return errorMapping{}, false
}

func outcomeFor(err error) string {
	if m, ok := lookupMapping(err); ok {
		return m.outcome
	}
	return "error"
}

// writeError maps err onto the HTTP taxonomy. Unclassified errors are logged
// and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	m, ok := lookupMapping(err)
	if !ok {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("unhandled error")
		writeDetail(w, http.StatusInternalServerError, detailInternal)
		return
	}

	detail := m.detail
	if detail == "" {
		// Invalid input carries its own explanation ahead of the sentinel text
		detail = strings.TrimSuffix(err.Error(), ": "+autherrors.ErrInvalidInput.Error())
	}
	writeDetail(w, m.status, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
