package server

import (
	"net/http"
)

type currentUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// CurrentUserHandler returns the user admitted by the gate
func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, detailMissingBearer)
			return
		}
		writeJSON(w, http.StatusOK, currentUserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			IsActive: user.IsActive,
		})
	}
}
