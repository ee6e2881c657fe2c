package sessions

import (
	"time"
)

// Session is one issued refresh-token lineage. The raw tokens are never
// stored: only their SHA-256 digests.
type Session struct {
	ID               string    // Unique session identifier (UUID)
	UserID           string    // Owner of the session
	RefreshTokenHash string    // Digest of the refresh token currently held by the client
	AccessTokenHash  string    // Digest of the access token issued with that refresh token
	UserAgent        *string   // Client User-Agent at login, for audit
	IPAddress        *string   // Client IP at login, for audit
	IsActive         bool      // Cleared on logout; rows are never deleted
	CreatedAt        time.Time // When the session was created
	ExpiresAt        time.Time // Expiry of the current refresh token
}

// Rotation carries the values written to a session on refresh
type Rotation struct {
	RefreshTokenHash string
	AccessTokenHash  string
	ExpiresAt        time.Time
}

// Live reports whether the session is active and not past its expiry at now
func (s *Session) Live(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
