package sessions

import "context"

// Repo defines the interface for session storage operations.
// Lookups and mutations that miss return errors.ErrSessionNotFound.
type Repo interface {
	// Create persists a new session, assigning ID and CreatedAt when empty
	Create(ctx context.Context, session *Session) error

	// FindActive returns the active session of userID whose refresh token hash matches
	FindActive(ctx context.Context, userID, refreshTokenHash string) (*Session, error)

	// FindActiveByAccessToken returns the active session of userID whose access token hash matches
	FindActiveByAccessToken(ctx context.Context, userID, accessTokenHash string) (*Session, error)

	// Deactivate marks the session inactive. It only succeeds while the row is
	// still active and still holds session.RefreshTokenHash.
	Deactivate(ctx context.Context, session *Session) error

	// Rotate overwrites the token hashes and expiry in place. It only succeeds
	// while the row is still active and still holds session.RefreshTokenHash,
	// so of two concurrent rotations of the same token exactly one wins.
	Rotate(ctx context.Context, session *Session, rotation Rotation) error
}
