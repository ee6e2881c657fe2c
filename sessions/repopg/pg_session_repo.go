package pgsessionrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jrsteele09/go-forum-auth/internal/db"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/sessions"
	"github.com/pkg/errors"
)

var _ sessions.Repo = (*SessionRepo)(nil)

const sessionColumns = `id, user_id, refresh_token_hash, access_token_hash, user_agent, ip_address, is_active, created_at, expires_at`

// SessionRepo stores sessions in the user_sessions table. Rows are never
// deleted; logout clears is_active.
type SessionRepo struct {
	db db.Querier
}

func NewSessionRepo(q db.Querier) *SessionRepo {
	return &SessionRepo{db: q}
}

func (sr *SessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	_, err := sr.db.Exec(ctx, `
		INSERT INTO user_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		session.AccessTokenHash,
		session.UserAgent,
		session.IPAddress,
		session.IsActive,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Create]")
	}
	return nil
}

func (sr *SessionRepo) FindActive(ctx context.Context, userID, refreshTokenHash string) (*sessions.Session, error) {
	session, err := scanSession(sr.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM user_sessions
		WHERE user_id = $1 AND refresh_token_hash = $2 AND is_active
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, refreshTokenHash,
	))
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.FindActive]")
	}
	return session, nil
}

func (sr *SessionRepo) FindActiveByAccessToken(ctx context.Context, userID, accessTokenHash string) (*sessions.Session, error) {
	session, err := scanSession(sr.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM user_sessions
		WHERE user_id = $1 AND access_token_hash = $2 AND is_active
		ORDER BY created_at DESC
		LIMIT 1`,
		userID, accessTokenHash,
	))
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.FindActiveByAccessToken]")
	}
	return session, nil
}

func (sr *SessionRepo) Deactivate(ctx context.Context, session *sessions.Session) error {
	tag, err := sr.db.Exec(ctx, `
		UPDATE user_sessions
		SET is_active = FALSE
		WHERE id = $1 AND refresh_token_hash = $2 AND is_active`,
		session.ID, session.RefreshTokenHash,
	)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Deactivate]")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(autherrors.ErrSessionNotFound, "[SessionRepo.Deactivate]")
	}

	session.IsActive = false
	return nil
}

func (sr *SessionRepo) Rotate(ctx context.Context, session *sessions.Session, rotation sessions.Rotation) error {
	tag, err := sr.db.Exec(ctx, `
		UPDATE user_sessions
		SET refresh_token_hash = $3, access_token_hash = $4, expires_at = $5
		WHERE id = $1 AND refresh_token_hash = $2 AND is_active`,
		session.ID,
		session.RefreshTokenHash,
		rotation.RefreshTokenHash,
		rotation.AccessTokenHash,
		rotation.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Rotate]")
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(autherrors.ErrSessionNotFound, "[SessionRepo.Rotate]")
	}

	session.RefreshTokenHash = rotation.RefreshTokenHash
	session.AccessTokenHash = rotation.AccessTokenHash
	session.ExpiresAt = rotation.ExpiresAt
	return nil
}

func scanSession(row pgx.Row) (*sessions.Session, error) {
	var s sessions.Session
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshTokenHash,
		&s.AccessTokenHash,
		&s.UserAgent,
		&s.IPAddress,
		&s.IsActive,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, autherrors.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
