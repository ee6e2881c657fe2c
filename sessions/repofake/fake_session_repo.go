package fakesessionrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	sessions map[string]*sessions.Session
	lock     sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		sessions: make(map[string]*sessions.Session),
	}
}

func (sr *FakeSessionRepo) Create(_ context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	stored := *session
	sr.sessions[session.ID] = &stored
	return nil
}

func (sr *FakeSessionRepo) FindActive(_ context.Context, userID, refreshTokenHash string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return sr.find(func(s *sessions.Session) bool {
		return s.UserID == userID && s.RefreshTokenHash == refreshTokenHash
	})
}

func (sr *FakeSessionRepo) FindActiveByAccessToken(_ context.Context, userID, accessTokenHash string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	return sr.find(func(s *sessions.Session) bool {
		return s.UserID == userID && s.AccessTokenHash == accessTokenHash
	})
}

func (sr *FakeSessionRepo) Deactivate(_ context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	stored, ok := sr.current(session)
	if !ok {
		return autherrors.ErrSessionNotFound
	}
	stored.IsActive = false
	session.IsActive = false
	return nil
}

func (sr *FakeSessionRepo) Rotate(_ context.Context, session *sessions.Session, rotation sessions.Rotation) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	stored, ok := sr.current(session)
	if !ok {
		return autherrors.ErrSessionNotFound
	}
	stored.RefreshTokenHash = rotation.RefreshTokenHash
	stored.AccessTokenHash = rotation.AccessTokenHash
	stored.ExpiresAt = rotation.ExpiresAt

	session.RefreshTokenHash = rotation.RefreshTokenHash
	session.AccessTokenHash = rotation.AccessTokenHash
	session.ExpiresAt = rotation.ExpiresAt
	return nil
}

// All returns a snapshot of every stored session, active or not
func (sr *FakeSessionRepo) All() []sessions.Session {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	out := make([]sessions.Session, 0, len(sr.sessions))
	for _, s := range sr.sessions {
		out = append(out, *s)
	}
	return out
}

// find must be called with the lock held
func (sr *FakeSessionRepo) find(match func(*sessions.Session) bool) (*sessions.Session, error) {
	for _, s := range sr.sessions {
		if s.IsActive && match(s) {
			found := *s
			return &found, nil
		}
	}
	return nil, autherrors.ErrSessionNotFound
}

// current returns the stored row only if it still matches the caller's view:
// active, and holding the refresh hash the caller read.
func (sr *FakeSessionRepo) current(session *sessions.Session) (*sessions.Session, bool) {
	stored, ok := sr.sessions[session.ID]
	if !ok || !stored.IsActive || stored.RefreshTokenHash != session.RefreshTokenHash {
		return nil, false
	}
	return stored, true
}
