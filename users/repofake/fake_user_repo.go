package fakeuserrepo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[string]*users.User
	emailIds  map[string]string // email to user id
	usernames map[string]string // username to user id
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[string]*users.User),
		emailIds:  make(map[string]string),
		usernames: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	// Mirrors the UNIQUE constraints of the users table
	if _, ok := ur.emailIds[user.Email]; ok {
		return autherrors.ErrConflict
	}
	if _, ok := ur.usernames[user.Username]; ok {
		return autherrors.ErrConflict
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	ur.users[user.ID] = &stored
	ur.emailIds[user.Email] = user.ID
	ur.usernames[user.Username] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, autherrors.ErrNotFound
	}
	u := *ur.users[id]
	return &u, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	stored, ok := ur.users[id]
	if !ok {
		return nil, autherrors.ErrNotFound
	}
	u := *stored
	return &u, nil
}

func (ur *FakeUserRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	_, emailTaken := ur.emailIds[email]
	_, usernameTaken := ur.usernames[username]
	return emailTaken || usernameTaken, nil
}

// Count returns the number of stored users
func (ur *FakeUserRepo) Count() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.users)
}

// SetActive toggles the active flag of the user with the given email
func (ur *FakeUserRepo) SetActive(email string, active bool) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return autherrors.ErrNotFound
	}
	ur.users[id].IsActive = active
	return nil
}

// Delete removes the user with the given ID, simulating a user deleted by another collaborator
func (ur *FakeUserRepo) Delete(id string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	u, ok := ur.users[id]
	if !ok {
		return autherrors.ErrNotFound
	}
	delete(ur.emailIds, u.Email)
	delete(ur.usernames, u.Username)
	delete(ur.users, id)
	return nil
}
