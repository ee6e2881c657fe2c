package users

import "context"

// Repo is the user collaborator seen by the auth core. Implementations return
// errors.ErrNotFound for missing rows and errors.ErrConflict when the email or
// username uniqueness constraint rejects an insert.
type Repo interface {
	// Create inserts a new user, assigning ID and timestamps when empty
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*User, error)

	// ExistsByEmailOrUsername reports whether either value is already taken
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
}
