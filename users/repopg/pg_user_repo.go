package pguserrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jrsteele09/go-forum-auth/internal/db"
	autherrors "github.com/jrsteele09/go-forum-auth/internal/errors"
	"github.com/jrsteele09/go-forum-auth/users"
	"github.com/pkg/errors"
)

var _ users.Repo = (*UserRepo)(nil)

const userColumns = `id, email, username, password_hash, is_active, created_at, updated_at`

// UserRepo stores users in the users table
type UserRepo struct {
	db db.Querier
}

func NewUserRepo(q db.Querier) *UserRepo {
	return &UserRepo{db: q}
}

func (ur *UserRepo) Create(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := ur.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return errors.Wrap(autherrors.ErrConflict, "[UserRepo.Create] "+pgErr.ConstraintName)
		}
		return errors.Wrap(err, "[UserRepo.Create]")
	}
	return nil
}

func (ur *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	user, err := scanUser(ur.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.GetByEmail]")
	}
	return user, nil
}

func (ur *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user, err := scanUser(ur.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.GetByID]")
	}
	return user, nil
}

func (ur *UserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := ur.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		email, username,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "[UserRepo.ExistsByEmailOrUsername]")
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*users.User, error) {
	var u users.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, autherrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
