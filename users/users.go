package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier for the user
	Email        string    `json:"email,omitempty"`      // Unique email address
	Username     string    `json:"username,omitempty"`   // Unique username
	PasswordHash string    `json:"-"`                    // Hashed version of the user's password - never serialize
	IsActive     bool      `json:"is_active"`            // Inactive users cannot authenticate
	CreatedAt    time.Time `json:"created_at,omitempty"` // Date and time when the user registered
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// Summary is the public view of a user returned by registration
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HashPassword produces a self-salting bcrypt hash; hashing the same password
// twice yields different strings.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches hash. A malformed hash is
// a mismatch, not an error.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
