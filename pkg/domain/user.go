package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// User represents an account that can author articles and comments.
// PasswordHash is a bcrypt hash and never leaves the storage/service boundary.
type User struct {
	// ID is the unique identifier of the user.
	ID UserID `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`
	// Email is the contact address; not required to be unique.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	// IsStaff grants moderation rights: editing and deleting any article or comment.
	IsStaff bool `json:"isStaff"`
	// IsSuperuser marks a privileged account with full access. The startup
	// sequence only ever checks for the existence of such an account, it never
	// creates one.
	IsSuperuser bool `json:"isSuperuser"`

	// JoinedAt is the time the account was created.
	JoinedAt time.Time `json:"joinedAt"`
	// UpdatedAt is the time the account was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName returns "First Last" with surrounding whitespace trimmed parts,
// falling back to the username when both name fields are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}
