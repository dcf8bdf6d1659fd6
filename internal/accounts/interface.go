// Package accounts implements registration, authentication and the
// privileged-account existence check used during startup.
package accounts

import (
	"context"
	"driftblog/pkg/domain"
	"time"
)

// RegisterParams carries the fields needed to create a new account.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Accounts provides account management and token-based authentication.
type Accounts interface {
	// Register creates a regular account with a bcrypt-hashed password.
	Register(ctx context.Context, params RegisterParams) (*domain.User, error)
	// Login verifies credentials and returns a signed access token together
	// with the authenticated user.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Authenticate validates an access token and resolves it to a user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	// UserByID fetches a user by ID, returning a not-found error when missing.
	UserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// CreateSuperuser creates a privileged account. Only the createsuperuser
	// command calls this; startup never creates accounts on its own.
	CreateSuperuser(ctx context.Context, username, email, password string) (*domain.User, error)
	// SuperuserExists reports whether at least one privileged account exists.
	SuperuserExists(ctx context.Context) (bool, error)
	// MintToken signs an access token for the given user ID with a custom TTL.
	MintToken(userID domain.UserID, ttl time.Duration) (string, error)
}
