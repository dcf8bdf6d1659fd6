package storage

import (
	"context"
	"driftblog/pkg/domain"
)

// UserStorage defines persistence operations for accounts.
type UserStorage interface {
	// StoreUser inserts a new user and returns the stored row. Returns
	// ErrDuplicate when the username is already taken.
	StoreUser(ctx context.Context, user domain.User) (*domain.User, error)
	// UserByID fetches a user by ID. Returns nil when not found.
	UserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// UserByUsername fetches a user by exact username. Returns nil when not found.
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	// SuperuserExists reports whether at least one superuser account exists.
	// This is the read-only check the startup sequence performs; it never
	// creates anything.
	SuperuserExists(ctx context.Context) (bool, error)
}
