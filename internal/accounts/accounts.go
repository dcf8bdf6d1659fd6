package accounts

import (
	"context"
	"driftblog/internal/config"
	"driftblog/pkg/domain"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// UsernameMaxLen bounds login names.
	UsernameMaxLen = 150
	// PasswordMinLen is the minimum accepted password length.
	PasswordMinLen = 8
)

// Options configure token issuance and password hashing.
type Options struct {
	// JWTSecret is the HS256 signing secret.
	JWTSecret []byte
	// TokenTTL is the validity duration of issued access tokens.
	TokenTTL time.Duration
	// BcryptCost is the bcrypt work factor used when hashing passwords.
	BcryptCost int
}

// NewOptions constructs an Options value from the application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}
}

// accounts is the concrete implementation of the Accounts interface.
type accounts struct {
	options Options
	storage storage.Storage
}

// New creates a new Accounts instance backed by the provided storage.
func New(storage storage.Storage, options Options) Accounts {
	return &accounts{
		options: options,
		storage: storage,
	}
}

func validateCredentials(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > UsernameMaxLen {
		return serrors.With(serrors.ErrBadRequest, "username must be 1-%d characters", UsernameMaxLen)
	}
	if len(password) < PasswordMinLen {
		return serrors.With(serrors.ErrBadRequest, "password must be at least %d characters", PasswordMinLen)
	}

	return nil
}

func (a accounts) register(ctx context.Context, params RegisterParams, staff, superuser bool) (*domain.User, error) {
	if err := validateCredentials(params.Username, params.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), a.options.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %w", err)
	}

	user, err := a.storage.StoreUser(ctx, domain.User{
		Username:     strings.TrimSpace(params.Username),
		Email:        strings.TrimSpace(params.Email),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		IsStaff:      staff,
		IsSuperuser:  superuser,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, serrors.Wrap(serrors.ErrConflict, err, "username already taken")
		}

		return nil, fmt.Errorf("could not store user: %w", err)
	}

	return user, nil
}

// Register creates a regular, non-privileged account.
func (a accounts) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	return a.register(ctx, params, false, false)
}

// CreateSuperuser creates a staff+superuser account. This is only reachable
// through the createsuperuser command; the startup check never calls it.
func (a accounts) CreateSuperuser(ctx context.Context, username, email, password string) (*domain.User, error) {
	return a.register(ctx, RegisterParams{
		Username: username,
		Email:    email,
		Password: password,
	}, true, true)
}

// Login verifies the password against the stored bcrypt hash and returns a
// signed access token. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (a accounts) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := a.storage.UserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		// burn a comparison anyway to keep timing consistent
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$12$000000000000000000000uGyUlB0ccvKJfSHSYqrqkO2jV8KJS6a"),
			[]byte(password))

		return "", nil, serrors.With(serrors.ErrUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, serrors.With(serrors.ErrUnauthorized, "invalid credentials")
	}

	token, err := a.MintToken(user.ID, a.options.TokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// MintToken signs an HS256 access token whose subject is the user ID.
func (a accounts) MintToken(userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   uuid.UUID(userID).String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.options.JWTSecret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return signed, nil
}

// Authenticate parses and validates a token, then resolves its subject to a
// stored user.
func (a accounts) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return a.options.JWTSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return a.UserByID(ctx, domain.UserID(userID))
}

// UserByID fetches a user, mapping a missing row to a not-found error.
func (a accounts) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, err := a.storage.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not fetch user: %w", err)
	}
	if user == nil {
		return nil, serrors.With(serrors.ErrNotFound, "user not found")
	}

	return user, nil
}

// SuperuserExists is the read-only check the startup sequence performs.
func (a accounts) SuperuserExists(ctx context.Context) (bool, error) {
	exists, err := a.storage.SuperuserExists(ctx)
	if err != nil {
		return false, fmt.Errorf("could not check superuser existence: %w", err)
	}

	return exists, nil
}
