package accounts_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"driftblog/internal/accounts"
	"driftblog/pkg/logger"
	"driftblog/pkg/serrors"
	"driftblog/pkg/storage/storagetest"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func newAccounts(strg *storagetest.Fake) accounts.Accounts {
	return accounts.New(strg, accounts.Options{
		JWTSecret:  []byte("test-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestRegister(t *testing.T) {
	acc := newAccounts(storagetest.New())

	user, err := acc.Register(context.Background(), accounts.RegisterParams{
		Username:  "jane",
		Email:     "jane@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "jane", user.Username)
	require.False(t, user.IsStaff)
	require.False(t, user.IsSuperuser)
	require.NotEqual(t, "hunter2hunter2", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegister_Validation(t *testing.T) {
	acc := newAccounts(storagetest.New())

	_, err := acc.Register(context.Background(), accounts.RegisterParams{Username: "", Password: "longenough"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	_, err = acc.Register(context.Background(), accounts.RegisterParams{Username: "jane", Password: "short"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	acc := newAccounts(storagetest.New())

	params := accounts.RegisterParams{Username: "jane", Password: "hunter2hunter2"}
	_, err := acc.Register(context.Background(), params)
	require.NoError(t, err)

	_, err = acc.Register(context.Background(), params)
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestLogin(t *testing.T) {
	acc := newAccounts(storagetest.New())

	registered, err := acc.Register(context.Background(), accounts.RegisterParams{
		Username: "jane",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	token, user, err := acc.Login(context.Background(), "jane", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, registered.ID, user.ID)

	// a valid token resolves back to the same user
	authed, err := acc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, registered.ID, authed.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	acc := newAccounts(storagetest.New())

	_, err := acc.Register(context.Background(), accounts.RegisterParams{
		Username: "jane",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, _, err = acc.Login(context.Background(), "jane", "wrong-password")
	require.ErrorIs(t, err, serrors.ErrUnauthorized)

	// unknown usernames look identical to wrong passwords
	_, _, err = acc.Login(context.Background(), "nobody", "hunter2hunter2")
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	acc := newAccounts(storagetest.New())

	_, err := acc.Authenticate(context.Background(), "not-a-token")
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	acc := newAccounts(storagetest.New())

	user, err := acc.Register(context.Background(), accounts.RegisterParams{
		Username: "jane",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	token, err := acc.MintToken(user.ID, -time.Minute)
	require.NoError(t, err)

	_, err = acc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	strg := storagetest.New()
	acc := newAccounts(strg)
	other := accounts.New(strg, accounts.Options{
		JWTSecret:  []byte("different-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})

	user, err := acc.Register(context.Background(), accounts.RegisterParams{
		Username: "jane",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	token, err := acc.MintToken(user.ID, time.Hour)
	require.NoError(t, err)

	_, err = other.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, serrors.ErrUnauthorized)
}

func TestCreateSuperuser(t *testing.T) {
	acc := newAccounts(storagetest.New())

	exists, err := acc.SuperuserExists(context.Background())
	require.NoError(t, err)
	require.False(t, exists)

	user, err := acc.CreateSuperuser(context.Background(), "admin", "admin@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.True(t, user.IsStaff)
	require.True(t, user.IsSuperuser)

	exists, err = acc.SuperuserExists(context.Background())
	require.NoError(t, err)
	require.True(t, exists)
}
