package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avramovs/clientbook/internal/common"
	"github.com/avramovs/clientbook/internal/server/config"
	"github.com/avramovs/clientbook/internal/server/repositories/users"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
	}
	return NewUserService(users.NewInMemoryRepository(), cfg)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	res, err := s.Register(ctx, "anna@example.com", "Anna", "pass123")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.NotEmpty(t, res.User.ID)
	require.Equal(t, "Anna", res.User.Name)

	// The stored hash is not the plaintext.
	require.NoError(t, bcrypt.CompareHashAndPassword(res.User.PasswordHash, []byte("pass123")))

	userID, err := s.VerifyToken(res.Token)
	require.NoError(t, err)
	require.Equal(t, res.User.ID, userID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	_, err := s.Register(ctx, "anna@example.com", "Anna", "pass123")
	require.NoError(t, err)

	_, err = s.Register(ctx, "anna@example.com", "Other Anna", "different")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRegister_EmptyCredentials(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	_, err := s.Register(ctx, "", "Anna", "pass123")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Register(ctx, "anna@example.com", "Anna", "")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	reg, err := s.Register(ctx, "anna@example.com", "Anna", "pass123")
	require.NoError(t, err)

	res, err := s.Login(ctx, "anna@example.com", "pass123")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, res.User.ID)
	require.NotEmpty(t, res.Token)
}

func TestLogin_Rejections(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	_, err := s.Register(ctx, "anna@example.com", "Anna", "pass123")
	require.NoError(t, err)

	_, err = s.Login(ctx, "anna@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized, "wrong password")

	_, err = s.Login(ctx, "ghost@example.com", "pass123")
	require.ErrorIs(t, err, common.ErrorUnauthorized, "unknown email looks identical to a wrong password")
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t)

	reg, err := s.Register(ctx, "anna@example.com", "Anna", "pass123")
	require.NoError(t, err)

	user, err := s.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Equal(t, "anna@example.com", user.Email)

	_, err = s.GetByID(ctx, "deleted-user")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestVerifyToken_Garbage(t *testing.T) {
	s := newUserService(t)

	_, err := s.VerifyToken("not-a-token")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
