package service

import (
	"testing"

	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	user, err := svc.Register(&RegisterRequest{
		Name:     "Andi Wijaya",
		Username: "andi",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Participant, user.Role)
	assert.NotEqual(t, "rahasia123", user.Password)

	token, logged, err := svc.Login("andi", "rahasia123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, testConfig().JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Participant, claims.Role)

	_, _, err = svc.Login("andi", "salah")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = svc.Login("tidakada", "rahasia123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	_, err := svc.Register(&RegisterRequest{Name: "Andi", Username: "andi", Password: "rahasia123"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "Andi Lain", Username: "andi", Password: "rahasia123"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestRegisterAuthorRequiresPhone(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	_, err := svc.Register(&RegisterRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia123",
		Role:     "AUTHOR",
	})
	assert.Error(t, err)

	user, err := svc.Register(&RegisterRequest{
		Name:     "Budi",
		Username: "budi",
		Password: "rahasia123",
		Role:     "AUTHOR",
		Phone:    "081234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Author, user.Role)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "081234567890", *user.Phone)
}

func TestRegisterCannotClaimAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	user, err := svc.Register(&RegisterRequest{
		Name:     "Penyusup",
		Username: "penyusup",
		Password: "rahasia123",
		Role:     "ADMIN",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Participant, user.Role)
}
