package service

import (
	"testing"

	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetUsersFiltering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	createUser(t, db, "Andi Wijaya", "andi", model.Participant)
	createUser(t, db, "Budi Santoso", "budi", model.Participant)
	createUser(t, db, "Citra Dewi", "citra", model.Author)

	users, total, err := svc.GetUsers(1, 10, "PARTICIPANT", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	users, total, err = svc.GetUsers(1, 10, "", "budi")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Budi Santoso", users[0].Name)

	// 种子管理员计入总数
	stats, err := svc.GetUserStats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats["totalUsers"])
	assert.Equal(t, int64(1), stats["totalAuthors"])
	assert.Equal(t, int64(2), stats["totalParticipants"])
}

func TestUpdateUserUniqueUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	a := createUser(t, db, "Andi", "andi", model.Participant)
	createUser(t, db, "Budi", "budi", model.Participant)

	_, err := svc.UpdateUser(a.ID, &UpdateUserRequest{
		Name:     "Andi",
		Username: "budi",
		Role:     "PARTICIPANT",
	})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)

	updated, err := svc.UpdateUser(a.ID, &UpdateUserRequest{
		Name:     "Andi Baru",
		Username: "andi",
		Role:     "AUTHOR",
	})
	require.NoError(t, err)
	assert.Equal(t, "Andi Baru", updated.Name)
	assert.Equal(t, model.Author, updated.Role)
}

func TestDeleteUserSelfGuard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	admin := createUser(t, db, "Admin Kedua", "admin2", model.Admin)
	target := createUser(t, db, "Andi", "andi", model.Participant)

	assert.ErrorIs(t, svc.DeleteUser(admin.ID, admin.ID), util.ErrSelfDeletion)
	assert.ErrorIs(t, svc.DeleteUser(99999, admin.ID), util.ErrUserNotFound)

	require.NoError(t, svc.DeleteUser(target.ID, admin.ID))
	_, err := svc.GetUserByID(target.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	user := createUser(t, db, "Andi", "andi", model.Participant)

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "salah",
		NewPassword: "barubanget",
	})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "rahasia123",
		NewPassword: "barubanget",
	}))

	updated, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("barubanget")))
}
