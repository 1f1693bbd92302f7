package repository

import (
	"fmt"
	"testing"

	"go-shop-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newUserRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func TestUserRepoUpdatePersistsPasswordReset(t *testing.T) {
	repo := NewUserRepo(newUserRepoDB(t))

	user := &model.User{
		Email:    "reset@example.com",
		FullName: "Reset Target",
		IsActive: true,
		Role:     model.RoleAdmin,
	}
	require.NoError(t, user.SetPassword("oldpass123"))
	require.NoError(t, repo.Create(user))

	require.NoError(t, user.SetPassword("newpass123"))
	require.NoError(t, repo.Update(user))

	got, err := repo.FindByEmail("reset@example.com")
	require.NoError(t, err)
	assert.True(t, got.CheckPassword("newpass123"))
	assert.False(t, got.CheckPassword("oldpass123"))
}
