package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newFeedApp mounts the websocket gate in front of a plain handler so the
// auth chain can be exercised without an actual protocol upgrade.
func newFeedApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}))

	app := fiber.New()
	app.Use("/ws", RequireAuthWS(repository.NewUserRepo(db)), RequireAdmin())
	app.Get("/ws", func(c *fiber.Ctx) error {
		return c.SendString("connected")
	})
	return app, db
}

func seedFeedUser(t *testing.T, db *gorm.DB, role model.UserRole, active bool) string {
	t.Helper()
	user := &model.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		FullName: "Feed User",
		IsActive: active,
		Role:     role,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, string(role))
	require.NoError(t, err)
	return token
}

func TestFeedRejectsAnonymous(t *testing.T) {
	app, _ := newFeedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestFeedRejectsInvalidToken(t *testing.T) {
	app, _ := newFeedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token=not-a-jwt", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestFeedRejectsNonAdmin(t *testing.T) {
	app, db := newFeedApp(t)
	token := seedFeedUser(t, db, model.RoleUser, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestFeedRejectsDeactivatedAdmin(t *testing.T) {
	app, db := newFeedApp(t)
	token := seedFeedUser(t, db, model.RoleAdmin, false)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestFeedAcceptsAdminTokenViaQuery(t *testing.T) {
	app, db := newFeedApp(t)
	token := seedFeedUser(t, db, model.RoleAdmin, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestFeedAcceptsAdminTokenViaHeader(t *testing.T) {
	app, db := newFeedApp(t)
	token := seedFeedUser(t, db, model.RoleAdmin, true)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
