package service

import (
	"fmt"
	"testing"

	"go-shop-api/internal/model"
	"go-shop-api/internal/policy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Create DB connection for tests. Each test gets its own in-memory
// database; cache=shared keeps it alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductVariation{},
		&model.ProductImage{},
		&model.Order{},
		&model.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole) (*model.User, policy.Principal) {
	t.Helper()
	user := &model.User{
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		FullName: "Test User",
		IsActive: true,
		Role:     role,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user, policy.Principal{ID: user.ID, Role: role}
}

func seedCategory(t *testing.T, db *gorm.DB, name string, parentID *uuid.UUID, sortOrder int) *model.Category {
	t.Helper()
	category := &model.Category{Name: name, SortOrder: sortOrder, ParentID: parentID}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, name string, available bool) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, CategoryID: categoryID, IsAvailable: available}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedVariation(t *testing.T, db *gorm.DB, productID uuid.UUID, color, price string, available bool) *model.ProductVariation {
	t.Helper()
	variation := &model.ProductVariation{
		ProductID:   productID,
		ColorName:   color,
		ColorHex:    "#000000",
		Price:       decimal.RequireFromString(price),
		IsAvailable: available,
	}
	require.NoError(t, db.Create(variation).Error)
	return variation
}
