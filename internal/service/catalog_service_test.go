package service

import (
	"testing"

	"go-shop-api/internal/apperr"
	"go-shop-api/internal/model"
	"go-shop-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTreeEmptyStore(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))

	forest, err := service.GetTree()
	require.NoError(t, err)
	assert.Empty(t, forest)
}

func TestGetTreeAttachesSubcategories(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))

	phones := seedCategory(t, db, "Phones", nil, 0)
	seedCategory(t, db, "Phones/Cases", &phones.ID, 0)

	forest, err := service.GetTree()
	require.NoError(t, err)

	require.Len(t, forest, 1)
	assert.Equal(t, "Phones", forest[0].Name)
	require.Len(t, forest[0].Subcategories, 1)
	assert.Equal(t, "Phones/Cases", forest[0].Subcategories[0].Name)
	assert.Empty(t, forest[0].Subcategories[0].Subcategories)
}

func TestGetTreeOrderingAndCompleteness(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))

	second := seedCategory(t, db, "Second", nil, 2)
	first := seedCategory(t, db, "First", nil, 1)
	seedCategory(t, db, "B-Child", &first.ID, 5)
	seedCategory(t, db, "A-Child", &first.ID, 1)
	seedCategory(t, db, "Grandchild", &second.ID, 0)

	forest, err := service.GetTree()
	require.NoError(t, err)

	require.Len(t, forest, 2)
	assert.Equal(t, "First", forest[0].Name)
	assert.Equal(t, "Second", forest[1].Name)

	require.Len(t, forest[0].Subcategories, 2)
	assert.Equal(t, "A-Child", forest[0].Subcategories[0].Name)
	assert.Equal(t, "B-Child", forest[0].Subcategories[1].Name)

	// Every category appears exactly once across the forest
	seen := map[string]int{}
	var walk func(nodes []*model.CategoryNode)
	walk = func(nodes []*model.CategoryNode) {
		for _, node := range nodes {
			seen[node.Name]++
			walk(node.Subcategories)
		}
	}
	walk(forest)
	assert.Len(t, seen, 5)
	for name, count := range seen {
		assert.Equal(t, 1, count, "category %s appears %d times", name, count)
	}
}

func TestCreateCategoryRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, user := seedUser(t, db, model.RoleUser)

	err := service.CreateCategory(user, &model.Category{Name: "Phones"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	require.NoError(t, service.CreateCategory(admin, &model.Category{Name: "Phones"}))

	err := service.CreateCategory(admin, &model.Category{Name: "Phones"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	missing := seedCategory(t, db, "Temp", nil, 0).ID
	require.NoError(t, db.Unscoped().Delete(&model.Category{}, "id = ?", missing).Error)

	err := service.CreateCategory(admin, &model.Category{Name: "Orphan", ParentID: &missing})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteCategoryGuards(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	parent := seedCategory(t, db, "Phones", nil, 0)
	child := seedCategory(t, db, "Cases", &parent.ID, 0)

	// Blocked while a subcategory exists
	err := service.DeleteCategory(admin, parent.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Childless category deletes fine
	require.NoError(t, service.DeleteCategory(admin, child.ID))
	require.NoError(t, service.DeleteCategory(admin, parent.ID))

	_, err = service.GetCategory(parent.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	category := seedCategory(t, db, "Phones", nil, 0)
	seedProduct(t, db, category.ID, "Smartphone X", true)

	err := service.DeleteCategory(admin, category.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	a := seedCategory(t, db, "A", nil, 0)
	b := seedCategory(t, db, "B", &a.ID, 0)

	// Self-parenting
	_, err := service.UpdateCategory(admin, a.ID, &UpdateCategoryRequest{ParentID: &a.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// A -> B -> A
	_, err = service.UpdateCategory(admin, a.ID, &UpdateCategoryRequest{ParentID: &b.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Legitimate reparent still works
	c := seedCategory(t, db, "C", nil, 0)
	updated, err := service.UpdateCategory(admin, b.ID, &UpdateCategoryRequest{ParentID: &c.ID})
	require.NoError(t, err)
	assert.Equal(t, c.ID, *updated.ParentID)
}

func TestListCategoriesParentFilter(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))

	root := seedCategory(t, db, "Root", nil, 0)
	seedCategory(t, db, "Child", &root.ID, 0)

	all, err := service.ListCategories(nil, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	roots, err := service.ListCategories(nil, true)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "Root", roots[0].Name)

	children, err := service.ListCategories(&root.ID, false)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Child", children[0].Name)
}

func TestUpdateCategoryClearParentDetachesToRoot(t *testing.T) {
	db := newTestDB(t)
	service := NewCatalogService(repository.NewCategoryRepo(db))
	_, admin := seedUser(t, db, model.RoleAdmin)

	parent := seedCategory(t, db, "Phones", nil, 0)
	child := seedCategory(t, db, "Cases", &parent.ID, 1)

	updated, err := service.UpdateCategory(admin, child.ID, &UpdateCategoryRequest{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	// Detachment persisted: both categories now sit at root level
	reloaded, err := service.GetCategory(child.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.ParentID)

	forest, err := service.GetTree()
	require.NoError(t, err)
	require.Len(t, forest, 2)
	assert.Empty(t, forest[0].Subcategories)
	assert.Empty(t, forest[1].Subcategories)
}
