package service

import (
	"errors"

	"go-shop-api/internal/apperr"
	"go-shop-api/internal/model"
	"go-shop-api/internal/policy"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListCategories(parentID *uuid.UUID, rootsOnly bool) ([]model.Category, error)
	GetCategory(id uuid.UUID) (*model.Category, error)
	GetTree() ([]*model.CategoryNode, error)
	CreateCategory(p policy.Principal, req *model.Category) error
	UpdateCategory(p policy.Principal, id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(p policy.Principal, id uuid.UUID) error
	SetCategoryImage(p policy.Principal, id uuid.UUID, path string) (*model.Category, error)
}

// UpdateCategoryRequest patches only the fields that are present. A nil
// ParentID means "leave the parent alone"; ClearParent detaches the
// category back to root.
type UpdateCategoryRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	SortOrder   *int       `json:"sort_order"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ClearParent bool       `json:"clear_parent"`
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{categoryRepo: categoryRepo}
}

func (s *catalogService) ListCategories(parentID *uuid.UUID, rootsOnly bool) ([]model.Category, error) {
	if parentID != nil {
		return s.categoryRepo.FindByParent(*parentID)
	}
	if rootsOnly {
		return s.categoryRepo.FindRoots()
	}
	return s.categoryRepo.FindAll()
}

func (s *catalogService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %s not found", id)
		}
		return nil, err
	}
	return category, nil
}

// GetTree assembles the ordered forest from a single query: all categories
// go into one indexed arena, an adjacency index maps parent id to children,
// and roots come out in sort order. An empty store yields an empty forest.
func (s *catalogService) GetTree() ([]*model.CategoryNode, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}

	nodes := make(map[uuid.UUID]*model.CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &model.CategoryNode{
			Category:      categories[i],
			Subcategories: []*model.CategoryNode{},
		}
	}

	// Categories arrive globally ordered, so per-parent append order is the
	// per-level order too
	forest := []*model.CategoryNode{}
	for i := range categories {
		node := nodes[categories[i].ID]
		if categories[i].ParentID == nil {
			forest = append(forest, node)
			continue
		}
		parent, ok := nodes[*categories[i].ParentID]
		if !ok {
			// Dangling parent reference; surface the node at root level
			// rather than dropping it
			forest = append(forest, node)
			continue
		}
		parent.Subcategories = append(parent.Subcategories, node)
	}

	return forest, nil
}

func (s *catalogService) CreateCategory(p policy.Principal, req *model.Category) error {
	if !policy.CanManageCatalog(p) {
		return apperr.Forbidden("only admins may manage the catalog")
	}

	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return apperr.Validation("%s", validator.FirstMessage(errs))
	}

	// 2. Name uniqueness
	if existing, _ := s.categoryRepo.FindByName(req.Name); existing != nil {
		return apperr.Conflict("category with name %q already exists", req.Name)
	}

	// 3. Parent must exist when given
	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(*req.ParentID); err != nil {
			return apperr.NotFound("parent category %s not found", *req.ParentID)
		}
	}

	return s.categoryRepo.Create(req)
}

func (s *catalogService) UpdateCategory(p policy.Principal, id uuid.UUID, req *UpdateCategoryRequest) (*model.Category, error) {
	if !policy.CanManageCatalog(p) {
		return nil, apperr.Forbidden("only admins may manage the catalog")
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		if existing, _ := s.categoryRepo.FindByName(*req.Name); existing != nil && existing.ID != id {
			return nil, apperr.Conflict("category with name %q already exists", *req.Name)
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.ClearParent {
		category.ParentID = nil
	} else if req.ParentID != nil {
		if err := s.checkParentCycle(id, *req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// checkParentCycle walks from the proposed parent up to a root with a
// visited set, rejecting any path that loops back to the category itself.
func (s *catalogService) checkParentCycle(id, parentID uuid.UUID) error {
	if parentID == id {
		return apperr.Validation("category cannot be its own parent")
	}

	visited := map[uuid.UUID]bool{id: true}
	current := parentID
	for {
		if visited[current] {
			return apperr.Validation("parent change would create a category cycle")
		}
		visited[current] = true

		node, err := s.categoryRepo.FindByID(current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("parent category %s not found", current)
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

func (s *catalogService) DeleteCategory(p policy.Principal, id uuid.UUID) error {
	if !policy.CanManageCatalog(p) {
		return apperr.Forbidden("only admins may manage the catalog")
	}

	if _, err := s.GetCategory(id); err != nil {
		return err
	}

	children, err := s.categoryRepo.CountChildren(id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperr.Validation("cannot delete category with subcategories")
	}

	products, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return apperr.Validation("cannot delete category with products")
	}

	return s.categoryRepo.Delete(id)
}

func (s *catalogService) SetCategoryImage(p policy.Principal, id uuid.UUID, path string) (*model.Category, error) {
	if !policy.CanManageCatalog(p) {
		return nil, apperr.Forbidden("only admins may manage the catalog")
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}
	category.Image = path
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}
