package service

import (
	"errors"

	"go-shop-api/internal/apperr"
	"go-shop-api/internal/model"
	"go-shop-api/internal/policy"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService interface {
	ListProducts(categoryID *uuid.UUID) ([]model.Product, error)
	SearchProducts(query string) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetAvailableVariations(productID uuid.UUID) ([]model.ProductVariation, error)
	CreateProduct(p policy.Principal, req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(p policy.Principal, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error)
	DeleteProduct(p policy.Principal, id uuid.UUID) error
	AddImage(p policy.Principal, productID uuid.UUID, req *AddImageRequest) (*model.ProductImage, error)
}

type VariationInput struct {
	ColorName   string          `json:"color_name" validate:"required"`
	ColorHex    string          `json:"color_hex" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
}

type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	CategoryID  uuid.UUID        `json:"category_id" validate:"uuid_required"`
	IsAvailable *bool            `json:"is_available"`
	Variations  []VariationInput `json:"variations" validate:"dive"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	IsAvailable *bool            `json:"is_available"`
	Variations  []VariationInput `json:"variations" validate:"dive"` // replaces the full set when present
}

type AddImageRequest struct {
	VariationID *uuid.UUID
	Path        string
	SortOrder   int
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, db *gorm.DB) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		db:           db,
	}
}

func (s *productService) ListProducts(categoryID *uuid.UUID) ([]model.Product, error) {
	if categoryID != nil {
		return s.productRepo.FindByCategory(*categoryID)
	}
	return s.productRepo.FindAll()
}

func (s *productService) SearchProducts(query string) ([]model.Product, error) {
	return s.productRepo.Search(query)
}

func (s *productService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product %s not found", id)
		}
		return nil, err
	}
	return product, nil
}

// GetAvailableVariations returns only purchasable variations; a product
// with nothing for sale yields an empty slice, not an error.
func (s *productService) GetAvailableVariations(productID uuid.UUID) ([]model.ProductVariation, error) {
	if _, err := s.GetProduct(productID); err != nil {
		return nil, err
	}
	return s.productRepo.FindAvailableVariations(productID)
}

func (s *productService) CreateProduct(p policy.Principal, req *CreateProductRequest) (*model.Product, error) {
	if !policy.CanManageCatalog(p) {
		return nil, apperr.Forbidden("only admins may manage the catalog")
	}

	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}
	for _, v := range req.Variations {
		if !v.Price.IsPositive() {
			return nil, apperr.Validation("variation price must be positive")
		}
	}

	// 2. Category must exist
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		return nil, apperr.NotFound("category %s not found", req.CategoryID)
	}

	// 3. Name uniqueness
	if existing, _ := s.productRepo.FindByName(req.Name); existing != nil {
		return nil, apperr.Conflict("product with name %q already exists", req.Name)
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		IsAvailable: boolOrDefault(req.IsAvailable, true),
	}

	// 4. Persist product and variations as one unit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return err
		}
		for _, v := range req.Variations {
			variation := model.ProductVariation{
				ProductID:   product.ID,
				ColorName:   v.ColorName,
				ColorHex:    v.ColorHex,
				Price:       v.Price,
				IsAvailable: boolOrDefault(v.IsAvailable, true),
			}
			if err := tx.Create(&variation).Error; err != nil {
				return err
			}
			product.Variations = append(product.Variations, variation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(p policy.Principal, id uuid.UUID, req *UpdateProductRequest) (*model.Product, error) {
	if !policy.CanManageCatalog(p) {
		return nil, apperr.Forbidden("only admins may manage the catalog")
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != product.Name {
		if existing, _ := s.productRepo.FindByName(*req.Name); existing != nil && existing.ID != id {
			return nil, apperr.Conflict("product with name %q already exists", *req.Name)
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return nil, apperr.NotFound("category %s not found", *req.CategoryID)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	for _, v := range req.Variations {
		if !v.Price.IsPositive() {
			return nil, apperr.Validation("variation price must be positive")
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variations", "Images").Save(product).Error; err != nil {
			return err
		}
		// A provided variation list replaces the existing set wholesale
		if req.Variations != nil {
			if err := tx.Delete(&model.ProductVariation{}, "product_id = ?", id).Error; err != nil {
				return err
			}
			product.Variations = nil
			for _, v := range req.Variations {
				variation := model.ProductVariation{
					ProductID:   id,
					ColorName:   v.ColorName,
					ColorHex:    v.ColorHex,
					Price:       v.Price,
					IsAvailable: boolOrDefault(v.IsAvailable, true),
				}
				if err := tx.Create(&variation).Error; err != nil {
					return err
				}
				product.Variations = append(product.Variations, variation)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(p policy.Principal, id uuid.UUID) error {
	if !policy.CanManageCatalog(p) {
		return apperr.Forbidden("only admins may manage the catalog")
	}

	if _, err := s.GetProduct(id); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.Delete(tx, id)
	})
}

func (s *productService) AddImage(p policy.Principal, productID uuid.UUID, req *AddImageRequest) (*model.ProductImage, error) {
	if !policy.CanManageCatalog(p) {
		return nil, apperr.Forbidden("only admins may manage the catalog")
	}

	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	// An image bound to a variation must reference one of this product's own
	if req.VariationID != nil {
		found := false
		for _, v := range product.Variations {
			if v.ID == *req.VariationID {
				found = true
				break
			}
		}
		if !found {
			return nil, apperr.Validation("variation %s does not belong to product %s", *req.VariationID, productID)
		}
	}

	image := &model.ProductImage{
		ProductID:   productID,
		VariationID: req.VariationID,
		Path:        req.Path,
		SortOrder:   req.SortOrder,
	}
	if err := s.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
