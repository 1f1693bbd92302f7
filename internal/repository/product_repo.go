package repository

import (
	"go-shop-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindAll() ([]model.Product, error)
	FindByCategory(categoryID uuid.UUID) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Search(query string) ([]model.Product, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindAvailableVariations(productID uuid.UUID) ([]model.ProductVariation, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Variations").Preload("Images").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByCategory(categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Variations").Preload("Images").
		Where("category_id = ?", categoryID).Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Variations").Preload("Images").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Search(query string) ([]model.Product, error) {
	var products []model.Product
	pattern := "%" + query + "%"
	err := r.db.Preload("Variations").Preload("Images").
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern).
		Find(&products).Error
	return products, err
}

// Delete runs inside the caller's transaction so the product and its owned
// rows disappear as one unit
func (r *productRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if err := tx.Delete(&model.ProductImage{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	if err := tx.Delete(&model.ProductVariation{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) FindAvailableVariations(productID uuid.UUID) ([]model.ProductVariation, error) {
	var variations []model.ProductVariation
	err := r.db.Where("product_id = ? AND is_available = ?", productID, true).
		Order("created_at ASC").Find(&variations).Error
	return variations, err
}
