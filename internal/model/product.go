package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Description string    `gorm:"type:text" json:"description"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category    *Category `json:"category,omitempty" validate:"-"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`

	Variations []ProductVariation `gorm:"constraint:OnDelete:CASCADE" json:"variations,omitempty"`
	Images     []ProductImage     `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// ProductVariation is the purchasable unit. Product itself carries no price.
type ProductVariation struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ColorName   string          `gorm:"type:varchar(100);not null" json:"color_name" validate:"required"`
	ColorHex    string          `gorm:"type:varchar(7);not null" json:"color_hex" validate:"required"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`
}

// ProductImage may belong to the product generally (VariationID nil) or to
// one specific variation.
type ProductImage struct {
	BaseModel
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	VariationID *uuid.UUID `gorm:"type:uuid;index" json:"variation_id"`
	Path        string     `gorm:"type:varchar(512);not null" json:"path"`
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
}
