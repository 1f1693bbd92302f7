package model

import "github.com/google/uuid"

// Category is a node in the catalog hierarchy. The parent link is a plain
// nullable foreign key; tree shape is assembled per request by the catalog
// service, never navigated through back-references.
type Category struct {
	BaseModel
	Name        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `gorm:"type:varchar(512)" json:"image"` // Path to image
	SortOrder   int        `gorm:"default:0" json:"sort_order"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`

	Products []Product `json:"products,omitempty"`
}

// CategoryNode is a category annotated with its ordered subcategories,
// returned by the tree endpoint.
type CategoryNode struct {
	Category
	Subcategories []*CategoryNode `json:"subcategories"`
}
