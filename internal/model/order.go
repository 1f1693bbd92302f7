package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentSBP  PaymentMethod = "sbp"
	PaymentCash PaymentMethod = "cash"
)

// OrderStatusTransitions is the allowed from -> to table. Delivered and
// cancelled are terminal; a cancelled order cannot be reopened.
var OrderStatusTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether the status change is in the allowed table.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range OrderStatusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Order struct {
	BaseModel
	UserID uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User       `json:"user,omitempty" validate:"-"`
	Status OrderStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`

	// Cached at creation from item snapshots, never recomputed live
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	// Contact information
	FullName string `gorm:"type:varchar(255);not null" json:"full_name" validate:"required"`
	Email    string `gorm:"type:varchar(255);not null" json:"email" validate:"required,email"`
	Phone    string `gorm:"type:varchar(20);not null" json:"phone" validate:"required"`

	// Delivery information (address required for courier)
	DeliveryMethod  DeliveryMethod `gorm:"type:varchar(20);not null" json:"delivery_method" validate:"required,oneof=courier pickup"`
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required,oneof=card sbp cash"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// OrderItem stores the variation price as a snapshot taken at order
// creation, so historical orders are immune to later catalog changes.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null" json:"product_id"`
	Product     *Product          `json:"product,omitempty"`
	VariationID uuid.UUID         `gorm:"type:uuid;not null" json:"variation_id"`
	Variation   *ProductVariation `json:"variation,omitempty"`
	Quantity    int               `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"price"`
}
