package service

import (
	"errors"

	"go-shop-api/internal/apperr"
	"go-shop-api/internal/model"
	"go-shop-api/internal/policy"
	"go-shop-api/internal/repository"
	"go-shop-api/internal/ws"
	"go-shop-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	ListOrders(p policy.Principal) ([]model.Order, error)
	GetOrder(p policy.Principal, id uuid.UUID) (*model.Order, error)
	GetOrderTotal(p policy.Principal, id uuid.UUID) (decimal.Decimal, error)
	GetOrderStatus(p policy.Principal, id uuid.UUID) (model.OrderStatus, error)
	CreateOrder(p policy.Principal, req *CreateOrderRequest) (*model.Order, error)
	UpdateOrder(p policy.Principal, id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error)
}

type OrderItemRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"uuid_required"`
	VariationID uuid.UUID `json:"variation_id" validate:"uuid_required"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	FullName        string               `json:"full_name" validate:"required"`
	Email           string               `json:"email" validate:"required,email"`
	Phone           string               `json:"phone" validate:"required"`
	DeliveryMethod  model.DeliveryMethod `json:"delivery_method" validate:"required,oneof=courier pickup"`
	DeliveryAddress string               `json:"delivery_address"`
	PaymentMethod   model.PaymentMethod  `json:"payment_method" validate:"required,oneof=card sbp cash"`
	Items           []OrderItemRequest   `json:"items" validate:"dive"`
}

type UpdateOrderRequest struct {
	Status          *model.OrderStatus `json:"status"`
	DeliveryAddress *string            `json:"delivery_address"`
}

type orderService struct {
	orderRepo repository.OrderRepository
	db        *gorm.DB
	wsHub     *ws.Hub
}

func NewOrderService(orderRepo repository.OrderRepository, db *gorm.DB, hub *ws.Hub) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		db:        db,
		wsHub:     hub,
	}
}

// ListOrders returns every order for admins, only the principal's own
// orders otherwise.
func (s *orderService) ListOrders(p policy.Principal) ([]model.Order, error) {
	if p.IsAdmin() {
		return s.orderRepo.FindAll()
	}
	return s.orderRepo.FindByUser(p.ID)
}

func (s *orderService) GetOrder(p policy.Principal, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", id)
		}
		return nil, err
	}
	if !policy.CanViewOrder(p, order) {
		return nil, apperr.Forbidden("not enough permissions to view this order")
	}
	return order, nil
}

// GetOrderTotal re-sums the stored item snapshots. The result always equals
// the cached total_amount because item prices never change after creation.
func (s *orderService) GetOrderTotal(p policy.Principal, id uuid.UUID) (decimal.Decimal, error) {
	order, err := s.GetOrder(p, id)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range order.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}

func (s *orderService) GetOrderStatus(p policy.Principal, id uuid.UUID) (model.OrderStatus, error) {
	order, err := s.GetOrder(p, id)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}

// CreateOrder validates every item against the live catalog, snapshots the
// variation price per item, and persists the header plus all item rows in
// one transaction. Any failure rolls back everything; a partially itemized
// order is never observable.
func (s *orderService) CreateOrder(p policy.Principal, req *CreateOrderRequest) (*model.Order, error) {
	// 1. Order must contain items
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	// 2. Contact and method fields
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.FirstMessage(errs))
	}

	order := &model.Order{
		UserID:          p.ID,
		Status:          model.StatusCreated,
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 3. Validate items against the catalog, first failure wins.
		// Prices are copied here, at validation time.
		items := make([]model.OrderItem, 0, len(req.Items))
		total := decimal.Zero
		for _, item := range req.Items {
			var variation model.ProductVariation
			if err := tx.First(&variation, "id = ?", item.VariationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.ProductUnavailable("variation %s of product %s does not exist", item.VariationID, item.ProductID)
				}
				return err
			}
			if variation.ProductID != item.ProductID {
				return apperr.ProductUnavailable("variation %s does not belong to product %s", item.VariationID, item.ProductID)
			}
			if !variation.IsAvailable {
				return apperr.ProductUnavailable("variation %s of product %s is not available", item.VariationID, item.ProductID)
			}

			var product model.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.ProductUnavailable("product %s does not exist", item.ProductID)
				}
				return err
			}
			if !product.IsAvailable {
				return apperr.ProductUnavailable("product %s is not available", item.ProductID)
			}

			items = append(items, model.OrderItem{
				ProductID:   item.ProductID,
				VariationID: item.VariationID,
				Quantity:    item.Quantity,
				Price:       variation.Price, // snapshot
			})
			total = total.Add(variation.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		// 4. Courier delivery needs an address
		if req.DeliveryMethod == model.DeliveryCourier && req.DeliveryAddress == "" {
			return apperr.Validation("delivery address is required for courier delivery")
		}

		// 5. Persist header and item rows atomically
		order.TotalAmount = total
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ws.EventOrderCreated, order)
	return order, nil
}

// UpdateOrder applies an admin status transition and/or address change.
// Transitions outside the allowed table are rejected before any mutation.
func (s *orderService) UpdateOrder(p policy.Principal, id uuid.UUID, req *UpdateOrderRequest) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order %s not found", id)
		}
		return nil, err
	}

	if !policy.CanMutateOrder(p, order) {
		return nil, apperr.Forbidden("not enough permissions to update this order")
	}

	statusChanged := false
	if req.Status != nil && *req.Status != order.Status {
		if _, known := model.OrderStatusTransitions[*req.Status]; !known {
			return nil, apperr.Validation("unknown order status %q", *req.Status)
		}
		if !order.Status.CanTransition(*req.Status) {
			return nil, apperr.Validation("status transition %s -> %s is not allowed", order.Status, *req.Status)
		}
		order.Status = *req.Status
		statusChanged = true
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = *req.DeliveryAddress
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":           order.Status,
			"delivery_address": order.DeliveryAddress,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		s.notify(ws.EventOrderStatusChanged, order)
	}
	return order, nil
}

func (s *orderService) notify(eventType string, order *model.Order) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastEvent(ws.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.String(),
	})
}
