package handler

import (
	"go-shop-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: s}
}

// GetOrders lists the principal's orders; admins see every order
// GET /api/v1/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListOrders(getPrincipal(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

// GetOrder fetches one order, owner or admin only
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.orderService.GetOrder(getPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// CreateOrder places a new order for the authenticated principal
// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.CreateOrder(getPrincipal(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(order)
}

// UpdateOrder applies an admin status transition or address change
// PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.orderService.UpdateOrder(getPrincipal(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// GetOrderTotal returns the sum of item snapshots for the order
// GET /api/v1/orders/:id/total
func (h *OrderHandler) GetOrderTotal(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	total, err := h.orderService.GetOrderTotal(getPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total_amount": total})
}

// GetOrderStatus returns the bare status of the order
// GET /api/v1/orders/:id/status
func (h *OrderHandler) GetOrderStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	status, err := h.orderService.GetOrderStatus(getPrincipal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}
