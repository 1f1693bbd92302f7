package handler

import (
	"go-shop-api/internal/model"
	"go-shop-api/internal/service"
	"go-shop-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	catalogService service.CatalogService
}

func NewCategoryHandler(s service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: s}
}

// GetCategories returns a flat listing, optionally filtered by parent
// GET /api/v1/categories?parent_id=...&roots=true
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	var parentID *uuid.UUID
	if raw := c.Query("parent_id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid parent_id"})
		}
		parentID = &id
	}

	categories, err := h.catalogService.ListCategories(parentID, c.QueryBool("roots"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}

// GetTree returns the recursive category forest
// GET /api/v1/categories/tree
func (h *CategoryHandler) GetTree(c *fiber.Ctx) error {
	tree, err := h.catalogService.GetTree()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tree)
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	category, err := h.catalogService.GetCategory(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var category model.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.catalogService.CreateCategory(getPrincipal(c), &category); err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(category)
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	var req service.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	category, err := h.catalogService.UpdateCategory(getPrincipal(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := h.catalogService.DeleteCategory(getPrincipal(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}

// UploadImage stores a category image and records its path
// POST /api/v1/categories/:id/image (multipart)
func (h *CategoryHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Image file is required"})
	}

	path, err := storage.SaveImage(c, file, "categories")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store image"})
	}

	category, err := h.catalogService.SetCategoryImage(getPrincipal(c), id, path)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(category)
}
