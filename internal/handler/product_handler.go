package handler

import (
	"strconv"

	"go-shop-api/internal/service"
	"go-shop-api/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{productService: s}
}

// GetProducts returns all products, optionally filtered by category
// GET /api/v1/products?category_id=...
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid category_id"})
		}
		categoryID = &id
	}

	products, err := h.productService.ListProducts(categoryID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

// SearchProducts matches name or description, case-insensitive
// GET /api/v1/products/search?q=...
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Query parameter 'q' is required"})
	}

	products, err := h.productService.SearchProducts(query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

// GetVariations returns only the purchasable variations of a product
// GET /api/v1/products/:id/variations
func (h *ProductHandler) GetVariations(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	variations, err := h.productService.GetAvailableVariations(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(variations)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.CreateProduct(getPrincipal(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.UpdateProduct(getPrincipal(c), id, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.productService.DeleteProduct(getPrincipal(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// UploadImage stores a product image, optionally bound to one variation
// POST /api/v1/products/:id/images (multipart, fields: image, variation_id, sort_order)
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Image file is required"})
	}

	sortOrder := 0
	if raw := c.FormValue("sort_order"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid sort_order"})
		}
		sortOrder = n
	}

	var variationID *uuid.UUID
	if raw := c.FormValue("variation_id"); raw != "" {
		vid, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid variation_id"})
		}
		variationID = &vid
	}

	path, err := storage.SaveImage(c, file, "products")
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to store image"})
	}

	image, err := h.productService.AddImage(getPrincipal(c), id, &service.AddImageRequest{
		VariationID: variationID,
		Path:        path,
		SortOrder:   sortOrder,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(image)
}
