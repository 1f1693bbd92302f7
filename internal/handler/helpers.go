package handler

import (
	"go-shop-api/internal/apperr"
	"go-shop-api/internal/middleware"
	"go-shop-api/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getPrincipal extracts the authenticated principal placed in locals by the
// auth middleware.
func getPrincipal(c *fiber.Ctx) policy.Principal {
	p, ok := c.Locals(middleware.PrincipalKey).(policy.Principal)
	if !ok {
		return policy.Principal{}
	}
	return p
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// fail maps a service error to its transport status code.
func fail(c *fiber.Ctx, err error) error {
	status := 500
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = 404
	case apperr.KindConflict:
		status = 409
	case apperr.KindValidation, apperr.KindProductUnavailable:
		status = 400
	case apperr.KindForbidden:
		status = 403
	case apperr.KindUnauthenticated:
		status = 401
	}
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
