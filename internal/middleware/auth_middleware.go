package middleware

import (
	"strings"

	"go-shop-api/internal/model"
	"go-shop-api/internal/policy"
	"go-shop-api/internal/repository"
	"go-shop-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the locals key under which RequireAuth stores the
// resolved principal.
const PrincipalKey = "principal"

// RequireAuth validates the bearer token, checks the account still exists
// and is active, and stores the principal in request locals.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is deactivated"})
		}

		c.Locals(PrincipalKey, policy.Principal{ID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// RequireAuthWS authenticates the websocket upgrade for the order feed.
// Browser websocket clients cannot set request headers, so the token may
// also arrive as a ?token= query parameter.
func RequireAuthWS(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("token")
		if token == "" {
			parts := strings.Split(c.Get("Authorization"), " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				token = parts[1]
			}
		}
		if token == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is deactivated"})
		}

		c.Locals(PrincipalKey, policy.Principal{ID: user.ID, Role: user.Role})
		return c.Next()
	}
}

// RequireAdmin gates a route group to admin principals. RequireAuth must
// run first.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := c.Locals(PrincipalKey).(policy.Principal)
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
		}
		if p.Role != model.RoleAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "Admin privileges required"})
		}
		return c.Next()
	}
}
