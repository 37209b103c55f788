package middleware

import (
	"strings"

	"produk/internal/models"

	"github.com/gofiber/fiber/v2"
)

const roleLocalKey = "userRole"

// Authenticate resolves the caller role from the X-User-Role header and
// stores it in the request locals. The header is a trusted signal: there
// is no token to verify, only the two role literals, case-insensitively.
// Anything else is an authentication failure.
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := strings.ToLower(c.Get("X-User-Role"))
		if role != string(models.RoleAdmin) && role != string(models.RoleUser) {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Success: false,
				Message: "Authentication required",
				Error: models.ErrorDetail{
					Code:    models.CodeUnauthorized,
					Details: "X-User-Role header is missing or invalid",
				},
			})
		}
		c.Locals(roleLocalKey, models.Role(role))
		return c.Next()
	}
}

// RequireAdmin rejects any caller whose resolved role is not admin.
// Must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if RoleFromCtx(c) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{
				Success: false,
				Message: "You do not have permission to perform this action",
				Error: models.ErrorDetail{
					Code:    models.CodeForbidden,
					Details: "Admin role required for this operation",
				},
			})
		}
		return c.Next()
	}
}

// RoleFromCtx returns the role Authenticate stored for this request.
func RoleFromCtx(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(roleLocalKey).(models.Role)
	return role
}
