package middleware

import (
	"go-vtt-files/internal/apperrors"
	"go-vtt-files/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// GatewayMiddleware checks the token parameter identifying the calling
// service gateway. End-user authentication stays with SessionMiddleware.
func GatewayMiddleware(skipAuth bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if skipAuth {
			return c.Next()
		}

		token := Param(c, "token")
		if token == "" {
			return c.Status(fiber.StatusBadRequest).JSON(apperrors.Response{
				Status: 400, Field: "token", Error: "required",
			})
		}

		if _, err := utils.ValidateGatewayToken(token); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(apperrors.Response{
				Status: 403, Field: "token", Error: "forbidden",
			})
		}
		return c.Next()
	}
}
