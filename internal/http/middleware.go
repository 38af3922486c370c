package http

import (
	"strings"

	"fenview/internal/core"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator validates bearer tokens
type TokenValidator func(token string) (subject string, claims map[string]any, err error)

// AuthRequired rejects requests without a valid bearer token
func AuthRequired(validateToken TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c.Get("Authorization"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "missing authorization token",
				Code:  core.ErrUnauthorized,
			})
		}

		subject, _, err := validateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
				Error: "invalid or expired token",
				Code:  core.ErrUnauthorized,
			})
		}

		c.Locals("subject", subject)
		return c.Next()
	}
}

// contentTypeValidator ensures POST requests carry JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
