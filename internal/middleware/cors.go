package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func newCORS(origins []string) fiber.Handler {
	allowOrigins := "*"
	if len(origins) > 0 {
		allowOrigins = strings.Join(origins, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}, ","),
		AllowHeaders:  strings.Join([]string{fiber.HeaderContentType, fiber.HeaderAuthorization, "X-Request-ID"}, ","),
		ExposeHeaders: "X-Request-ID",
		MaxAge:        600,
	})
}

// NewCORSMiddleware answers preflight requests with 200 instead of fiber's
// default 204 so browser clients and the /chat contract agree.
func (m *middleware) NewCORSMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.cors(c); err != nil {
			return err
		}

		if c.Method() == fiber.MethodOptions && c.Response().StatusCode() == fiber.StatusNoContent {
			c.Response().ResetBody()
			c.Status(fiber.StatusOK)
		}
		return nil
	}
}
