package middleware

import (
	"time"

	contextPkg "MedlyChatbot/pkg/context"
	"MedlyChatbot/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func newRequestIDMiddleware(u utils.IUtils) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(contextPkg.LocalRequestID)

		if requestID == "" {
			requestID, _ = u.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(contextPkg.LocalRequestID, requestID)
		c.Set(contextPkg.LocalRequestID, requestID)

		return c.Next()
	}
}
