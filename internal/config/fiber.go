package config

import (
	"errors"

	"MedlyChatbot/internal/api/chat"
	contextPkg "MedlyChatbot/pkg/context"
	"MedlyChatbot/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:               "Medly Chatbot",
			BodyLimit:             64 * 1024,
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			DisableStartupMessage: true,
			JSONEncoder:           jsoniter.Marshal,
			JSONDecoder:           jsoniter.Unmarshal,
			ErrorHandler:          newErrorHandler(),
		})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.WithFields(logrus.Fields{
				"path":  c.Path(),
				"panic": e,
			}).Error("Recovered from panic")
		},
	}))

	return app
}

// newErrorHandler keeps internal detail out of responses: fiber's own errors
// (404, 405, 426) keep their status and message, everything else is a 500.
func newErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
			return c.Status(fiberErr.Code).JSON(chat.ErrorResponse{Error: fiberErr.Message})
		}

		requestID, _ := c.Locals(contextPkg.LocalRequestID).(string)
		log.ErrorWithTraceID(log.Fields{
			log.RequestIDKey: requestID,
			"path":           c.Path(),
			"error":          err.Error(),
		}, "Unhandled error")

		return c.Status(fiber.StatusInternalServerError).JSON(chat.ErrorResponse{
			Error: chat.ErrServerError.Error(),
		})
	}
}

func NewValidator() *validator.Validate {
	return validator.New()
}
