package middleware

import (
	contextPkg "MedlyChatbot/pkg/context"
	jwtPkg "MedlyChatbot/pkg/jwt"
	"MedlyChatbot/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	Allow(ip string) bool
	NewSessionMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	NewCORSMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
	GetSessionID(ctx *fiber.Ctx) string
	GetIssuedToken(ctx *fiber.Ctx) string
}

type Config struct {
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
}

type middleware struct {
	session             *sessionMiddleware
	rateLimitter        *rateLimiter
	cors                fiber.Handler
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, config Config, tokens jwtPkg.ISessionToken, u utils.IUtils) Middleware {
	if config.RateLimit <= 0 {
		config.RateLimit = 5
	}
	if config.RateBurst < 1 {
		config.RateBurst = 20
	}

	return &middleware{
		session:             newSessionMiddleware(tokens, u),
		rateLimitter:        newRateLimiter(rate.Limit(config.RateLimit), config.RateBurst),
		cors:                newCORS(config.CORSOrigins),
		requestIDMiddleware: newRequestIDMiddleware(u),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(contextPkg.LocalRequestID).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) GetSessionID(ctx *fiber.Ctx) string {
	sessionID, _ := ctx.Locals(contextPkg.LocalSessionID).(string)
	return sessionID
}

// GetIssuedToken returns the token minted for this request, or "" when the
// client already presented a valid one.
func (m *middleware) GetIssuedToken(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(contextPkg.LocalNewSession).(string)
	return token
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}
