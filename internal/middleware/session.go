package middleware

import (
	contextPkg "MedlyChatbot/pkg/context"
	jwtPkg "MedlyChatbot/pkg/jwt"
	"MedlyChatbot/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type sessionMiddleware struct {
	tokens jwtPkg.ISessionToken
	utils  utils.IUtils
}

func newSessionMiddleware(tokens jwtPkg.ISessionToken, u utils.IUtils) *sessionMiddleware {
	return &sessionMiddleware{tokens: tokens, utils: u}
}

// NewSessionMiddleware resolves the conversation a request belongs to. A
// missing or invalid token starts a new conversation instead of failing the
// request. Browsers cannot set headers on a websocket upgrade, so the token
// may also come as ?token=.
func (m *middleware) NewSessionMiddleware(ctx *fiber.Ctx) error {
	if m.session.tokens == nil {
		return ctx.Next()
	}

	raw, err := jwtPkg.BearerToken(ctx)
	if err != nil {
		raw = ctx.Query("token")
	}

	if raw != "" {
		sessionID, err := m.session.tokens.Verify(raw)
		if err == nil {
			ctx.Locals(contextPkg.LocalSessionID, sessionID)
			return ctx.Next()
		}

		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"error":      err.Error(),
		}).Debug("Session token rejected, starting a new session")
	}

	sessionID := m.session.utils.NewSessionID()
	token, err := m.session.tokens.Sign(sessionID)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to issue session token, continuing without context")
		return ctx.Next()
	}

	ctx.Locals(contextPkg.LocalSessionID, sessionID)
	ctx.Locals(contextPkg.LocalNewSession, token)

	return ctx.Next()
}
