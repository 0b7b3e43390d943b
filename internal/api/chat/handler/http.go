package chatHandler

import (
	"time"

	chatService "MedlyChatbot/internal/api/chat/service"
	"MedlyChatbot/internal/middleware"
	contextPkg "MedlyChatbot/pkg/context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type ChatHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	chatService    chatService.IChatService
	format         string
	requestTimeout time.Duration
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	chatService chatService.IChatService,
	format string,
	requestTimeout time.Duration,
) *ChatHandler {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}

	return &ChatHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		chatService:    chatService,
		format:         format,
		requestTimeout: requestTimeout,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	srv.Options("/chat", h.Preflight)
	srv.Post("/chat", h.middleware.NewRateLimiter, h.middleware.NewSessionMiddleware, h.Chat)

	srv.Get("/ws/chat",
		h.requireUpgrade,
		h.middleware.NewRateLimiter,
		h.middleware.NewSessionMiddleware,
		websocket.New(h.ChatSocket),
	)
}

func (h *ChatHandler) requireUpgrade(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		ctx.Locals(contextPkg.LocalClientIP, ctx.IP())
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}
