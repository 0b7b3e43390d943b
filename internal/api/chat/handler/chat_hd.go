package chatHandler

import (
	"context"

	"MedlyChatbot/internal/api/chat"
	"MedlyChatbot/internal/entity"
	contextPkg "MedlyChatbot/pkg/context"
	"MedlyChatbot/pkg/handlerUtil"
	"MedlyChatbot/pkg/log"
	"MedlyChatbot/pkg/response"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func (h *ChatHandler) Chat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing chat request")

	var req chat.ChatRequest
	if err := jsoniter.Unmarshal(ctx.Body(), &req); err != nil {
		return errHandler.Handle(ctx, requestID, chat.ErrEmptyMessage, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	reply, err := h.chatService.Reply(c, h.middleware.GetSessionID(ctx), req.Message)
	if err != nil {
		if c.Err() != nil && response.StatusOf(err) == fiber.StatusInternalServerError {
			return errHandler.HandleRequestTimeout(ctx)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "chat_reply")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"intent":     reply.Intent,
		"source":     reply.Source.String(),
	}).Debug("Chat reply ready")

	// a reply that made it back is sent even if the deadline passed meanwhile
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.render(reply, h.middleware.GetIssuedToken(ctx)))
}

// Preflight answers a bare OPTIONS /chat. Requests carrying CORS preflight
// headers are already answered by the CORS middleware.
func (h *ChatHandler) Preflight(ctx *fiber.Ctx) error {
	ctx.Status(fiber.StatusOK)
	return nil
}

func (h *ChatHandler) render(reply *entity.Reply, token string) interface{} {
	if h.format == chat.FormatSimple {
		return chat.SimpleResponse{
			Reply:        reply.Text,
			SessionToken: token,
		}
	}

	return chat.RichResponse{
		Text:         reply.Text,
		Card:         reply.Card,
		Carousel:     reply.Carousel,
		SessionToken: token,
	}
}
