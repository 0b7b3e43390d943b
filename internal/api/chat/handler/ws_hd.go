package chatHandler

import (
	"context"
	"errors"

	"MedlyChatbot/internal/api/chat"
	"MedlyChatbot/internal/middleware"
	contextPkg "MedlyChatbot/pkg/context"
	"MedlyChatbot/pkg/handlerUtil"
	"MedlyChatbot/pkg/log"
	"MedlyChatbot/pkg/response"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

// ChatSocket answers each text frame {"message": ...} with the same payload
// POST /chat would return. The session token, when one was issued during the
// upgrade, rides on the first reply only. Every frame is charged to the
// client's rate limit bucket.
func (h *ChatHandler) ChatSocket(conn *websocket.Conn) {
	defer conn.Close()

	requestID, _ := conn.Locals(contextPkg.LocalRequestID).(string)
	sessionID, _ := conn.Locals(contextPkg.LocalSessionID).(string)
	token, _ := conn.Locals(contextPkg.LocalNewSession).(string)
	clientIP, _ := conn.Locals(contextPkg.LocalClientIP).(string)

	base := contextPkg.WithRequestID(context.Background(), requestID)
	base = contextPkg.WithSessionID(base, sessionID)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"session_id": sessionID,
	}).Info("Chat socket opened")

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithFields(log.Fields{
					"request_id": requestID,
					"error":      err.Error(),
				}).Warn("Chat socket closed unexpectedly")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var payload interface{}
		if h.middleware.Allow(clientIP) {
			payload = h.answerFrame(base, data)
		} else {
			h.log.WithField("request_id", requestID).Warnf("too many chat frames for IP %s", clientIP)
			payload = chat.ErrorResponse{Error: middleware.ErrTooManyRequests.Error()}
		}
		if token != "" {
			switch p := payload.(type) {
			case chat.RichResponse:
				p.SessionToken, token = token, ""
				payload = p
			case chat.SimpleResponse:
				p.SessionToken, token = token, ""
				payload = p
			}
		}

		out, err := jsoniter.Marshal(payload)
		if err != nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to encode chat socket reply")
			return
		}

		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			h.log.WithFields(log.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to write chat socket reply")
			return
		}
	}
}

func (h *ChatHandler) answerFrame(base context.Context, data []byte) interface{} {
	requestID := contextPkg.GetRequestID(base)

	var req chat.ChatRequest
	if err := jsoniter.Unmarshal(data, &req); err != nil {
		return chat.ErrorResponse{Error: chat.ErrEmptyMessage.Error()}
	}
	if err := h.validator.Struct(req); err != nil {
		return chat.ErrorResponse{Error: handlerUtil.ValidationError(err).Error()}
	}

	c, cancel := context.WithTimeout(base, h.requestTimeout)
	defer cancel()

	reply, err := h.chatService.Reply(c, contextPkg.GetSessionID(base), req.Message)
	if err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) && respErr.Code < 500 {
			return chat.ErrorResponse{Error: respErr.Error()}
		}

		log.ErrorWithTraceID(log.Fields{
			log.RequestIDKey: requestID,
			"error":          err.Error(),
			"operation":      "chat_socket_reply",
		}, "Unexpected error")
		return chat.ErrorResponse{Error: chat.ErrServerError.Error()}
	}

	return h.render(reply, "")
}
