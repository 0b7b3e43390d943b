package chat

import "MedlyChatbot/pkg/response"

var (
	ErrEmptyMessage   = response.NewError(400, "Empty message")
	ErrMessageTooLong = response.NewError(400, "Message too long")
	ErrServerError    = response.NewError(500, "Server Error")
)
