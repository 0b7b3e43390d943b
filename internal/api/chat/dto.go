package chat

import "MedlyChatbot/pkg/nlp"

const (
	FormatRich   = "rich"
	FormatSimple = "simple"
)

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

// RichResponse is the default /chat payload. Card and Carousel are always
// present and null when unused.
type RichResponse struct {
	Text         string           `json:"text"`
	Card         *nlp.ProductRef  `json:"card"`
	Carousel     []nlp.ProductRef `json:"carousel"`
	SessionToken string           `json:"session_token,omitempty"`
}

type SimpleResponse struct {
	Reply        string `json:"reply"`
	SessionToken string `json:"session_token,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
