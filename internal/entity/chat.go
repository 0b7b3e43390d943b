package entity

import "MedlyChatbot/pkg/nlp"

type ReplySource uint8

const (
	ReplySourceUnknown  ReplySource = 0
	ReplySourceTable    ReplySource = 1
	ReplySourceShortcut ReplySource = 2
	ReplySourceModel    ReplySource = 3
	ReplySourceFallback ReplySource = 4
)

var ReplySourceMap = map[ReplySource]string{
	ReplySourceTable:    "table",
	ReplySourceShortcut: "shortcut",
	ReplySourceModel:    "model",
	ReplySourceFallback: "fallback",
}

func (r ReplySource) String() string {
	if s, ok := ReplySourceMap[r]; ok {
		return s
	}
	return "unknown"
}

// Reply is the answer to one chat message before it is rendered for a
// transport.
type Reply struct {
	Text     string
	Intent   string
	Card     *nlp.ProductRef
	Carousel []nlp.ProductRef
	Source   ReplySource
}
