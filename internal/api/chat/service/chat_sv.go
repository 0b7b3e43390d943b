package chatService

import (
	"context"
	"errors"
	"time"

	"MedlyChatbot/internal/api/chat"
	"MedlyChatbot/internal/entity"
	contextPkg "MedlyChatbot/pkg/context"
	"MedlyChatbot/pkg/fallback"
	"MedlyChatbot/pkg/nlp"

	"github.com/sirupsen/logrus"
)

func (s *chatService) Reply(ctx context.Context, sessionID string, message string) (*entity.Reply, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if message == "" {
		return nil, chat.ErrEmptyMessage
	}

	if s.assistant != nil {
		if text, ok := s.askAssistant(ctx, message); ok {
			return &entity.Reply{Text: text, Source: entity.ReplySourceModel}, nil
		}
	}

	last := s.loadContext(ctx, sessionID)

	res, err := s.matcher.Match(message, last, s.newRand())
	if errors.Is(err, nlp.ErrNoMatch) {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
		}).Debug("No intent matched, using fallback")

		return &entity.Reply{
			Text:   fallback.Reply(message),
			Intent: "fallback",
			Source: entity.ReplySourceFallback,
		}, nil
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Intent matching failed")
		return nil, err
	}

	if res.Remember != nil {
		s.saveContext(ctx, sessionID, *res.Remember)
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"intent":     res.Intent,
		"score":      res.Score,
		"source":     res.Source,
	}).Debug("Intent matched")

	reply := &entity.Reply{
		Text:     res.Text,
		Intent:   res.Intent,
		Card:     res.Card,
		Carousel: res.Carousel,
		Source:   entity.ReplySourceTable,
	}
	if res.Source == nlp.SourceShortcut {
		reply.Source = entity.ReplySourceShortcut
	}
	return reply, nil
}

// askAssistant never propagates a model failure; false sends the caller down
// the keyword path.
func (s *chatService) askAssistant(ctx context.Context, message string) (string, bool) {
	requestID := contextPkg.GetRequestID(ctx)

	c, cancel := context.WithTimeout(ctx, s.config.AssistantTimeout)
	defer cancel()

	start := time.Now()
	text, err := s.assistant.Reply(c, s.config.SystemPrompt, message)
	latency := time.Since(start)

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"provider":   s.config.AssistantName,
			"latency_ms": latency.Milliseconds(),
			"timeout":    errors.Is(err, context.DeadlineExceeded) || errors.Is(c.Err(), context.DeadlineExceeded),
			"error":      err.Error(),
		}).Warn("Assistant call failed, falling back to keyword table")
		return "", false
	}
	if text == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"provider":   s.config.AssistantName,
		}).Warn("Assistant returned an empty reply, falling back to keyword table")
		return "", false
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"provider":   s.config.AssistantName,
		"latency_ms": latency.Milliseconds(),
	}).Debug("Assistant replied")
	return text, true
}

func (s *chatService) loadContext(ctx context.Context, sessionID string) *nlp.ProductRef {
	if s.store == nil || sessionID == "" {
		return nil
	}

	last, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to load conversation context")
		return nil
	}
	return last
}

func (s *chatService) saveContext(ctx context.Context, sessionID string, product nlp.ProductRef) {
	if s.store == nil || sessionID == "" {
		return
	}

	if err := s.store.Set(ctx, sessionID, product); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": sessionID,
			"error":      err.Error(),
		}).Warn("Failed to store conversation context")
	}
}
