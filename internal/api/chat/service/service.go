package chatService

import (
	"context"
	"math/rand"
	"time"

	"MedlyChatbot/internal/entity"
	"MedlyChatbot/pkg/nlp"
	"MedlyChatbot/pkg/session"

	"github.com/sirupsen/logrus"
)

type IChatService interface {
	Reply(ctx context.Context, sessionID string, message string) (*entity.Reply, error)
}

// Assistant is an external language model. Implementations must honour ctx
// cancellation.
type Assistant interface {
	Reply(ctx context.Context, systemPrompt string, userText string) (string, error)
}

type ChatConfig struct {
	AssistantName    string
	AssistantTimeout time.Duration
	SystemPrompt     string
}

type chatService struct {
	log       *logrus.Logger
	matcher   nlp.IMatcher
	store     session.ContextStore
	assistant Assistant
	config    ChatConfig
	newRand   func() *rand.Rand
}

type Option func(*chatService)

// WithAssistant enables the external model path. A nil assistant leaves it off.
func WithAssistant(a Assistant) Option {
	return func(s *chatService) {
		s.assistant = a
	}
}

// WithRandSource overrides how response variants are sampled.
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(s *chatService) {
		s.newRand = newRand
	}
}

func NewChatService(
	log *logrus.Logger,
	matcher nlp.IMatcher,
	store session.ContextStore,
	config ChatConfig,
	opts ...Option,
) IChatService {
	if config.AssistantTimeout <= 0 {
		config.AssistantTimeout = 5 * time.Second
	}

	s := &chatService{
		log:     log,
		matcher: matcher,
		store:   store,
		config:  config,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
