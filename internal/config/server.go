package config

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"MedlyChatbot/internal/api/chat"
	chatHandler "MedlyChatbot/internal/api/chat/handler"
	chatService "MedlyChatbot/internal/api/chat/service"
	"MedlyChatbot/internal/middleware"
	"MedlyChatbot/pkg/gemini"
	jwtPkg "MedlyChatbot/pkg/jwt"
	"MedlyChatbot/pkg/knowledge"
	"MedlyChatbot/pkg/nlp"
	"MedlyChatbot/pkg/openai"
	"MedlyChatbot/pkg/redis"
	"MedlyChatbot/pkg/session"
	"MedlyChatbot/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

// closer is any external client that must be released on shutdown.
type closer interface {
	Close() error
}

type Server struct {
	engine       *fiber.App
	env          Env
	log          *logrus.Logger
	middleware   middleware.Middleware
	validator    *validator.Validate
	utils        utils.IUtils
	handlers     []handler
	matcher      nlp.IMatcher
	store        session.ContextStore
	assistant    chatService.Assistant
	sessionToken jwtPkg.ISessionToken
	closers      []closer
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.matcher == nil {
		return nil, fmt.Errorf("knowledge table is required")
	}
	if server.middleware == nil {
		return nil, fmt.Errorf("middleware is required")
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.store == nil {
		server.store = session.NewMemoryStore(server.env.SessionTTL)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithEnv(env Env) ServerOption {
	return func(s *Server) error {
		s.env = env
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithKnowledge compiles table into the matcher used by every request.
func WithKnowledge(table *knowledge.Table) ServerOption {
	return func(s *Server) error {
		matcher, err := table.Matcher(MatcherConfig(s.env))
		if err != nil {
			return fmt.Errorf("failed to compile knowledge table: %w", err)
		}
		s.matcher = matcher
		return nil
	}
}

func WithMatcher(matcher nlp.IMatcher) ServerOption {
	return func(s *Server) error {
		s.matcher = matcher
		return nil
	}
}

func WithContextStore(store session.ContextStore) ServerOption {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithSessionStore picks the context store named by SESSION_STORE.
func WithSessionStore() ServerOption {
	return func(s *Server) error {
		switch s.env.SessionStore {
		case SessionRedis:
			client, err := redis.New(s.env.SessionTTL)
			if err != nil {
				if s.log != nil {
					s.log.Errorf("Failed to connect to Redis: %v", err)
				}
				return fmt.Errorf("failed to create redis context store: %w", err)
			}
			s.store = client
			s.closers = append(s.closers, client)
		default:
			s.store = session.NewMemoryStore(s.env.SessionTTL)
		}
		return nil
	}
}

// WithAssistantClient connects the external model named by LLM_PROVIDER when
// USE_REAL_AI is set. A provider that fails to start is logged and skipped so
// the keyword table keeps serving.
func WithAssistantClient() ServerOption {
	return func(s *Server) error {
		if !s.env.UseRealAI {
			return nil
		}

		var (
			client interface {
				chatService.Assistant
				closer
			}
			err error
		)

		switch s.env.LLMProvider {
		case ProviderOpenAI:
			client, err = openai.NewChatGPT()
		default:
			client, err = gemini.NewGeminiClient()
		}
		if err != nil {
			if s.log != nil {
				s.log.WithFields(logrus.Fields{
					"provider": s.env.LLMProvider,
					"error":    err.Error(),
				}).Warn("Assistant unavailable, serving from the keyword table only")
			}
			return nil
		}

		s.assistant = client
		s.closers = append(s.closers, client)
		return nil
	}
}

func WithAssistant(assistant chatService.Assistant) ServerOption {
	return func(s *Server) error {
		s.assistant = assistant
		return nil
	}
}

// WithSessionTokens signs session tokens with SESSION_TOKEN_SECRET, or with a
// random per-process secret when it is unset.
func WithSessionTokens() ServerOption {
	return func(s *Server) error {
		secret := []byte(s.env.SessionTokenSecret)
		if len(secret) == 0 {
			secret = make([]byte, 32)
			if _, err := rand.Read(secret); err != nil {
				return fmt.Errorf("failed to generate session secret: %w", err)
			}
			if s.log != nil {
				s.log.Warn("SESSION_TOKEN_SECRET is not set, sessions will not survive a restart")
			}
		}
		s.sessionToken = jwtPkg.New(secret, s.env.SessionTTL)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.utils == nil {
			s.utils = utils.New()
		}
		s.middleware = middleware.New(s.log, middleware.Config{
			RateLimit:   s.env.RateLimit,
			RateBurst:   s.env.RateBurst,
			CORSOrigins: s.env.CORSOrigins,
		}, s.sessionToken, s.utils)
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chat Domain
	var opts []chatService.Option
	if s.assistant != nil {
		opts = append(opts, chatService.WithAssistant(s.assistant))
	}

	chatServices := chatService.NewChatService(s.log, s.matcher, s.store, chatService.ChatConfig{
		AssistantName:    s.env.LLMProvider,
		AssistantTimeout: s.env.LLMTimeout,
		SystemPrompt:     chat.SystemPrompt,
	}, opts...)
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, chatServices, s.env.ResponseFormat, s.env.LLMTimeout+5*time.Second)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewCORSMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.handlers = append(s.handlers, chatHandlers)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) App() *fiber.App {
	return s.engine
}

func (s *Server) Run() error {
	port := s.env.AppPort
	if port == "" {
		port = "9292"
	}

	s.log.Infof("Medly chatbot listening on :%s", port)
	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.engine.ShutdownWithContext(ctx)

	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil {
			s.log.Warnf("Failed to close client: %v", cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("Medly Chatbot Server is Running!")
	})
}
