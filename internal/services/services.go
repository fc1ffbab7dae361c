package services

import (
	"fmt"
	"sync"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/infrastructure/openai"
	"github.com/Vishnu448/chatbot/internal/infrastructure/redis"
	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/Vishnu448/chatbot/internal/services/ratelimit"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	chatSession      *chat.Session
	redisService     *redis.Service
	rateLimitService *ratelimit.Service
}

// InitializeServices initializes all required services
func InitializeServices() (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Initialize OpenAI service (required)
	openAIService := openai.NewService()
	if openAIService == nil {
		return nil, fmt.Errorf("failed to initialize OpenAI service: OPENAI_KEY is required")
	}
	log.Info().Str("model", openAIService.Model()).Msg("Completion service ready")

	// Initialize Redis service (optional)
	redisService := redis.NewService()
	log.Info().Bool("redis", redisService != nil).Msg("Initializing Redis service")

	s := NewServices(openAIService, redisService)

	log.Info().Msg("All services initialized successfully")
	return s, nil
}

// NewServices wires the services around an existing completer
func NewServices(completer chat.Completer, redisService *redis.Service) *Services {
	return &Services{
		chatSession:      NewChatSession(completer),
		redisService:     redisService,
		rateLimitService: ratelimit.NewService(redisService),
	}
}

// NewChatSession creates a conversation configured from the environment
func NewChatSession(completer chat.Completer) *chat.Session {
	retry := config.GetRetryConfig()

	opts := []chat.Option{
		chat.WithRetryPolicy(chat.RetryPolicy{
			MaxAttempts: retry.MaxAttempts,
			BaseDelay:   retry.BaseDelay,
		}),
		chat.WithGreeting(config.GetChatGreeting()),
	}

	prompt := models.DefaultSystemPrompt()
	if custom := config.GetChatSystemPrompt(); custom != "" {
		prompt.SetCustom(custom)
	}
	opts = append(opts, chat.WithSystemPrompt(prompt))

	return chat.NewSession(completer, opts...)
}

// GetChatSession returns the conversation served by this process
func (s *Services) GetChatSession() *chat.Session {
	return s.chatSession
}

// GetRateLimitService returns the rate limit service
func (s *Services) GetRateLimitService() *ratelimit.Service {
	return s.rateLimitService
}

// Close releases external connections
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
