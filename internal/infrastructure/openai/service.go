package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/sashabaranov/go-openai"
)

// Service talks to an OpenAI-compatible chat completion API and implements
// chat.Completer
type Service struct {
	mu     sync.RWMutex
	client *openai.Client
	model  string
}

var _ chat.Completer = (*Service)(nil)

// NewService builds the service from the environment. It returns nil when no
// API key is configured.
func NewService() *Service {
	logger.Info(logger.SERVICE, "Initialising OpenAI service")
	key := config.GetOpenAIKey()

	if key == "" {
		logger.Warn(logger.SERVICE, "OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	return NewServiceWithConfig(key, config.GetOpenAIBaseURL(), config.GetOpenAIModel())
}

func NewServiceWithConfig(key, baseURL, model string) *Service {
	clientConfig := openai.DefaultConfig(key)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = config.DefaultOpenAIModel
	}

	logger.Info(logger.SERVICE, "Using completion model %s", model)
	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Model is the model every completion is requested with
func (s *Service) Model() string {
	return s.model
}

// Complete sends history followed by messages and returns the first choice.
// Provider "too many requests" failures are wrapped with chat.ErrRateLimited.
func (s *Service) Complete(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: toOpenAIMessages(history, messages),
	}

	logger.Debug(logger.SERVICE, "Requesting completion with %d messages", len(req.Messages))

	resp, err := s.GetClient().CreateChatCompletion(ctx, req)
	if err != nil {
		if isRateLimited(err) {
			return "", fmt.Errorf("%w: %v", chat.ErrRateLimited, err)
		}
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	logger.Debug(logger.SERVICE, "Completion used %d tokens", resp.Usage.TotalTokens)
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(history []models.Content, messages []models.Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(history)+len(messages))
	for _, entry := range history {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(entry.Role),
			Content: entry.Text(),
		})
	}
	for _, msg := range messages {
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    toOpenAIRole(msg.Role),
			Content: msg.Text,
		})
	}
	return openaiMessages
}

func toOpenAIRole(role models.Role) string {
	switch role {
	case models.RoleModel:
		return openai.ChatMessageRoleAssistant
	case models.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}

	return false
}
