package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vishnu448/chatbot/internal/services/chat/models"
)

// ErrRateLimited marks a completion failure the provider reported as "too
// many requests". Completers wrap it so the session can retry.
var ErrRateLimited = errors.New("completion rate limited")

const (
	// UsageLimitMessage replaces the reply once rate-limit retries run out
	UsageLimitMessage = "⚠️ The assistant has reached its API usage limit. Please wait a minute and try again."

	failureMessageFormat = "I'm having trouble processing your request right now. Please try again. (%s)"
)

// Completer is the remote completion capability. It returns the assistant
// reply to messages, sent in order after history.
type Completer interface {
	Complete(ctx context.Context, history []models.Content, messages ...models.Message) (string, error)
}

// CompleterFunc adapts a plain function to Completer
type CompleterFunc func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
	return f(ctx, history, messages...)
}

// FailureMessage is the reply shown when a completion fails for any reason
// other than rate limiting
func FailureMessage(err error) string {
	return fmt.Sprintf(failureMessageFormat, err)
}
