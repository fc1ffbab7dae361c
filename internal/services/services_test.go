package services

import (
	"context"
	"testing"

	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeServicesRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_KEY", "")

	s, err := InitializeServices()
	assert.Nil(t, s)
	assert.Error(t, err)
}

func TestNewChatSessionFromEnvironment(t *testing.T) {
	t.Setenv("CHAT_GREETING", "Hi there, ask away.")
	t.Setenv("CHAT_SYSTEM_PROMPT", "Always answer in haiku.")

	var primed string
	session := NewChatSession(chat.CompleterFunc(func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
		if messages[0].Role == models.RoleSystem {
			primed = messages[0].Text
		}
		return "ok", nil
	}))

	assert.Equal(t, "Hi there, ask away.", session.DisplayLog()[0].Text)

	_, ok := session.Submit(context.Background(), "hello")
	require.True(t, ok)
	assert.Contains(t, primed, "Always answer in haiku.")
}

func TestNewServices(t *testing.T) {
	s := NewServices(chat.CompleterFunc(func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
		return "ok", nil
	}), nil)

	assert.NotNil(t, s.GetChatSession())
	assert.NotNil(t, s.GetRateLimitService())
	assert.NoError(t, s.Close())
}
