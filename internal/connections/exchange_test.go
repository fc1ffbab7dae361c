package connections

import (
	"context"
	"testing"

	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/stretchr/testify/assert"
)

func TestSubmit(t *testing.T) {
	session := chat.NewSession(chat.CompleterFunc(
		func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
			return "pong", nil
		}))

	t.Run("without a manager", func(t *testing.T) {
		reply, ok := Submit(context.Background(), session, nil, "ping")
		assert.True(t, ok)
		assert.Equal(t, "pong", reply.Text)
		assert.Len(t, session.DisplayLog(), 3)
	})

	t.Run("with no clients connected", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)

		reply, ok := Submit(context.Background(), session, manager, "ping again")
		assert.True(t, ok)
		assert.Equal(t, "pong", reply.Text)
		assert.Len(t, session.DisplayLog(), 5)
	})

	t.Run("blank message", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)

		_, ok := Submit(context.Background(), session, manager, " \t ")
		assert.False(t, ok)
		assert.Len(t, session.DisplayLog(), 5)
	})
}
