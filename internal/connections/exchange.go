package connections

import (
	"context"

	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
)

// Submit runs one exchange on session and keeps every client registered
// with manager in step: a working event once the exchange starts, then the
// reply. Both are sent from inside the exchange, so events for queued
// submits never overtake the one in flight. A nil manager just submits.
func Submit(ctx context.Context, session *chat.Session, manager *Manager, message string) (models.Turn, bool) {
	if manager == nil {
		return session.Submit(ctx, message)
	}

	reply, ok := session.SubmitObserved(ctx, message, chat.Observer{
		Pending: func(conv chat.Conversation) {
			manager.Broadcast(WorkingEvent(conv))
		},
		Committed: func(reply models.Turn, conv chat.Conversation) {
			manager.Broadcast(TurnEvent(reply, conv))
		},
	})
	if !ok {
		manager.Broadcast(HistoryEvent(session.Snapshot()))
	}
	return reply, ok
}
