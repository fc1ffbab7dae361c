package connections

import (
	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
)

const (
	EventHistory = "history"
	EventWorking = "working"
	EventTurn    = "turn"
	EventError   = "error"
)

// Event is a server to client message on the chat WebSocket. Every event
// but errors carries the full conversation so clients can simply re-render.
type Event struct {
	Type         string             `json:"type"`
	Turn         *models.Turn       `json:"turn,omitempty"`
	Conversation *chat.Conversation `json:"conversation,omitempty"`
	Error        string             `json:"error,omitempty"`
}

func HistoryEvent(conv chat.Conversation) Event {
	return Event{Type: EventHistory, Conversation: &conv}
}

func WorkingEvent(conv chat.Conversation) Event {
	return Event{Type: EventWorking, Conversation: &conv}
}

func TurnEvent(turn models.Turn, conv chat.Conversation) Event {
	return Event{Type: EventTurn, Turn: &turn, Conversation: &conv}
}

func ErrorEvent(message string) Event {
	return Event{Type: EventError, Error: message}
}
