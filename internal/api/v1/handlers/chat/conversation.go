package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/connections"
	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/Vishnu448/chatbot/pkg/httpext"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// use a single instance of Validate, it caches struct info
var validate = validator.New(validator.WithRequiredStructEnabled())

type SubmitRequest struct {
	Message string `json:"message"`
}

type SubmitResponse struct {
	Turn         *models.Turn      `json:"turn"`
	Conversation chat.Conversation `json:"conversation"`
}

// ValidateMessage rejects messages over the configured length. Blank
// messages pass: the session ignores them itself.
func ValidateMessage(message string) error {
	return validate.Var(message, fmt.Sprintf("max=%d", config.GetMaxMessageLength()))
}

func HandleGetConversation(session *chat.Session, w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, session.Snapshot())
}

// HandleSubmitMessage runs one exchange and answers once the reply is
// recorded. Connected WebSocket clients see the same progress as events.
func HandleSubmitMessage(session *chat.Session, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("Client sent malformed JSON request")
		httpext.JsonError(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if err := ValidateMessage(req.Message); err != nil {
		log.Warn().Err(err).Int("length", len(req.Message)).Msg("Request validation failed")
		httpext.JsonError(w, fmt.Sprintf("Message exceeds %d characters", config.GetMaxMessageLength()), http.StatusBadRequest)
		return
	}

	log.Info().
		Int("length", len(req.Message)).
		Str("client_ip", r.RemoteAddr).
		Msg("Received chat message")

	// the exchange is committed even if the client goes away mid-request
	ctx := context.WithoutCancel(r.Context())

	reply, ok := connections.Submit(ctx, session, manager, req.Message)

	resp := SubmitResponse{Conversation: session.Snapshot()}
	if ok {
		resp.Turn = &reply
	}

	httpext.JsonResponse(w, http.StatusOK, resp)

	log.Info().
		Str("client_ip", r.RemoteAddr).
		Bool("recorded", ok).
		Msg("Chat message processed")
}

func HandleResetConversation(session *chat.Session, manager *connections.Manager, w http.ResponseWriter, r *http.Request) {
	session.Reset()

	conv := session.Snapshot()
	if manager != nil {
		manager.Broadcast(connections.HistoryEvent(conv))
	}

	log.Info().Str("client_ip", r.RemoteAddr).Msg("Conversation reset")
	httpext.JsonResponse(w, http.StatusOK, conv)
}
