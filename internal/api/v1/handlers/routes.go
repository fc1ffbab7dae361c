package handlers

import (
	"net/http"

	v1chat "github.com/Vishnu448/chatbot/internal/api/v1/handlers/chat"
	v1oauth "github.com/Vishnu448/chatbot/internal/api/v1/handlers/oauth"
	v1ws "github.com/Vishnu448/chatbot/internal/api/v1/handlers/websocket"
	v1mware "github.com/Vishnu448/chatbot/internal/api/v1/middleware"
	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/connections"
	"github.com/Vishnu448/chatbot/internal/services"
	"github.com/gorilla/mux"
)

func RegisterV1Routes(router *mux.Router, services *services.Services, manager *connections.Manager) {
	session := services.GetChatSession()
	limiter := services.GetRateLimitService()

	// v1 routes
	v1 := router.PathPrefix("/v1").Subrouter()

	// OAuth v1 routes (no auth required)
	v1oauthRouter := v1.PathPrefix("/oauth").Subrouter()
	v1oauthRouter.Handle("/token", v1mware.RateLimit(limiter, "oauth_token")(http.HandlerFunc(v1oauth.HandleToken))).Methods("POST")

	// Protected v1 chat routes (require auth)
	v1chatRouter := v1.PathPrefix("/chat").Subrouter()
	v1chatRouter.Use(v1mware.RequireAuth())

	v1readRouter := v1chatRouter.NewRoute().Subrouter()
	v1readRouter.Use(v1mware.RequireScope(config.ScopeChatRead))
	v1readRouter.HandleFunc("/conversation", func(w http.ResponseWriter, r *http.Request) {
		v1chat.HandleGetConversation(session, w, r)
	}).Methods("GET")

	// HTTP and WebSocket submits share one chat_submit counter
	submitLimit := limiter.Store("chat_submit")

	v1writeRouter := v1chatRouter.NewRoute().Subrouter()
	v1writeRouter.Use(v1mware.RequireScope(config.ScopeChatWrite))
	v1writeRouter.Handle("/messages", v1mware.RateLimitStore(submitLimit, "chat_submit")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v1chat.HandleSubmitMessage(session, manager, w, r)
	}))).Methods("POST")
	v1writeRouter.HandleFunc("/conversation", func(w http.ResponseWriter, r *http.Request) {
		v1chat.HandleResetConversation(session, manager, w, r)
	}).Methods("DELETE")
	v1writeRouter.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		v1ws.HandleChatWebSocket(session, manager, submitLimit, w, r)
	}).Methods("GET")
}
