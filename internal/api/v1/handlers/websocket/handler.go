package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/Vishnu448/chatbot/internal/api/v1/handlers/chat"
	"github.com/Vishnu448/chatbot/internal/api/v1/middleware"
	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/connections"
	chatService "github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/ratelimit"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	ClientSubmit = "submit"
	ClientReset  = "reset"
)

// ClientMessage is a client to server message on the chat WebSocket
type ClientMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts same-origin requests and anything listed in
// ALLOWED_ORIGINS. Without a configured list every origin is accepted.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	allowed := config.GetAllowedOrigins()
	if origin == "" || len(allowed) == 0 {
		return true
	}

	if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
		return true
	}

	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// chatConn is one client's end of the chat channel
type chatConn struct {
	session *chatService.Session
	manager *connections.Manager
	limiter ratelimit.Store
	client  *connections.Client
	ip      string
}

// HandleChatWebSocket streams conversation events to one client and feeds
// its messages to the session. Messages from a client are handled strictly
// in order. Submits count against limiter, keyed by client IP like the
// HTTP submit route; a nil limiter means no limit.
func HandleChatWebSocket(session *chatService.Session, manager *connections.Manager, limiter ratelimit.Store, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error(logger.WEBSOCKET, "Could not upgrade connection: %v", err)
		return
	}

	client := connections.NewClient(conn)
	manager.AddConnection(client)

	cc := &chatConn{
		session: session,
		manager: manager,
		limiter: limiter,
		client:  client,
		ip:      middleware.ClientIP(r),
	}
	logger.Info(logger.WEBSOCKET, "Client connected from %s (%d active)", r.RemoteAddr, manager.GetConnectionCount())

	defer func() {
		manager.RemoveConnection(client)
		conn.Close()
		logger.Info(logger.WEBSOCKET, "Client %s disconnected", r.RemoteAddr)
	}()

	timeouts := manager.GetTimeouts()

	// Set up ping/pong handlers
	conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(timeouts.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(timeouts.WriteWait)
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	if err := client.WriteJSON(connections.HistoryEvent(session.Snapshot()), timeouts.WriteWait); err != nil {
		logger.Warn(logger.WEBSOCKET, "Failed to send history: %v", err)
		return
	}

	// the exchange is committed even if this client disconnects mid-request
	ctx := context.WithoutCancel(r.Context())

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(logger.WEBSOCKET, "Unexpected WebSocket closure: %v", err)
			}
			return
		}

		if err := cc.handleMessage(ctx, payload); err != nil {
			logger.Warn(logger.WEBSOCKET, "Failed to write to client: %v", err)
			return
		}

		// pongs are not processed while an exchange runs
		conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	}
}

// handleMessage returns an error only when writing to the client failed
func (cc *chatConn) handleMessage(ctx context.Context, payload []byte) error {
	wait := cc.manager.GetTimeouts().WriteWait

	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		logger.Debug(logger.WEBSOCKET, "Malformed client message: %v", err)
		return cc.client.WriteJSON(connections.ErrorEvent("malformed message"), wait)
	}

	switch msg.Type {
	case ClientSubmit:
		if err := chat.ValidateMessage(msg.Text); err != nil {
			return cc.client.WriteJSON(connections.ErrorEvent("message too long"), wait)
		}
		if !cc.allowSubmit(ctx) {
			return cc.client.WriteJSON(connections.ErrorEvent("rate limit exceeded"), wait)
		}
		connections.Submit(ctx, cc.session, cc.manager, msg.Text)
		return nil

	case ClientReset:
		cc.session.Reset()
		cc.manager.Broadcast(connections.HistoryEvent(cc.session.Snapshot()))
		return nil

	default:
		logger.Debug(logger.WEBSOCKET, "Unknown client message type %q", msg.Type)
		return cc.client.WriteJSON(connections.ErrorEvent("unknown message type: "+msg.Type), wait)
	}
}

// allowSubmit fails open when the counter backend errors, as the HTTP
// rate limit middleware does
func (cc *chatConn) allowSubmit(ctx context.Context) bool {
	if cc.limiter == nil {
		return true
	}

	allowed, err := cc.limiter.Allow(ctx, cc.ip)
	if err != nil {
		logger.Error(logger.WEBSOCKET, "Rate limit check failed for %s: %v", cc.ip, err)
		return true
	}
	if !allowed {
		logger.Warn(logger.WEBSOCKET, "Rate limit exceeded for %s on chat_submit", cc.ip)
	}
	return allowed
}
