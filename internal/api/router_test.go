package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/connections"
	"github.com/Vishnu448/chatbot/internal/services"
	"github.com/Vishnu448/chatbot/internal/services/chat"
	"github.com/Vishnu448/chatbot/internal/services/chat/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	restore := config.SetJWTSecret([]byte("router-secret"))
	t.Cleanup(restore)

	completer := chat.CompleterFunc(func(ctx context.Context, history []models.Content, messages ...models.Message) (string, error) {
		return "echo: " + messages[len(messages)-1].Text, nil
	})
	svcs := services.NewServices(completer, nil)

	server := httptest.NewServer(NewRouter(svcs, connections.NewManager(connections.DefaultTimeouts)))
	t.Cleanup(server.Close)
	return server
}

func getToken(t *testing.T, serverURL string) string {
	t.Helper()

	resp, err := http.Post(serverURL+"/v1/oauth/token", "application/json", strings.NewReader(`{
		"grant_type": "anonymous"
	}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
	return tokenResp.AccessToken
}

func authorized(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestMainServer(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "false")
	server := newTestServer(t)

	t.Run("chat page", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("chat routes require a token", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/v1/chat/conversation")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("conversation round trip", func(t *testing.T) {
		token := getToken(t, server.URL)

		resp := authorized(t, http.MethodPost, server.URL+"/v1/chat/messages", token, `{"message": "hello"}`)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = authorized(t, http.MethodGet, server.URL+"/v1/chat/conversation", token, "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var conv chat.Conversation
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
		require.Len(t, conv.Turns, 3)
		assert.Equal(t, "echo: hello", conv.Turns[2].Text)

		resp = authorized(t, http.MethodDelete, server.URL+"/v1/chat/conversation", token, "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		require.NoError(t, json.NewDecoder(resp.Body).Decode(&conv))
		assert.Len(t, conv.Turns, 1)
	})

	t.Run("websocket endpoint", func(t *testing.T) {
		token := getToken(t, server.URL)

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/chat/ws?access_token=" + token
		ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer ws.Close()

		var event connections.Event
		require.NoError(t, ws.ReadJSON(&event))
		assert.Equal(t, connections.EventHistory, event.Type)
	})

	t.Run("websocket without a token is rejected", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/chat/ws"
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/nope")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSubmitIsRateLimited(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "true")
	t.Setenv("RATELIMIT_CHAT_SUBMIT", "1")
	server := newTestServer(t)
	token := getToken(t, server.URL)

	resp := authorized(t, http.MethodPost, server.URL+"/v1/chat/messages", token, `{"message": "one"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = authorized(t, http.MethodPost, server.URL+"/v1/chat/messages", token, `{"message": "two"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestWebSocketSubmitSharesHTTPRateLimit(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "true")
	t.Setenv("RATELIMIT_CHAT_SUBMIT", "1")
	server := newTestServer(t)
	token := getToken(t, server.URL)

	resp := authorized(t, http.MethodPost, server.URL+"/v1/chat/messages", token, `{"message": "over http"}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/chat/ws?access_token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()

	var event connections.Event
	require.NoError(t, ws.ReadJSON(&event))
	require.Equal(t, connections.EventHistory, event.Type)

	require.NoError(t, ws.WriteJSON(map[string]string{"type": "submit", "text": "over websocket"}))
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, connections.EventError, event.Type)
	assert.Equal(t, "rate limit exceeded", event.Error)
}

func TestGlobalRateLimit(t *testing.T) {
	t.Setenv("RATELIMIT_ENABLED", "true")
	t.Setenv("RATELIMIT_GLOBAL", "2")
	server := newTestServer(t)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}
