package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/services/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleToken(t *testing.T) {
	restore := config.SetJWTSecret([]byte("handler-secret"))
	defer restore()

	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{"anonymous grant", `{"grant_type": "anonymous"}`, http.StatusOK, ""},
		{"unsupported grant", `{"grant_type": "client_credentials"}`, http.StatusBadRequest, "unsupported_grant_type"},
		{"malformed body", `{"grant_type":`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/oauth/token", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			HandleToken(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedError != "" {
				var errResp map[string]string
				require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedError, errResp["error"])
				return
			}

			var resp TokenResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.InDelta(t, 900, resp.ExpiresIn, 5)

			validation := oauth.ValidateToken(resp.AccessToken)
			assert.True(t, validation.Valid)
			assert.True(t, validation.HasScope(config.ScopeChatWrite))
		})
	}
}
