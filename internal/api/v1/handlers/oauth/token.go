package oauth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/services/oauth"
	"github.com/Vishnu448/chatbot/pkg/httpext"
	"github.com/rs/zerolog/log"
)

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

type TokenRequest struct {
	GrantType string `json:"grant_type"`
}

var anonymousScopes = []string{config.ScopeChatRead, config.ScopeChatWrite}

// HandleToken issues access tokens. Only the anonymous grant exists: the
// chat has a single conversation and no user accounts.
func HandleToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid request body",
		})
		return
	}

	if req.GrantType != config.GrantTypeAnonymous {
		log.Warn().Str("grant_type", req.GrantType).Msg("Unsupported grant type requested")
		httpext.JsonErrorWithDetails(w, http.StatusBadRequest, httpext.ErrorResponse{
			Error:            "unsupported_grant_type",
			ErrorDescription: "Only the anonymous grant type is supported",
		})
		return
	}

	token, expiresAt, err := oauth.IssueToken(req.GrantType, anonymousScopes)
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue token")
		httpext.JsonError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	log.Info().
		Str("client_ip", r.RemoteAddr).
		Str("grant_type", req.GrantType).
		Msg("Access token issued")

	httpext.JsonResponse(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
		Scope:       config.ScopeChatRead + " " + config.ScopeChatWrite,
	})
}
