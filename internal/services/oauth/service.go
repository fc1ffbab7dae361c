package oauth

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ExtractToken reads a Bearer token from the Authorization header, falling
// back to the access_token query parameter that browsers use for WebSockets
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if token := r.URL.Query().Get("access_token"); token != "" {
			return token
		}
		logger.Debug(logger.OAUTH, "No Authorization header found")
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		logger.Warn(logger.OAUTH, "Malformed Authorization header")
		return ""
	}

	return parts[1]
}

type TokenValidationResult struct {
	Valid     bool
	GrantType string
	ExpiresAt time.Time
	Scopes    []string
}

// HasScope reports whether the validated token carries scope
func (r TokenValidationResult) HasScope(scope string) bool {
	return slices.Contains(r.Scopes, scope)
}

type CustomClaims struct {
	jwt.RegisteredClaims
	GrantType string   `json:"gty"`
	Scopes    []string `json:"scp"`
}

// IssueToken signs an access token for grantType carrying scopes
func IssueToken(grantType string, scopes []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(config.GetTokenLifetime())

	claims := CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		GrantType: grantType,
		Scopes:    scopes,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.GetJWTSecret())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Debug(logger.OAUTH, "Issued %s token %s", grantType, claims.ID)
	return signed, expiresAt, nil
}

func ValidateToken(tokenString string) TokenValidationResult {
	result := TokenValidationResult{Valid: false}

	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return config.GetJWTSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		logger.Warn(logger.OAUTH, "Failed to parse token: %v", err)
		return result
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		logger.Warn(logger.OAUTH, "Invalid token claims")
		return result
	}

	if claims.GrantType != config.GrantTypeAnonymous {
		logger.Warn(logger.OAUTH, "Invalid grant type in token: %s", claims.GrantType)
		return result
	}

	result.Valid = true
	result.GrantType = claims.GrantType
	result.Scopes = claims.Scopes
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result
}
