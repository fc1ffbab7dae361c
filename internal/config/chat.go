package config

import (
	"time"
)

// RetryConfig controls how often a rate-limited completion is retried
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

func GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: parseEnvInt("RETRY_MAX_ATTEMPTS", 3),
		BaseDelay:   parseEnvDuration("RETRY_BASE_DELAY", 2*time.Second),
	}
}

// GetChatGreeting returns an override for the greeting that opens every
// conversation, or an empty string to keep the built-in one.
func GetChatGreeting() string {
	return GetEnvOrDefault("CHAT_GREETING", "")
}

// GetChatSystemPrompt returns an override for the priming instruction, or an
// empty string to keep the built-in one.
func GetChatSystemPrompt() string {
	return GetEnvOrDefault("CHAT_SYSTEM_PROMPT", "")
}

func GetMaxMessageLength() int {
	return parseEnvInt("MAX_MESSAGE_LENGTH", 4000)
}
