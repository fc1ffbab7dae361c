package config

import (
	"github.com/Vishnu448/chatbot/pkg/logger"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// GetOpenAIKey returns the key used against the completion API
func GetOpenAIKey() string {
	value := GetEnvOrDefault("OPENAI_KEY", "")
	if value == "" {
		logger.Warn(logger.CONFIG, "OPENAI_KEY environment variable not set")
	}
	return value
}

// GetOpenAIBaseURL returns an override for the completion API base URL. Any
// OpenAI-compatible endpoint works, including Gemini's compatibility layer.
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", DefaultOpenAIModel)
}
