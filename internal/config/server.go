package config

import "strings"

func GetListenAddr() string {
	return GetEnvOrDefault("LISTEN_ADDR", ":8080")
}

// GetAllowedOrigins returns the origins allowed to open the chat WebSocket.
// An empty list allows any origin.
func GetAllowedOrigins() []string {
	origins := strings.Split(GetEnvOrDefault("ALLOWED_ORIGINS", ""), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return cleanEmptyStrings(origins)
}

// Helper function to clean empty strings from slices
func cleanEmptyStrings(slice []string) []string {
	result := make([]string, 0)
	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
