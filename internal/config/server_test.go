package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", GetListenAddr())

	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", GetListenAddr())
}

func TestGetAllowedOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"unset allows all", "", []string{}},
		{"single origin", "https://chat.example.com", []string{"https://chat.example.com"}},
		{"trims and drops blanks", " https://a.example.com, ,https://b.example.com ", []string{"https://a.example.com", "https://b.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ALLOWED_ORIGINS", tt.value)
			assert.Equal(t, tt.want, GetAllowedOrigins())
		})
	}
}
