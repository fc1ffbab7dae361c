package handlers

import (
	_ "embed"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var indexHTML []byte

// HandleIndex serves the browser chat page
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	log.Debug().
		Str("client_ip", r.RemoteAddr).
		Str("user_agent", r.UserAgent()).
		Msg("Chat page requested")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if _, err := w.Write(indexHTML); err != nil {
		log.Warn().Err(err).Msg("Failed to write chat page")
	}
}
