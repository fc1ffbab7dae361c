package api

import (
	"net/http"

	v1handlers "github.com/Vishnu448/chatbot/internal/api/v1/handlers"
	v1mware "github.com/Vishnu448/chatbot/internal/api/v1/middleware"
	"github.com/Vishnu448/chatbot/internal/connections"
	"github.com/Vishnu448/chatbot/internal/services"
	"github.com/Vishnu448/chatbot/pkg/httpext"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/gorilla/mux"
)

// NewRouter mounts the browser page and the v1 API. Every request counts
// against the global rate limit.
func NewRouter(services *services.Services, manager *connections.Manager) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogger)
	router.Use(v1mware.RateLimit(services.GetRateLimitService(), "global"))

	router.HandleFunc("/", v1handlers.HandleIndex).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpext.JsonResponse(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"connections": manager.GetConnectionCount(),
		})
	}).Methods("GET")

	v1handlers.RegisterV1Routes(router, services, manager)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpext.JsonError(w, "Not found", http.StatusNotFound)
	})

	return router
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug(logger.HANDLER, "%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
