package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/Vishnu448/chatbot/internal/services/ratelimit"
	"github.com/Vishnu448/chatbot/pkg/httpext"
	"github.com/Vishnu448/chatbot/pkg/logger"
)

func RateLimit(rateLimitService *ratelimit.Service, limitKey string) func(http.Handler) http.Handler {
	return RateLimitStore(rateLimitService.Store(limitKey), limitKey)
}

// RateLimitStore limits requests per client IP against an existing store,
// so other entry points can share its counters. A nil store lets every
// request through.
func RateLimitStore(store ratelimit.Store, limitKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			allowed, err := store.Allow(r.Context(), ip)
			if err != nil {
				// Counter backend trouble should not take the chat down
				logger.Error(logger.MIDDLEWARE, "Rate limit check failed for %s on %s: %v", ip, limitKey, err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn(logger.MIDDLEWARE, "Rate limit exceeded for %s on %s", ip, limitKey)
				httpext.JsonError(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP uses X-Forwarded-For if behind proxy, otherwise the remote address
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
