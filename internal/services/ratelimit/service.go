package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/infrastructure/redis"
	"github.com/Vishnu448/chatbot/pkg/logger"
	"github.com/Vishnu448/chatbot/pkg/ratelimit"
)

// Store decides whether one more hit for key fits in the current window
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisStore counts hits in fixed windows shared by every instance
type RedisStore struct {
	redisService *redis.Service
	name         string
	window       time.Duration
	maxHits      int
}

// MemoryStore keeps token buckets in this process only
type MemoryStore struct {
	limiter *ratelimit.Limiter
}

type Service struct {
	redisService *redis.Service
}

func NewService(redisService *redis.Service) *Service {
	logger.Info(logger.SERVICE, "Initialising rate limit service")

	if redisService != nil {
		// Test Redis connection
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := redisService.Ping(ctx); err != nil {
			logger.Error(logger.SERVICE, "Redis connection failed: %v", err)
			logger.Warn(logger.SERVICE, "Falling back to in-memory rate limits")
			redisService = nil
		} else {
			logger.Info(logger.SERVICE, "Using Redis for rate limit counters")
		}
	} else {
		logger.Info(logger.SERVICE, "Using in-memory rate limit counters")
	}

	return &Service{redisService: redisService}
}

// Store returns the store for a configured limit key, or nil when that limit
// is disabled
func (s *Service) Store(limitKey string) Store {
	cfg := config.GetRateLimitConfig(limitKey)
	if !cfg.Enabled {
		return nil
	}

	if s.redisService != nil {
		return &RedisStore{
			redisService: s.redisService,
			name:         limitKey,
			window:       cfg.Window,
			maxHits:      cfg.MaxHits,
		}
	}
	return NewMemoryStore(cfg.Window, cfg.MaxHits)
}

func NewMemoryStore(window time.Duration, maxHits int) *MemoryStore {
	return &MemoryStore{limiter: ratelimit.NewLimiter(window, maxHits)}
}

func (ms *MemoryStore) Allow(ctx context.Context, key string) (bool, error) {
	return ms.limiter.Allow(key), nil
}

func (rs *RedisStore) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rs.redisService.IncrWithExpiry(ctx, windowKey(rs.name, key, rs.window, time.Now()), rs.window)
	if err != nil {
		return false, err
	}
	return count <= int64(rs.maxHits), nil
}

func windowKey(name, key string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("RateLimit:%s:%s:%d", name, key, now.Truncate(window).Unix())
}
