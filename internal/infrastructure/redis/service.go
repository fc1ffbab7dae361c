package redis

import (
	"context"
	"strings"
	"time"

	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client *redis.Client
}

// NewService connects to the configured Redis. It returns nil when Redis is
// not configured or cannot be reached, callers fall back to memory.
func NewService() *Service {
	url := config.GetRedisURL()

	if url == "" {
		log.Warn().Msg("Redis URL not configured - service will be unavailable")
		return nil
	}

	options, err := clientOptions(url, config.GetRedisPassword())
	if err != nil {
		log.Error().Err(err).Msg("Invalid Redis URL")
		return nil
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", options.Addr).
			Msg("Failed to establish Redis connection")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", options.Addr).Msg("Connected to Redis")
	return &Service{
		client: client,
	}
}

// clientOptions accepts either a redis:// URL or a bare host:port
func clientOptions(url, password string) (*redis.Options, error) {
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		options, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		if options.Password == "" {
			options.Password = password
		}
		return options, nil
	}

	return &redis.Options{
		Addr:        url,
		Password:    password,
		DB:          0,
		DialTimeout: 2 * time.Second,
	}, nil
}

// IncrWithExpiry increments key and starts its expiration when the key is
// new. It returns the value after the increment.
func (s *Service) IncrWithExpiry(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Critical Redis INCR operation failed")
		return 0, err
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, expiration).Err(); err != nil {
			log.Error().
				Err(err).
				Str("key", key).
				Dur("expiration", expiration).
				Msg("Critical Redis EXPIRE operation failed")
			return count, err
		}
	}

	return count, nil
}

// Ping checks if Redis is accessible
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Service) Close() error {
	return s.client.Close()
}
