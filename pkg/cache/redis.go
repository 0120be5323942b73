package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewClient connects to Redis and verifies the connection with a short ping.
// Returns nil when the server is unreachable; callers degrade gracefully by
// skipping the cache, so a missing Redis never blocks bookings.
func NewClient(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("redis unreachable, catalog caching disabled")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", addr).Msg("redis connection established")
	return client
}
