package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ConnectRedis returns nil when redis cannot be reached; callers treat a nil
// client as "no cache, local-only events".
func ConnectRedis(cfg RedisConfig) *redis.Client {
	var client *redis.Client

	if cfg.Mode == "sentinel" {
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    cfg.Sentinels,
			Password:         cfg.Password,
			SentinelPassword: cfg.Password,
			DB:               0,
		})
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       0,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Warn().Err(err).Str("mode", cfg.Mode).Msg("Failed to connect to Redis, running without cache")
		_ = client.Close()
		return nil
	}

	log.Info().Str("mode", cfg.Mode).Str("pong", pong).Msg("Redis connected")
	return client
}
