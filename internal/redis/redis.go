package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

// InitRedis connects the shared client. Returns the client so callers can wire
// it into components that take one explicitly.
func InitRedis(redisAddress string, redisUsername string, redisPassword string) *redis.Client {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", redisAddress).Msg("redis not reachable yet")
	}
	return Rdb
}
