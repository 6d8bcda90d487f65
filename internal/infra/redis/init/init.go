package infra_redis_init

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/shree5k/swipematch/internal/config"
)

func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis ping failed: ", err)
	}

	return client
}
