package infra_redis_codeset

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Driver mirrors the set of live room codes into redis so operators and
// sibling services can see which codes are in play. The registry's own map
// stays the source of truth.
type Driver struct {
	client *redis.Client
	key    string
}

func New(client *redis.Client, key string) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Add(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return d.client.SAdd(ctx, d.key, code).Err()
}

func (d *Driver) Remove(ctx context.Context, code string) error {
	if code == "" {
		return nil
	}
	return d.client.SRem(ctx, d.key, code).Err()
}

func (d *Driver) Live(ctx context.Context) ([]string, error) {
	return d.client.SMembers(ctx, d.key).Result()
}
