package backend

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisKey is the Redis list that routes are read from by default.
const DefaultRedisKey = "devprox:routes"

// FromRedis reads route definitions from the Redis list at key. Each entry is
// in the "<prefix> <target> [description]" form, and list order is route
// order.
//
// The list is read once; later changes to it have no effect on a running
// server.
func FromRedis(ctx context.Context, client redis.Cmdable, key string) ([]Definition, error) {
	entries, err := client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("could not read routes from redis key '%s': %w", key, err)
	}

	defs := make([]Definition, 0, len(entries))
	for _, e := range entries {
		def, err := ParseDefinition(e)
		if err != nil {
			return nil, fmt.Errorf("redis key '%s': %w", key, err)
		}

		defs = append(defs, def)
	}

	return defs, nil
}
