package cmd

import (
	"context"

	"github.com/AmateurECE/dev-proxy/backend"
	"github.com/go-redis/redis/v8"
)

// NewRedisClient returns a client for the Redis route source, or nil if none
// is configured.
func NewRedisClient(config *Config) *redis.Client {
	if config.Redis.Address == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Address,
		Password: config.Redis.Password,
	})
}

// RouteTable builds the route table from config.Routes followed by the routes
// stored in Redis. client may be nil, in which case Redis is not consulted.
//
// If no route is defined anywhere, backend.DefaultDefinition is used.
func RouteTable(
	ctx context.Context,
	config *Config,
	client redis.Cmdable,
) (backend.Table, error) {
	defs := append([]backend.Definition(nil), config.Routes...)

	if client != nil {
		redisDefs, err := backend.FromRedis(ctx, client, config.Redis.Key)
		if err != nil {
			return nil, err
		}

		defs = append(defs, redisDefs...)
	}

	if len(defs) == 0 {
		defs = []backend.Definition{backend.DefaultDefinition}
	}

	return backend.New(defs...)
}
