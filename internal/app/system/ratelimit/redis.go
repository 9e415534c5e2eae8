package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store shared by every instance pointing at the same server.
// Each key is an INCR counter that expires one window after its first hit.
type Redis struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedis returns a Redis-backed Store. prefix namespaces the keys (e.g. "spothub:login:ip:").
func NewRedis(client *redis.Client, prefix string, limit int, window time.Duration) *Redis {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow sends INCR and EXPIRE NX in one MULTI/EXEC, so a counter never
// exists without a TTL. NX keeps the window anchored at the first hit.
func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *Redis) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
