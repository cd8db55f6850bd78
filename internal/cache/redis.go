package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GTDGit/productdash_api/internal/config"
)

// ErrCacheMiss is returned when no snapshot is stored under a key.
var ErrCacheMiss = redis.Nil

// Hash fields of a stored snapshot.
const (
	fieldProducts = "products"
	fieldSHA      = "sha"
	fieldCachedAt = "cached_at"
)

// RedisClient keeps catalog snapshots as Redis hashes.
type RedisClient struct {
	rdb *redis.Client
}

// NewRedisClient connects to Redis and pings it before returning.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisClient{rdb: rdb}, nil
}

// SaveSnapshot replaces the snapshot under key. The old hash is dropped and
// the new one written with its expiry in a single MULTI/EXEC.
func (r *RedisClient) SaveSnapshot(ctx context.Context, key string, snap Snapshot, ttl time.Duration) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldProducts, snap.Products,
			fieldSHA, snap.SHA,
			fieldCachedAt, snap.CachedAt.Unix(),
		)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

// LoadSnapshot reads the snapshot under key.
func (r *RedisClient) LoadSnapshot(ctx context.Context, key string) (Snapshot, error) {
	vals, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return Snapshot{}, err
	}
	products, ok := vals[fieldProducts]
	if !ok {
		return Snapshot{}, ErrCacheMiss
	}
	cachedAt, _ := strconv.ParseInt(vals[fieldCachedAt], 10, 64)
	return Snapshot{
		Products: []byte(products),
		SHA:      vals[fieldSHA],
		CachedAt: time.Unix(cachedAt, 0),
	}, nil
}

// DeleteSnapshot removes the snapshot under key.
func (r *RedisClient) DeleteSnapshot(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Close closes the Redis connection pool.
func (r *RedisClient) Close() error {
	return r.rdb.Close()
}
