package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pos/backend/internal/infrastructure/config"
)

// RedisSyncLock guards sync passes against overlap. Only one pass per named
// resource may run at a time across all instances; the TTL bounds how long a
// crashed pass can hold its lock.
type RedisSyncLock struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSyncLock creates a new Redis-backed sync lock
func NewRedisSyncLock(cfg *config.RedisConfig, ttl time.Duration) (*RedisSyncLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncLock{
		client:    client,
		keyPrefix: "sync:lock:",
		ttl:       ttl,
	}, nil
}

// NewRedisSyncLockWithClient creates a lock with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisSyncLockWithClient(client *redis.Client, ttl time.Duration) *RedisSyncLock {
	return &RedisSyncLock{
		client:    client,
		keyPrefix: "sync:lock:",
		ttl:       ttl,
	}
}

// Acquire attempts to take the lock for the named resource.
// Returns true if the lock was taken, false if another pass holds it.
// Uses SETNX with TTL for an atomic take-with-expiry.
func (l *RedisSyncLock) Acquire(ctx context.Context, name string) (bool, error) {
	taken, err := l.client.SetNX(ctx, l.keyPrefix+name, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock %q: %w", name, err)
	}
	return taken, nil
}

// Release frees the lock for the named resource.
func (l *RedisSyncLock) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, l.keyPrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock %q: %w", name, err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}
