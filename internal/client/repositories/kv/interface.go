package kv

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns (nil, nil) when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set upserts value. A zero expiresAt stores the row without expiry.
	Set(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
