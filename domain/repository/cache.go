package repository

import (
	"context"
	"time"
)

// ICache is a byte cache with TTL semantics. A miss is reported as an error
// from the driver; callers treat any cache failure as a miss.
type ICache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
