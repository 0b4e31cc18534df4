package cache

import (
	"context"
	"time"

	"weather-outfit/internal/models"
)

// Store holds generated suggestions by request key hash. A key is either
// absent, pending (reserved by one generator) or complete. Pending entries
// are invisible to Get.
type Store interface {
	Get(ctx context.Context, key string) (models.Suggestion, bool, error)
	// Reserve marks key as pending if it is absent. It returns false when the
	// key is already pending or complete.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Set stores a completed suggestion, replacing a pending marker. A zero ttl never expires.
	Set(ctx context.Context, key string, s models.Suggestion, ttl time.Duration) error
	// Release drops a pending marker so another caller can retry.
	Release(ctx context.Context, key string) error
}
