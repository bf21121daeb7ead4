package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	CalendarStore() CalendarStore
	FollowStore() FollowStore
	SettingsStore() SettingsStore

	// Lifecycle
	Close() error
}

// CalendarStore persists the last-fetched calendar snapshot. Reads and
// writes are atomic at the single-record granularity; a corrupt or
// missing record surfaces as an error that callers treat as a cache miss.
type CalendarStore interface {
	GetCache(ctx context.Context) (*models.CalendarCache, error)
	SaveCache(ctx context.Context, cache *models.CalendarCache) error
	DeleteCache(ctx context.Context) error
}

// FollowStore persists the followed-stock list, independent of the
// calendar cache.
type FollowStore interface {
	GetFollows(ctx context.Context) (*models.FollowList, error)
	SaveFollows(ctx context.Context, list *models.FollowList) error
}

// SettingsStore is a general key-value store for runtime settings
// (API keys, notification permission state).
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
