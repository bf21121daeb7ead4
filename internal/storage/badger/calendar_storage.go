package badger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/models"
)

// CacheKey is the versioned cache identifier. Bumping the version
// invalidates all prior-format caches implicitly: the old key simply never
// matches again.
const CacheKey = "earnings_calendar_v2"

// BlobRecord holds one serialized JSON blob under a versioned key.
type BlobRecord struct {
	Key   string `badgerhold:"key"`
	Value string
}

type calendarStorage struct {
	store  *Store
	logger *common.Logger
}

// NewCalendarStorage creates a CalendarStore backed by BadgerHold.
func NewCalendarStorage(store *Store, logger *common.Logger) *calendarStorage {
	return &calendarStorage{store: store, logger: logger}
}

// GetCache reads the last-fetched calendar snapshot. A corrupt blob is
// reported the same way as an absent one so callers fall through to a
// fresh fetch.
func (s *calendarStorage) GetCache(_ context.Context) (*models.CalendarCache, error) {
	var record BlobRecord
	err := s.store.db.Get(CacheKey, &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("calendar cache not found")
		}
		return nil, fmt.Errorf("failed to read calendar cache: %w", err)
	}

	var cache models.CalendarCache
	if err := json.Unmarshal([]byte(record.Value), &cache); err != nil {
		s.logger.Warn().Err(err).Msg("Calendar cache is malformed, treating as miss")
		return nil, fmt.Errorf("calendar cache not found")
	}

	return &cache, nil
}

// SaveCache overwrites the calendar snapshot as one atomic record.
func (s *calendarStorage) SaveCache(_ context.Context, cache *models.CalendarCache) error {
	data, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("failed to serialize calendar cache: %w", err)
	}

	record := BlobRecord{Key: CacheKey, Value: string(data)}
	if err := s.store.db.Upsert(CacheKey, &record); err != nil {
		return fmt.Errorf("failed to save calendar cache: %w", err)
	}

	s.logger.Debug().Int("events", len(cache.Events)).Msg("Calendar cache saved")
	return nil
}

// DeleteCache removes the calendar snapshot.
func (s *calendarStorage) DeleteCache(_ context.Context) error {
	err := s.store.db.Delete(CacheKey, BlobRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete calendar cache: %w", err)
	}
	return nil
}
