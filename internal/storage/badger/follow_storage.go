package badger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/models"
)

// FollowsKey is the versioned key for the followed-stock list. It is
// independent of the calendar cache key: the two records have no cross-key
// consistency requirement.
const FollowsKey = "followed_stocks_v1"

type followStorage struct {
	store  *Store
	logger *common.Logger
}

// NewFollowStorage creates a FollowStore backed by BadgerHold.
func NewFollowStorage(store *Store, logger *common.Logger) *followStorage {
	return &followStorage{store: store, logger: logger}
}

// GetFollows reads the followed-stock list. An absent or corrupt record
// yields an empty list rather than an error: the follow set starts empty.
func (s *followStorage) GetFollows(_ context.Context) (*models.FollowList, error) {
	var record BlobRecord
	err := s.store.db.Get(FollowsKey, &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return &models.FollowList{}, nil
		}
		return nil, fmt.Errorf("failed to read followed stocks: %w", err)
	}

	var list models.FollowList
	if err := json.Unmarshal([]byte(record.Value), &list); err != nil {
		s.logger.Warn().Err(err).Msg("Followed-stock list is malformed, starting empty")
		return &models.FollowList{}, nil
	}

	return &list, nil
}

// SaveFollows overwrites the full followed-stock list.
func (s *followStorage) SaveFollows(_ context.Context, list *models.FollowList) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize followed stocks: %w", err)
	}

	record := BlobRecord{Key: FollowsKey, Value: string(data)}
	if err := s.store.db.Upsert(FollowsKey, &record); err != nil {
		return fmt.Errorf("failed to save followed stocks: %w", err)
	}

	s.logger.Debug().Int("stocks", len(list.Stocks)).Msg("Followed stocks saved")
	return nil
}
