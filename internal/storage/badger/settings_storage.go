package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/pulse/internal/common"
)

// SettingEntry represents a key-value setting stored in BadgerDB.
type SettingEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

type settingsStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSettingsStorage creates a SettingsStore backed by BadgerHold.
func NewSettingsStorage(store *Store, logger *common.Logger) *settingsStorage {
	return &settingsStorage{store: store, logger: logger}
}

func (s *settingsStorage) Get(_ context.Context, key string) (string, error) {
	var entry SettingEntry
	err := s.store.db.Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("setting '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get setting '%s': %w", key, err)
	}
	return entry.Value, nil
}

func (s *settingsStorage) Set(_ context.Context, key, value string) error {
	entry := SettingEntry{Key: key, Value: value}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set setting '%s': %w", key, err)
	}
	return nil
}

func (s *settingsStorage) Delete(_ context.Context, key string) error {
	err := s.store.db.Delete(key, SettingEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete setting '%s': %w", key, err)
	}
	return nil
}
