// Package storage provides the top-level StorageManager over the single
// BadgerHold database holding the calendar cache, follows, and settings.
package storage

import (
	"fmt"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/storage/badger"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*Manager)(nil)

// Manager implements interfaces.StorageManager.
type Manager struct {
	store    *badger.Store
	calendar interfaces.CalendarStore
	follows  interfaces.FollowStore
	settings interfaces.SettingsStore
	logger   *common.Logger
}

// NewManager opens the BadgerHold database and wires the stores.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := badger.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger store: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		store:    store,
		calendar: badger.NewCalendarStorage(store, logger),
		follows:  badger.NewFollowStorage(store, logger),
		settings: badger.NewSettingsStorage(store, logger),
		logger:   logger,
	}, nil
}

func (m *Manager) CalendarStore() interfaces.CalendarStore {
	return m.calendar
}

func (m *Manager) FollowStore() interfaces.FollowStore {
	return m.follows
}

func (m *Manager) SettingsStore() interfaces.SettingsStore {
	return m.settings
}

// Close closes the underlying database.
func (m *Manager) Close() error {
	return m.store.Close()
}
