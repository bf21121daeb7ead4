// Package follow manages the followed-stock list and its notification
// preferences.
package follow

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// Compile-time interface check
var _ interfaces.FollowService = (*Service)(nil)

// Service implements FollowService
type Service struct {
	storage  interfaces.StorageManager
	notifier interfaces.Notifier
	logger   *common.Logger
}

// NewService creates a new follow service. notifier may be nil when no
// notification capability is available.
func NewService(storage interfaces.StorageManager, notifier interfaces.Notifier, logger *common.Logger) *Service {
	return &Service{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
	}
}

// Toggle adds ticker with default notification flags (both true), or
// removes it if already followed. The full list is persisted after every
// toggle. Following a first stock triggers a one-time permission request
// when the capability's permission state is still undetermined; denial or
// a prior grant causes no prompt.
func (s *Service) Toggle(ctx context.Context, ticker string) (*models.FollowList, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	list, err := s.storage.FollowStore().GetFollows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get followed stocks: %w", err)
	}

	_, idx := list.FindByTicker(ticker)
	if idx >= 0 {
		list.Stocks = append(list.Stocks[:idx], list.Stocks[idx+1:]...)
		s.logger.Info().Str("ticker", ticker).Msg("Stock unfollowed")
	} else {
		list.Stocks = append(list.Stocks, models.FollowedStock{
			Ticker:          ticker,
			NotifyOnDay:     true,
			NotifyDayBefore: true,
		})
		s.logger.Info().Str("ticker", ticker).Msg("Stock followed")
		s.maybeRequestPermission(ctx)
	}

	if err := s.storage.FollowStore().SaveFollows(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to save followed stocks: %w", err)
	}

	return list, nil
}

// SetFlags updates the notification flags for a followed ticker. Nil flags
// are left unchanged.
func (s *Service) SetFlags(ctx context.Context, ticker string, notifyOnDay, notifyDayBefore *bool) (*models.FollowList, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	list, err := s.storage.FollowStore().GetFollows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get followed stocks: %w", err)
	}

	stock, idx := list.FindByTicker(ticker)
	if idx < 0 {
		return nil, fmt.Errorf("ticker '%s' is not followed", ticker)
	}

	if notifyOnDay != nil {
		stock.NotifyOnDay = *notifyOnDay
	}
	if notifyDayBefore != nil {
		stock.NotifyDayBefore = *notifyDayBefore
	}

	if err := s.storage.FollowStore().SaveFollows(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to save followed stocks: %w", err)
	}

	s.logger.Info().Str("ticker", ticker).Msg("Notification flags updated")
	return list, nil
}

// List returns the current followed-stock list.
func (s *Service) List(ctx context.Context) (*models.FollowList, error) {
	list, err := s.storage.FollowStore().GetFollows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get followed stocks: %w", err)
	}
	return list, nil
}

// maybeRequestPermission asks for delivery permission only while the state
// is undetermined. Failures are absorbed: a missing capability never blocks
// a follow.
func (s *Service) maybeRequestPermission(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if s.notifier.Permission(ctx) != models.PermissionUndetermined {
		return
	}

	state, err := s.notifier.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Notification permission request failed")
		return
	}
	s.logger.Info().Str("permission", string(state)).Msg("Notification permission resolved")
}
