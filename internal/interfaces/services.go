package interfaces

import (
	"context"

	"github.com/bobmcallan/pulse/internal/models"
)

// CalendarService owns the refresh/cache state machine and the current
// calendar state.
type CalendarService interface {
	// Refresh settles the state into the freshest available data. With
	// force false, a cache younger than the freshness threshold is adopted
	// without a provider call; otherwise the provider is invoked, the new
	// snapshot persisted, and the state updated. On fetch failure the prior
	// events are preserved and the error surfaced in the returned state.
	Refresh(ctx context.Context, force bool) (*models.CalendarState, error)

	// State returns a snapshot of the current calendar state.
	State() *models.CalendarState
}

// FollowService tracks which tickers the user follows.
type FollowService interface {
	// Toggle adds the ticker with default notification flags, or removes it
	// if already followed. The full list is persisted after every toggle.
	Toggle(ctx context.Context, ticker string) (*models.FollowList, error)

	// SetFlags updates the notification flags for a followed ticker.
	// Nil flags are left unchanged.
	SetFlags(ctx context.Context, ticker string, notifyOnDay, notifyDayBefore *bool) (*models.FollowList, error)

	// List returns the current followed-stock list.
	List(ctx context.Context) (*models.FollowList, error)
}

// NotifyService matches followed stocks against the current event list and
// fires due notifications.
type NotifyService interface {
	// Check fires at most one "today" and one "day before" notification per
	// followed stock per invocation. It is a no-op (not an error) when the
	// capability is unavailable or permission is not granted. Returns the
	// notifications fired.
	Check(ctx context.Context, events []models.EarningsEvent, follows *models.FollowList) ([]models.Notification, error)
}
