// Package interfaces defines service contracts for Pulse
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/pulse/internal/models"
)

// EarningsClient fetches the upcoming earnings calendar from the AI-backed
// provider. Implementations must tolerate malformed items defensively:
// missing fields are normalized with fallback defaults rather than rejecting
// the whole batch.
type EarningsClient interface {
	// FetchCalendar returns the events and grounding source URLs for the
	// window starting at referenceDate. Fails with a descriptive error on
	// network or parse failure.
	FetchCalendar(ctx context.Context, referenceDate time.Time) (*models.EarningsFetch, error)
}

// Notifier is the injected notification capability. Delivery is
// fire-and-forget with no confirmation required; a missing capability or an
// ungranted permission makes the scheduler a silent no-op.
type Notifier interface {
	// Permission returns the current delivery permission state.
	Permission(ctx context.Context) models.Permission

	// RequestPermission prompts for delivery permission and settles into
	// the new state. Callers only invoke this while undetermined.
	RequestPermission(ctx context.Context) (models.Permission, error)

	// Notify delivers one notification.
	Notify(ctx context.Context, title, body string) error
}
