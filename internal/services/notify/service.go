// Package notify matches followed stocks against the current event list and
// fires due notifications through the injected capability.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// Compile-time interface check
var _ interfaces.NotifyService = (*Service)(nil)

// Service implements NotifyService
type Service struct {
	notifier interfaces.Notifier
	logger   *common.Logger
	now      func() time.Time
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithClock overrides the wall clock (used in tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new notification service. notifier may be nil when
// no capability is available; Check is then a silent no-op.
func NewService(notifier interfaces.Notifier, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs once per successful data load. For each followed stock it
// considers the first event matching its ticker and fires a "reports today"
// and/or "reports tomorrow" notification per the stock's flags. The two
// conditions are independent. Repeated checks on the same day re-fire;
// there is no notified-set de-duplication across invocations.
func (s *Service) Check(ctx context.Context, events []models.EarningsEvent, follows *models.FollowList) ([]models.Notification, error) {
	if s.notifier == nil {
		return nil, nil
	}
	if s.notifier.Permission(ctx) != models.PermissionGranted {
		return nil, nil
	}
	if follows == nil || len(follows.Stocks) == 0 {
		return nil, nil
	}

	now := s.now()
	today := localDate(now, 0)
	tomorrow := localDate(now, 1)

	var fired []models.Notification
	for _, stock := range follows.Stocks {
		event := firstMatch(events, stock.Ticker)
		if event == nil {
			continue
		}

		if event.Date == today && stock.NotifyOnDay {
			n := s.fire(ctx, *event, models.NotifyToday,
				fmt.Sprintf("%s reports earnings today", event.Ticker),
				fmt.Sprintf("%s (%s) reports earnings today (%s).", event.CompanyName, event.Ticker, reportTimeLabel(event.Time)))
			fired = append(fired, n)
		}

		if event.Date == tomorrow && stock.NotifyDayBefore {
			n := s.fire(ctx, *event, models.NotifyTomorrow,
				fmt.Sprintf("%s reports tomorrow", event.Ticker),
				fmt.Sprintf("%s (%s) reports earnings tomorrow (%s).", event.CompanyName, event.Ticker, reportTimeLabel(event.Time)))
			fired = append(fired, n)
		}
	}

	if len(fired) > 0 {
		s.logger.Info().Int("fired", len(fired)).Msg("Notification check complete")
	}

	return fired, nil
}

// fire delivers one notification. Delivery is fire-and-forget: a delivery
// error is logged, never propagated.
func (s *Service) fire(ctx context.Context, event models.EarningsEvent, kind models.NotificationKind, title, body string) models.Notification {
	notification := models.Notification{
		ID:     uuid.NewString(),
		Ticker: event.Ticker,
		Kind:   kind,
		Title:  title,
		Body:   body,
		SentAt: s.now(),
	}

	if err := s.notifier.Notify(ctx, title, body); err != nil {
		s.logger.Warn().Err(err).Str("ticker", event.Ticker).Msg("Notification delivery failed")
	}

	return notification
}

// firstMatch returns the first event for ticker in list order. When a fetch
// contains the same ticker on multiple dates, only the first encountered is
// considered.
func firstMatch(events []models.EarningsEvent, ticker string) *models.EarningsEvent {
	for i := range events {
		if events[i].Ticker == ticker {
			return &events[i]
		}
	}
	return nil
}

// localDate formats the calendar date daysAhead days after t in t's
// location. Day arithmetic is on calendar components, not a 24-hour offset,
// so daylight-saving transitions cannot skew the boundary.
func localDate(t time.Time, daysAhead int) string {
	year, month, day := t.Date()
	return time.Date(year, month, day+daysAhead, 0, 0, 0, 0, t.Location()).Format(models.DateLayout)
}

func reportTimeLabel(t models.ReportTime) string {
	switch t {
	case models.ReportTimeBeforeOpen:
		return "before market open"
	case models.ReportTimeAfterClose:
		return "after market close"
	default:
		return "time TBD"
	}
}
