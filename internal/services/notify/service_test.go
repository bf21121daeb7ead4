package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/models"
)

type recordingNotifier struct {
	permission models.Permission
	sent       []string
	notifyErr  error
}

func (n *recordingNotifier) Permission(_ context.Context) models.Permission {
	return n.permission
}

func (n *recordingNotifier) RequestPermission(_ context.Context) (models.Permission, error) {
	n.permission = models.PermissionGranted
	return n.permission, nil
}

func (n *recordingNotifier) Notify(_ context.Context, title, _ string) error {
	n.sent = append(n.sent, title)
	return n.notifyErr
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Jan 15 2025, mid-morning local time.
var checkTime = time.Date(2025, time.January, 15, 10, 30, 0, 0, time.Local)

func followAll(tickers ...string) *models.FollowList {
	list := &models.FollowList{}
	for _, t := range tickers {
		list.Stocks = append(list.Stocks, models.FollowedStock{
			Ticker:          t,
			NotifyOnDay:     true,
			NotifyDayBefore: true,
		})
	}
	return list
}

func TestCheck_FiresTodayNotification(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Date: "2025-01-15", Time: models.ReportTimeAfterClose},
	}

	fired, err := svc.Check(context.Background(), events, followAll("AAPL"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(fired))
	}
	n := fired[0]
	if n.Kind != models.NotifyToday {
		t.Errorf("expected today kind, got %s", n.Kind)
	}
	if n.Ticker != "AAPL" {
		t.Errorf("expected ticker AAPL, got %s", n.Ticker)
	}
	if n.ID == "" {
		t.Error("expected notification ID to be assigned")
	}
	if len(notifier.sent) != 1 {
		t.Errorf("expected 1 delivery, got %d", len(notifier.sent))
	}
}

func TestCheck_FiresTomorrowNotification(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{
		{Ticker: "MSFT", CompanyName: "Microsoft", Date: "2025-01-16", Time: models.ReportTimeBeforeOpen},
	}

	fired, err := svc.Check(context.Background(), events, followAll("MSFT"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(fired) != 1 || fired[0].Kind != models.NotifyTomorrow {
		t.Fatalf("expected a single tomorrow notification, got %+v", fired)
	}
}

func TestCheck_FlagsGateEachKindIndependently(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{
		{Ticker: "AAPL", Date: "2025-01-15"},
		{Ticker: "MSFT", Date: "2025-01-16"},
	}
	follows := &models.FollowList{Stocks: []models.FollowedStock{
		{Ticker: "AAPL", NotifyOnDay: false, NotifyDayBefore: true},
		{Ticker: "MSFT", NotifyOnDay: true, NotifyDayBefore: false},
	}}

	fired, err := svc.Check(context.Background(), events, follows)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(fired) != 0 {
		t.Fatalf("disabled flags must suppress firing, got %+v", fired)
	}
}

func TestCheck_PermissionNotGrantedIsNoOp(t *testing.T) {
	for _, perm := range []models.Permission{models.PermissionUndetermined, models.PermissionDenied} {
		notifier := &recordingNotifier{permission: perm}
		svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

		events := []models.EarningsEvent{{Ticker: "AAPL", Date: "2025-01-15"}}
		fired, err := svc.Check(context.Background(), events, followAll("AAPL"))
		if err != nil {
			t.Fatalf("Check failed: %v", err)
		}
		if fired != nil {
			t.Errorf("permission %s must suppress all notifications", perm)
		}
		if len(notifier.sent) != 0 {
			t.Errorf("permission %s must suppress delivery", perm)
		}
	}
}

func TestCheck_NilNotifierIsNoOp(t *testing.T) {
	svc := NewService(nil, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{{Ticker: "AAPL", Date: "2025-01-15"}}
	fired, err := svc.Check(context.Background(), events, followAll("AAPL"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if fired != nil {
		t.Errorf("nil notifier must be a silent no-op, got %+v", fired)
	}
}

func TestCheck_EmptyFollowsIsNoOp(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{{Ticker: "AAPL", Date: "2025-01-15"}}

	fired, err := svc.Check(context.Background(), events, &models.FollowList{})
	if err != nil || fired != nil {
		t.Fatalf("empty follows must be a no-op, got %+v, %v", fired, err)
	}
	fired, err = svc.Check(context.Background(), events, nil)
	if err != nil || fired != nil {
		t.Fatalf("nil follows must be a no-op, got %+v, %v", fired, err)
	}
}

func TestCheck_FirstMatchWinsOnDuplicateTicker(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	// AAPL appears twice; only the first (today) entry is considered, so a
	// single notification fires even though the second is due tomorrow.
	events := []models.EarningsEvent{
		{Ticker: "AAPL", Date: "2025-01-15"},
		{Ticker: "AAPL", Date: "2025-01-16"},
	}

	fired, err := svc.Check(context.Background(), events, followAll("AAPL"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(fired) != 1 || fired[0].Kind != models.NotifyToday {
		t.Fatalf("expected only first-match today notification, got %+v", fired)
	}
}

func TestCheck_RepeatedChecksReFire(t *testing.T) {
	notifier := &recordingNotifier{permission: models.PermissionGranted}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{{Ticker: "AAPL", Date: "2025-01-15"}}
	follows := followAll("AAPL")

	svc.Check(context.Background(), events, follows)
	svc.Check(context.Background(), events, follows)

	if len(notifier.sent) != 2 {
		t.Errorf("expected re-fire on every check, got %d deliveries", len(notifier.sent))
	}
}

func TestCheck_DeliveryFailureNotFatal(t *testing.T) {
	notifier := &recordingNotifier{
		permission: models.PermissionGranted,
		notifyErr:  fmt.Errorf("delivery unavailable"),
	}
	svc := NewService(notifier, common.NewSilentLogger(), WithClock(fixedClock(checkTime)))

	events := []models.EarningsEvent{{Ticker: "AAPL", Date: "2025-01-15"}}

	fired, err := svc.Check(context.Background(), events, followAll("AAPL"))
	if err != nil {
		t.Fatalf("delivery failure must not surface: %v", err)
	}
	if len(fired) != 1 {
		t.Errorf("notification record kept despite delivery failure, got %d", len(fired))
	}
}

func TestLocalDate_CalendarArithmetic(t *testing.T) {
	// Month rollover.
	base := time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)
	if got := localDate(base, 1); got != "2025-02-01" {
		t.Errorf("expected 2025-02-01, got %s", got)
	}
	// Year rollover.
	base = time.Date(2024, time.December, 31, 8, 0, 0, 0, time.UTC)
	if got := localDate(base, 1); got != "2025-01-01" {
		t.Errorf("expected 2025-01-01, got %s", got)
	}
	if got := localDate(base, 0); got != "2024-12-31" {
		t.Errorf("expected 2024-12-31, got %s", got)
	}
}
