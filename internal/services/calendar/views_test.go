package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/bobmcallan/pulse/internal/models"
)

func viewEvents() []models.EarningsEvent {
	return []models.EarningsEvent{
		{Ticker: "NVDA", CompanyName: "NVIDIA Corp.", Date: "2025-01-08", Time: models.ReportTimeAfterClose},
		{Ticker: "AAPL", CompanyName: "Apple Inc.", Date: "2025-01-02", Time: models.ReportTimeBeforeOpen},
		{Ticker: "MSFT", CompanyName: "Microsoft Corp.", Date: "2025-01-02", Time: models.ReportTimeAfterClose},
		{Ticker: "TSLA", CompanyName: "Tesla Inc.", Date: "2025-01-08", Time: models.ReportTimeUnknown},
		{Ticker: "AMZN", CompanyName: "Amazon.com Inc.", Date: "2025-01-15", Time: models.ReportTimeBeforeOpen},
	}
}

// --- GroupByDate ---

func TestGroupByDate_AscendingKeysAndStableOrder(t *testing.T) {
	buckets := GroupByDate(viewEvents())

	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}

	wantDates := []string{"2025-01-02", "2025-01-08", "2025-01-15"}
	for i, want := range wantDates {
		if buckets[i].Date != want {
			t.Errorf("bucket %d: expected date %s, got %s", i, want, buckets[i].Date)
		}
	}

	// Within a bucket, events keep their source-list order.
	jan2 := buckets[0].Events
	if jan2[0].Ticker != "AAPL" || jan2[1].Ticker != "MSFT" {
		t.Errorf("expected stable partition [AAPL MSFT], got %+v", jan2)
	}
	jan8 := buckets[1].Events
	if jan8[0].Ticker != "NVDA" || jan8[1].Ticker != "TSLA" {
		t.Errorf("expected stable partition [NVDA TSLA], got %+v", jan8)
	}
}

func TestGroupByDate_Idempotent(t *testing.T) {
	events := viewEvents()
	first := GroupByDate(events)
	second := GroupByDate(events)

	if !reflect.DeepEqual(first, second) {
		t.Error("GroupByDate must yield identical buckets on repeated calls")
	}
}

func TestGroupByDate_Empty(t *testing.T) {
	if buckets := GroupByDate(nil); len(buckets) != 0 {
		t.Errorf("expected no buckets for empty input, got %d", len(buckets))
	}
}

func TestEventsOn(t *testing.T) {
	events := EventsOn(viewEvents(), "2025-01-08")
	if len(events) != 2 || events[0].Ticker != "NVDA" || events[1].Ticker != "TSLA" {
		t.Errorf("unexpected events for 2025-01-08: %+v", events)
	}
	if got := EventsOn(viewEvents(), "2025-02-01"); got != nil {
		t.Errorf("expected no events, got %+v", got)
	}
}

// --- BuildCalendarGrid ---

func TestBuildCalendarGrid_MonthStartingWednesday(t *testing.T) {
	// January 2025 starts on a Wednesday: 3 empty leading cells, then
	// dates 1..31, then overflow into February to fill 35 cells.
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	grid := BuildCalendarGrid(viewEvents(), map[string]bool{"MSFT": true}, now)

	if len(grid.Cells) != 35 {
		t.Fatalf("expected 35 cells, got %d", len(grid.Cells))
	}
	if grid.Year != 2025 || grid.Month != 1 {
		t.Errorf("expected 2025-01 grid, got %d-%d", grid.Year, grid.Month)
	}

	for i := 0; i < 3; i++ {
		if !grid.Cells[i].Empty {
			t.Errorf("cell %d: expected empty leading cell", i)
		}
	}

	for day := 1; day <= 31; day++ {
		cell := grid.Cells[2+day]
		if cell.Day != day || !cell.InMonth {
			t.Errorf("cell %d: expected in-month day %d, got %+v", 2+day, day, cell)
		}
	}

	// Trailing cell rolls into February with the correct date.
	last := grid.Cells[34]
	if last.Empty || last.InMonth || last.Date != "2025-02-01" || last.Day != 1 {
		t.Errorf("expected next-month overflow cell 2025-02-01, got %+v", last)
	}
}

func TestBuildCalendarGrid_EventAndFollowFlags(t *testing.T) {
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	grid := BuildCalendarGrid(viewEvents(), map[string]bool{"MSFT": true}, now)

	jan2 := grid.Cells[2+2]
	if len(jan2.Events) != 2 {
		t.Fatalf("expected 2 events on Jan 2, got %d", len(jan2.Events))
	}
	if !jan2.HasFollowed {
		t.Error("Jan 2 holds a followed ticker, expected has-followed")
	}

	jan8 := grid.Cells[2+8]
	if jan8.HasFollowed {
		t.Error("Jan 8 holds no followed ticker")
	}

	jan15 := grid.Cells[2+15]
	if !jan15.IsToday {
		t.Error("expected Jan 15 flagged as today")
	}
	if jan2.IsToday || jan8.IsToday {
		t.Error("only one cell may be today")
	}
}

func TestBuildCalendarGrid_MonthStartingSunday(t *testing.T) {
	// June 2025 starts on a Sunday: no leading empties, overflow runs
	// June 31..35 -> July 1..5.
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	grid := BuildCalendarGrid(nil, nil, now)

	if grid.Cells[0].Empty || grid.Cells[0].Day != 1 {
		t.Errorf("expected day 1 in first cell, got %+v", grid.Cells[0])
	}
	last := grid.Cells[34]
	if last.Date != "2025-07-05" || last.InMonth {
		t.Errorf("expected overflow cell 2025-07-05, got %+v", last)
	}
}

// --- BuildAnalytics ---

func TestBuildAnalytics_CountsAndScale(t *testing.T) {
	analytics := BuildAnalytics(viewEvents())

	if analytics.TotalEvents != 5 {
		t.Errorf("expected 5 total events, got %d", analytics.TotalEvents)
	}
	if analytics.BeforeOpenCount != 2 || analytics.AfterCloseCount != 2 || analytics.UnknownCount != 1 {
		t.Errorf("unexpected time-category counts: %+v", analytics)
	}
	if analytics.MaxDayCount != 2 {
		t.Errorf("expected max day count 2, got %d", analytics.MaxDayCount)
	}

	// Sum of per-date counts equals the total event count.
	sum := 0
	for _, day := range analytics.Days {
		sum += day.Count
	}
	if sum != analytics.TotalEvents {
		t.Errorf("per-date counts sum to %d, want %d", sum, analytics.TotalEvents)
	}

	// Full-height bar for the busiest day, half for singletons.
	for _, day := range analytics.Days {
		want := float64(day.Count) / 2
		if day.Scale != want {
			t.Errorf("day %s: expected scale %v, got %v", day.Date, want, day.Scale)
		}
	}
}

func TestBuildAnalytics_EmptyAvoidsDivisionByZero(t *testing.T) {
	analytics := BuildAnalytics(nil)
	if analytics.MaxDayCount != 1 {
		t.Errorf("expected max day count floor of 1, got %d", analytics.MaxDayCount)
	}
	if analytics.TotalEvents != 0 || len(analytics.Days) != 0 {
		t.Errorf("expected empty analytics, got %+v", analytics)
	}
}

func TestBuildAnalytics_DaysSorted(t *testing.T) {
	analytics := BuildAnalytics(viewEvents())
	for i := 1; i < len(analytics.Days); i++ {
		if analytics.Days[i-1].Date >= analytics.Days[i].Date {
			t.Errorf("days out of order: %s before %s", analytics.Days[i-1].Date, analytics.Days[i].Date)
		}
	}
}
