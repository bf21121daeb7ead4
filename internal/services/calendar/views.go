package calendar

import (
	"sort"
	"time"

	"github.com/bobmcallan/pulse/internal/models"
)

// The view transforms are pure and stateless: recomputed from the current
// event list on demand, never cached separately.

// GroupByDate partitions events into per-date buckets. Buckets are emitted
// in ascending lexicographic key order (chronological, given YYYY-MM-DD);
// within a bucket events keep their source-list order.
func GroupByDate(events []models.EarningsEvent) []models.DateBucket {
	groups := make(map[string][]models.EarningsEvent)
	for _, event := range events {
		groups[event.Date] = append(groups[event.Date], event)
	}

	dates := make([]string, 0, len(groups))
	for date := range groups {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	buckets := make([]models.DateBucket, len(dates))
	for i, date := range dates {
		buckets[i] = models.DateBucket{Date: date, Events: groups[date]}
	}
	return buckets
}

// EventsOn returns the events for one date, in source-list order.
func EventsOn(events []models.EarningsEvent, date string) []models.EarningsEvent {
	var out []models.EarningsEvent
	for _, event := range events {
		if event.Date == date {
			out = append(out, event)
		}
	}
	return out
}

// BuildCalendarGrid produces the fixed 35-cell (5 weeks x 7 days) grid for
// the month containing now, starting from the Sunday on or before the 1st.
// Cells before day 1 are empty; cells after the last day roll into the next
// month with correct dates. A cell is flagged has-followed when any of its
// events' tickers are in the followed set.
func BuildCalendarGrid(events []models.EarningsEvent, followed map[string]bool, now time.Time) models.CalendarGrid {
	groups := make(map[string][]models.EarningsEvent)
	for _, event := range events {
		groups[event.Date] = append(groups[event.Date], event)
	}

	year, month, _ := now.Date()
	loc := now.Location()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	leading := int(firstOfMonth.Weekday()) // 0 is Sunday
	today := now.Format(models.DateLayout)

	grid := models.CalendarGrid{
		Year:  year,
		Month: int(month),
		Cells: make([]models.CalendarCell, 35),
	}

	for i := range grid.Cells {
		dayNumber := i - leading + 1
		if dayNumber < 1 {
			grid.Cells[i] = models.CalendarCell{Empty: true}
			continue
		}

		// Date normalization handles the roll into the next month.
		cellDate := time.Date(year, month, dayNumber, 0, 0, 0, 0, loc)
		dateStr := cellDate.Format(models.DateLayout)
		cellEvents := groups[dateStr]

		cell := models.CalendarCell{
			Date:    dateStr,
			Day:     cellDate.Day(),
			InMonth: cellDate.Month() == month,
			IsToday: dateStr == today,
			Events:  cellEvents,
		}
		for _, event := range cellEvents {
			if followed[event.Ticker] {
				cell.HasFollowed = true
				break
			}
		}
		grid.Cells[i] = cell
	}

	return grid
}

// BuildAnalytics counts events per date and per report-time category. The
// bar scale divides each day's count by the maximum single-day count across
// the window, floored at 1 to avoid division by zero.
func BuildAnalytics(events []models.EarningsEvent) models.Analytics {
	analytics := models.Analytics{TotalEvents: len(events)}

	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Date]++
		switch event.Time {
		case models.ReportTimeBeforeOpen:
			analytics.BeforeOpenCount++
		case models.ReportTimeAfterClose:
			analytics.AfterCloseCount++
		default:
			analytics.UnknownCount++
		}
	}

	dates := make([]string, 0, len(counts))
	maxCount := 1
	for date, count := range counts {
		dates = append(dates, date)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Strings(dates)

	analytics.MaxDayCount = maxCount
	analytics.Days = make([]models.DayCount, len(dates))
	for i, date := range dates {
		analytics.Days[i] = models.DayCount{
			Date:  date,
			Count: counts[date],
			Scale: float64(counts[date]) / float64(maxCount),
		}
	}

	return analytics
}
