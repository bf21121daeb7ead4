package models

// DateBucket is one date's events in the grouped list view. Buckets are
// emitted in ascending date order; events keep their source-list order.
type DateBucket struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Events []EarningsEvent `json:"events"`
}

// CalendarCell is one cell of the month grid. Empty is true for the leading
// cells before day 1 of the month; trailing cells roll into the next month
// with InMonth false.
type CalendarCell struct {
	Date        string          `json:"date,omitempty"` // YYYY-MM-DD, empty for leading cells
	Day         int             `json:"day,omitempty"`  // day of month, 0 for leading cells
	Empty       bool            `json:"empty"`
	InMonth     bool            `json:"in_month"`
	IsToday     bool            `json:"is_today"`
	HasFollowed bool            `json:"has_followed"`
	Events      []EarningsEvent `json:"events,omitempty"`
}

// CalendarGrid is the fixed 35-cell (5 weeks x 7 days) month view starting
// from the Sunday on or before the 1st.
type CalendarGrid struct {
	Year  int            `json:"year"`
	Month int            `json:"month"` // 1-12
	Cells []CalendarCell `json:"cells"`
}

// DayCount is one bar of the reporting-frequency histogram.
type DayCount struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Scale float64 `json:"scale"` // count / max single-day count, for bar height
}

// Analytics holds the per-day histogram and the report-time KPI totals.
type Analytics struct {
	TotalEvents     int        `json:"total_events"`
	BeforeOpenCount int        `json:"before_open_count"`
	AfterCloseCount int        `json:"after_close_count"`
	UnknownCount    int        `json:"unknown_count"`
	MaxDayCount     int        `json:"max_day_count"` // at least 1
	Days            []DayCount `json:"days"`
}
