// Package models defines data structures for Pulse
package models

import (
	"time"
)

// ReportTime categorizes when in the trading day an earnings report lands.
type ReportTime string

const (
	ReportTimeBeforeOpen ReportTime = "BMO" // Before Market Open
	ReportTimeAfterClose ReportTime = "AMC" // After Market Close
	ReportTimeUnknown    ReportTime = "TBD"
)

// Valid reports whether t is one of the three known categories.
func (t ReportTime) Valid() bool {
	return t == ReportTimeBeforeOpen || t == ReportTimeAfterClose || t == ReportTimeUnknown
}

// DateLayout is the calendar date format used throughout the event data.
const DateLayout = "2006-01-02"

// EarningsEvent is a single upcoming earnings report. Identity is
// ticker+date; events are immutable once fetched and replaced wholesale on
// each successful refresh.
type EarningsEvent struct {
	Ticker      string     `json:"ticker"`
	CompanyName string     `json:"company_name"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Time        ReportTime `json:"time"`
	Estimate    string     `json:"estimate"`             // EPS estimate, "N/A" when unavailable
	MarketCap   string     `json:"market_cap,omitempty"` // free-form, as reported by the provider
}

// EarningsFetch is the result of one provider call: the event list plus the
// grounding source URLs cited for it.
type EarningsFetch struct {
	Events  []EarningsEvent `json:"events"`
	Sources []string        `json:"sources"`
}

// CalendarCache is the durable snapshot of the last successful fetch.
// Events, sources, and timestamp are written as one record; FetchedAt is
// always the wall-clock time of the fetch that produced Events.
type CalendarCache struct {
	Events    []EarningsEvent `json:"events"`
	Sources   []string        `json:"sources"`
	FetchedAt int64           `json:"fetched_at"` // epoch milliseconds
}

// FetchedTime returns FetchedAt as a time.Time.
func (c *CalendarCache) FetchedTime() time.Time {
	return time.UnixMilli(c.FetchedAt)
}

// CalendarState is the runtime view of the calendar data. Loading true means
// a refresh is in flight (error is cleared when it starts); a populated
// Error may coexist with stale-but-displayable events from an earlier load.
type CalendarState struct {
	Events      []EarningsEvent `json:"events"`
	Sources     []string        `json:"sources"`
	LastUpdated time.Time       `json:"last_updated"`
	Loading     bool            `json:"loading"`
	Error       string          `json:"error,omitempty"`
}

// ViewMode selects which of the three views renders the event list.
type ViewMode string

const (
	ViewList      ViewMode = "list"
	ViewCalendar  ViewMode = "calendar"
	ViewAnalytics ViewMode = "analytics"
)

// ValidViewMode reports whether m names one of the three views.
func ValidViewMode(m ViewMode) bool {
	return m == ViewList || m == ViewCalendar || m == ViewAnalytics
}
