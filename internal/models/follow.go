package models

// FollowedStock is a user subscription to notifications for a ticker.
// Keyed by ticker, unique. Lives independently of the event cache and
// survives refreshes.
type FollowedStock struct {
	Ticker          string `json:"ticker"`
	NotifyOnDay     bool   `json:"notify_on_day"`
	NotifyDayBefore bool   `json:"notify_day_before"`
}

// FollowList is the full persisted set of followed stocks.
type FollowList struct {
	Stocks []FollowedStock `json:"stocks"`
}

// FindByTicker returns the entry for ticker and its index, or nil and -1.
func (l *FollowList) FindByTicker(ticker string) (*FollowedStock, int) {
	for i := range l.Stocks {
		if l.Stocks[i].Ticker == ticker {
			return &l.Stocks[i], i
		}
	}
	return nil, -1
}

// Contains reports membership by ticker.
func (l *FollowList) Contains(ticker string) bool {
	_, idx := l.FindByTicker(ticker)
	return idx >= 0
}

// Tickers returns the followed ticker symbols in list order.
func (l *FollowList) Tickers() []string {
	out := make([]string, len(l.Stocks))
	for i, s := range l.Stocks {
		out[i] = s.Ticker
	}
	return out
}

// TickerSet returns the followed tickers as a membership set.
func (l *FollowList) TickerSet() map[string]bool {
	set := make(map[string]bool, len(l.Stocks))
	for _, s := range l.Stocks {
		set[s.Ticker] = true
	}
	return set
}
