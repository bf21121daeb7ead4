// Package common provides shared utilities for Pulse
package common

import "time"

// CacheTTL is the hard freshness threshold for the earnings calendar cache.
// Staleness is binary: a cache younger than this is served without a fetch,
// anything older (or absent) forces a provider call.
const CacheTTL = 12 * time.Hour

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	return IsFreshAt(time.Now(), updated, ttl)
}

// IsFreshAt is IsFresh measured against an explicit reference time, for
// callers that carry their own clock.
func IsFreshAt(now, updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
