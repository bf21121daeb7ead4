package common

import (
	"testing"
	"time"
)

func TestIsFresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		updated time.Time
		want    bool
	}{
		{"just fetched", now.Add(-time.Minute), true},
		{"well within ttl", now.Add(-11 * time.Hour), true},
		{"just past ttl", now.Add(-CacheTTL - time.Minute), false},
		{"far past ttl", now.Add(-48 * time.Hour), false},
		{"zero time", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(tt.updated, CacheTTL); got != tt.want {
				t.Errorf("IsFresh(%v) = %v, want %v", tt.updated, got, tt.want)
			}
		})
	}
}

func TestIsFreshAt(t *testing.T) {
	// The reference time is what counts, however far it sits from the wall
	// clock.
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	if !IsFreshAt(now, now.Add(-1*time.Hour), CacheTTL) {
		t.Error("1h-old timestamp must be fresh at the reference time")
	}
	if IsFreshAt(now, now.Add(-13*time.Hour), CacheTTL) {
		t.Error("13h-old timestamp must be stale at the reference time")
	}
	if IsFreshAt(now, time.Time{}, CacheTTL) {
		t.Error("zero timestamp must never be fresh")
	}
}

func TestCacheTTL(t *testing.T) {
	if CacheTTL != 12*time.Hour {
		t.Errorf("expected 12h cache TTL, got %v", CacheTTL)
	}
}
