package models

import "time"

// Permission mirrors the three-state delivery permission of the
// notification capability.
type Permission string

const (
	PermissionUndetermined Permission = "undetermined"
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
)

// NotificationKind distinguishes the two alert conditions.
type NotificationKind string

const (
	NotifyToday    NotificationKind = "today"
	NotifyTomorrow NotificationKind = "tomorrow"
)

// Notification is one fired alert for a followed ticker.
type Notification struct {
	ID     string           `json:"id"`
	Ticker string           `json:"ticker"`
	Kind   NotificationKind `json:"kind"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	SentAt time.Time        `json:"sent_at"`
}
