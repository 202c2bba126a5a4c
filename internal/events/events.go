package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventSnapshotReloaded fires after the dataset store swaps in a new
	// snapshot. Subscribers (e.g. the answer cache) invalidate anything
	// derived from the previous one.
	EventSnapshotReloaded EventType = "snapshot_reloaded"
)

// Event describes something that happened to the shared dataset.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SnapshotID string    `json:"snapshot_id"`
	Rows       int       `json:"rows"`
	Timestamp  time.Time `json:"timestamp"`
}
