// Package queue defines message payloads exchanged over the message broker
// plus the publisher and consumer for content audit events.
package queue

// ContentChangedEvent is published whenever an authenticated write changes
// a content section. It carries enough for downstream consumers to build
// an audit trail without querying the primary database.
type ContentChangedEvent struct {
	Section   string `json:"section"`
	Action    string `json:"action"` // "upsert" or "delete"
	UserID    uint64 `json:"user_id"`
	Username  string `json:"username"`
	ChangedAt string `json:"changed_at"`
}
