package models

import (
	"encoding/json"
	"time"
)

// MutationType is the kind of change a queue entry replays on the server.
type MutationType string

const (
	MutationCreate MutationType = "CREATE"
	MutationUpdate MutationType = "UPDATE"
	MutationDelete MutationType = "DELETE"
)

// QueueEntry is one pending local mutation. Seq is assigned by the store and
// strictly increases in enqueue order. Payload is the full entity snapshot
// for CREATE and UPDATE and empty for DELETE.
type QueueEntry struct {
	Seq        int64
	Type       MutationType
	Kind       EntityKind
	EntityID   string
	Payload    json.RawMessage
	EnqueuedAt time.Time

	// retry bookkeeping, maintained by the push reconciler
	Attempts      int // rejected sends, counted toward quarantine
	Retries       int // sends that failed while the server was unreachable
	NextAttemptAt time.Time
	LastError     string
	Quarantined   bool
}

// Ready reports whether the entry may be sent at now.
func (e QueueEntry) Ready(now time.Time) bool {
	if e.Quarantined {
		return false
	}
	return e.NextAttemptAt.IsZero() || !e.NextAttemptAt.After(now)
}
