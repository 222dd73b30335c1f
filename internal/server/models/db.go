// Package models defines server-side data models persisted in the database.
package models

import (
	"encoding/json"
	"time"
)

// Entity is one replicated record (note, notebook or tag) of a user. The
// payload is the client's JSON snapshot, stored and returned verbatim.
type Entity struct {
	UserID    string
	Kind      string
	ID        string
	Payload   json.RawMessage
	UpdatedAt time.Time
}

// Entity kinds accepted by the API, keyed by their REST collection name.
var Collections = map[string]string{
	"notes":     "NOTE",
	"notebooks": "NOTEBOOK",
	"tags":      "TAG",
}
