package models

import "time"

// Attachment is one stored version of a file attached to a note.
//
// Versions of the same (UserID, NoteID, Filename) form a chain numbered from
// 1; exactly one of them has IsLatest set. StorageKey addresses the payload
// in the blob store and is never exposed to clients.
type Attachment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	NoteID     string    `json:"noteId"`
	StorageKey string    `json:"-"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	Hash       string    `json:"hash"`
	Version    int       `json:"version"`
	IsLatest   bool      `json:"isLatest"`
	CreatedAt  time.Time `json:"createdAt"`
	URL        string    `json:"url,omitempty"`
}

// GroupKey identifies the version chain a belongs to.
func (a *Attachment) GroupKey() string {
	return a.UserID + "\x00" + a.NoteID + "\x00" + a.Filename
}
