// Package models defines the client-side records kept in the local replica:
// notes, notebooks and tags, their sync status, and mutation queue entries.
package models

import (
	"fmt"
	"time"
)

// EntityKind names one of the replicated entity collections.
type EntityKind string

const (
	KindNote     EntityKind = "NOTE"
	KindNotebook EntityKind = "NOTEBOOK"
	KindTag      EntityKind = "TAG"
)

// Kinds lists every replicated kind in pull order. Notebooks and tags come
// before notes so that note references resolve against fresh data.
var Kinds = []EntityKind{KindNotebook, KindTag, KindNote}

// ParseKind accepts both the wire form ("NOTE") and the REPL form ("note", "notes").
func ParseKind(s string) (EntityKind, error) {
	switch s {
	case "NOTE", "note", "notes":
		return KindNote, nil
	case "NOTEBOOK", "notebook", "notebooks":
		return KindNotebook, nil
	case "TAG", "tag", "tags":
		return KindTag, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Collection is the REST path segment for the kind.
func (k EntityKind) Collection() string {
	switch k {
	case KindNote:
		return "notes"
	case KindNotebook:
		return "notebooks"
	case KindTag:
		return "tags"
	}
	return ""
}

// SyncStatus tracks whether a local entity has changes the server has not seen.
type SyncStatus string

const (
	StatusSynced  SyncStatus = "synced"
	StatusCreated SyncStatus = "created"
	StatusUpdated SyncStatus = "updated"
)

// AttachmentSummary is the note-embedded view of the latest version of an
// attachment. The bytes themselves live only on the server.
type AttachmentSummary struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Version  int    `json:"version"`
	Hash     string `json:"hash"`
}

type Note struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	NotebookID  string              `json:"notebookId,omitempty"`
	Trashed     bool                `json:"trashed"`
	Encrypted   bool                `json:"encrypted,omitempty"`
	TagIDs      []string            `json:"tagIds"`
	Attachments []AttachmentSummary `json:"attachments"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
	SyncStatus  SyncStatus          `json:"-"`
}

type Notebook struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	SyncStatus SyncStatus `json:"-"`
}

type Tag struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SyncStatus SyncStatus `json:"-"`
}
