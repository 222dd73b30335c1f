package models

import "time"

// Attachment is one stored version of a file as reported by the server.
type Attachment struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Hash      string    `json:"hash"`
	Version   int       `json:"version"`
	IsLatest  bool      `json:"isLatest"`
	CreatedAt time.Time `json:"createdAt"`
	URL       string    `json:"url"`
}

// Summary converts a into the form embedded in the owning note.
func (a Attachment) Summary() AttachmentSummary {
	return AttachmentSummary{
		ID:       a.ID,
		URL:      a.URL,
		Filename: a.Filename,
		MimeType: a.MimeType,
		Size:     a.Size,
		Version:  a.Version,
		Hash:     a.Hash,
	}
}
