package client

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Client is the remote side of replication as seen by the syncer and the
// attachment service.
type Client interface {
	Ping(ctx context.Context) error

	// Create upserts the entity by id; repeating it is harmless.
	Create(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error
	// Update returns ErrNotFound when the server has no such entity.
	Update(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error
	// Delete succeeds for entities the server does not have.
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	ListNotebooks(ctx context.Context) ([]models.Notebook, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListNotes(ctx context.Context) ([]models.Note, error)

	UploadAttachment(ctx context.Context, noteID, filename, mimeType string, r io.Reader) (*models.Attachment, error)
	ListAttachments(ctx context.Context, noteID string) ([]models.Attachment, error)
	AttachmentHistory(ctx context.Context, noteID, filename string) ([]models.Attachment, error)
	DeleteAttachment(ctx context.Context, id string) error
	DownloadAttachment(ctx context.Context, id string, w io.Writer) (int64, error)
}
