package syncer

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Remote is the subset of client.Client the reconcilers need.
type Remote interface {
	Create(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error
	Update(ctx context.Context, kind models.EntityKind, id string, payload json.RawMessage) error
	Delete(ctx context.Context, kind models.EntityKind, id string) error

	ListNotebooks(ctx context.Context) ([]models.Notebook, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	ListNotes(ctx context.Context) ([]models.Note, error)
}
