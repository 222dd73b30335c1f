package notes

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type Repository interface {
	// Upsert inserts the note or replaces every column of an existing row.
	Upsert(ctx context.Context, n *models.Note) error

	// Get returns common.ErrorNotFound when the note does not exist.
	Get(ctx context.Context, id string) (*models.Note, error)

	// List returns notes ordered by updatedAt, newest first.
	List(ctx context.Context) ([]models.Note, error)

	// Delete removes the row. Deleting a missing note is not an error.
	Delete(ctx context.Context, id string) error

	SetStatus(ctx context.Context, id string, status models.SyncStatus) error

	// IDsByStatus returns ids whose status is (synced == true) or is not
	// (synced == false) StatusSynced.
	IDsByStatus(ctx context.Context, synced bool) ([]string, error)
}
