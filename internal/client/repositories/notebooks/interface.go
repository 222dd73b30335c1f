package notebooks

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

// Repository mirrors notes.Repository for notebooks.
type Repository interface {
	Upsert(ctx context.Context, nb *models.Notebook) error
	Get(ctx context.Context, id string) (*models.Notebook, error)
	List(ctx context.Context) ([]models.Notebook, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.SyncStatus) error
	IDsByStatus(ctx context.Context, synced bool) ([]string, error)
}
