package tags

import (
	"context"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, t *models.Tag) error
	Get(ctx context.Context, id string) (*models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.SyncStatus) error
	IDsByStatus(ctx context.Context, synced bool) ([]string, error)
}
